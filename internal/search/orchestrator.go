// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/metasearch/pkg/types"
)

// Run is one concurrent multi-engine search: fan out one task per engine,
// fan in all results keyed by engine identity. Results may be collected
// exactly once per run; callers needing re-use start a new Run.
//
// The run shares no mutable state with its tasks beyond the immutable
// input arguments, so engines safe for concurrent use need no locking
// here. There is no orchestrator-level timeout: per-engine timeouts are
// each engine's responsibility and are contained by its executor.
type Run struct {
	engines []Engine
	warn    io.Writer

	mu      sync.Mutex
	ch      chan keyedResult
	started bool
	drained bool
}

type keyedResult struct {
	id string
	rs *types.ResultSet
}

// NewRun prepares a run over the given engines. Warnings (duplicate
// engine identities) go to warn; nil discards them.
func NewRun(engines []Engine, warn io.Writer) *Run {
	if warn == nil {
		warn = io.Discard
	}
	return &Run{engines: engines, warn: warn}
}

// Start fans out one goroutine per engine, all launched before any result
// is awaited. Calling Start more than once is a no-op.
//
// Failures stay local to their engine: a contained failure is already a
// failed ResultSet from the executor, and anything escaping the executor
// (uncontained error, panic) is converted here into a failed ResultSet
// for that engine identity instead of aborting the run.
func (r *Run) Start(ctx context.Context, raw types.Args) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.started = true
	r.ch = make(chan keyedResult, len(r.engines))

	var wg sync.WaitGroup
	for _, e := range r.engines {
		wg.Add(1)
		go func(e Engine) {
			defer wg.Done()
			id := EngineID(e)

			defer func() {
				if p := recover(); p != nil {
					r.ch <- keyedResult{id: id, rs: escapedSet(e, raw, fmt.Errorf("panic: %v", p))}
				}
			}()

			rs, err := NewExecutor(e).Execute(ctx, raw)
			if err != nil {
				rs = escapedSet(e, raw, err)
			}
			r.ch <- keyedResult{id: id, rs: rs}
		}(e)
	}

	// Closing the channel after the last task guarantees Collect tears
	// down every goroutine before returning, success or failure.
	go func() {
		wg.Wait()
		close(r.ch)
	}()
}

// Collect waits for every engine task and returns the result map keyed by
// engine identity. The first call on a started run returns the populated
// map; any later call returns an empty map (one-shot semantics), as does
// collecting a run that was never started.
func (r *Run) Collect() map[string]*types.ResultSet {
	r.mu.Lock()
	if !r.started || r.drained {
		r.mu.Unlock()
		return map[string]*types.ResultSet{}
	}
	r.drained = true
	ch := r.ch
	r.mu.Unlock()

	results := make(map[string]*types.ResultSet, len(r.engines))
	for kr := range ch {
		if _, dup := results[kr.id]; dup {
			fmt.Fprintf(r.warn, "warning: duplicate engine id %q in run, keeping last result\n", kr.id)
		}
		results[kr.id] = kr.rs
	}
	return results
}

// RunAll fans out searchArgs to every engine concurrently and returns all
// results keyed by engine identity. Convenience over NewRun/Start/Collect.
func RunAll(ctx context.Context, engines []Engine, raw types.Args, warn io.Writer) map[string]*types.ResultSet {
	r := NewRun(engines, warn)
	r.Start(ctx, raw)
	return r.Collect()
}

// escapedSet converts a failure that escaped executor containment into a
// failed ResultSet at the orchestrator boundary.
func escapedSet(e Engine, raw types.Args, err error) *types.ResultSet {
	return &types.ResultSet{
		Err: &types.ErrorInfo{
			Kind:    types.ErrUpstreamFailure,
			Message: err.Error(),
			Cause:   err,
		},
		SearchArgs:           raw.Clone(),
		EngineID:             EngineID(e),
		DisplayConfiguration: e.Configuration().Display.Map(),
	}
}
