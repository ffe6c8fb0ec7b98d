// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"time"

	"github.com/pdiddy/metasearch/pkg/types"
)

// Executor is the core's single entry point for running one engine's
// search: it normalizes arguments, times the call, contains declared
// failure kinds, and stamps result metadata. The executor owns the
// metadata enrichment step exclusively; whatever an engine sets for
// EngineID, timing, or display configuration is overwritten here.
type Executor struct {
	engine Engine
}

// NewExecutor wraps an engine.
func NewExecutor(e Engine) *Executor {
	return &Executor{engine: e}
}

// Engine returns the wrapped engine.
func (x *Executor) Engine() Engine { return x.engine }

// Search is the convenience entry point for a bare query plus options.
func (x *Executor) Search(ctx context.Context, query string, opts types.Args) (*types.ResultSet, error) {
	args := opts.Clone()
	if args == nil {
		args = types.Args{}
	}
	args["query"] = query
	return x.Execute(ctx, args)
}

// Execute runs one search from raw caller arguments. Domain failures
// never surface as Go errors: normalization rejections and contained
// upstream failures come back as failed ResultSets. The returned error is
// non-nil only for failure kinds outside the containment allow-list,
// which propagate so that programming bugs stay visible.
func (x *Executor) Execute(ctx context.Context, raw types.Args) (*types.ResultSet, error) {
	started := time.Now()

	req, err := Normalize(raw, x.engine.Capabilities(), x.engine.Configuration())
	if err != nil {
		var iae *InvalidArgumentsError
		if errors.As(err, &iae) {
			return x.failedSet(raw, req, started, &types.ErrorInfo{
				Kind:    types.ErrInvalidArguments,
				Message: iae.Reason,
				Cause:   err,
			}), nil
		}
		return nil, err
	}

	rs, err := x.engine.SearchImplementation(ctx, req)
	if err != nil {
		if x.containable(err) {
			return x.failedSet(raw, req, started, &types.ErrorInfo{
				Kind:    types.ErrUpstreamFailure,
				Message: err.Error(),
				Cause:   err,
			}), nil
		}
		return nil, err
	}
	if rs == nil {
		rs = &types.ResultSet{}
	}

	x.stamp(rs, raw, req, started)
	return rs, nil
}

// containable applies the default allow-list plus any engine extension.
func (x *Executor) containable(err error) bool {
	if Containable(err) {
		return true
	}
	if ec, ok := x.engine.(ErrorContainer); ok {
		return ec.Containable(err)
	}
	return false
}

// stamp writes executor-owned metadata onto a successful set and its items.
func (x *Executor) stamp(rs *types.ResultSet, raw types.Args, req *types.SearchRequest, started time.Time) {
	cfg := x.engine.Configuration()

	rs.SearchArgs = raw.Clone()
	rs.Start = req.Start
	rs.PerPage = req.PerPage
	rs.EngineID = EngineID(x.engine)
	rs.DisplayConfiguration = cfg.Display.Map()
	rs.Timing = time.Since(started)

	for i := range rs.Items {
		rs.Items[i].EngineID = rs.EngineID
		rs.Items[i].Decorator = cfg.Display.Decorator
		rs.Items[i].DisplayConfiguration = rs.DisplayConfiguration
	}
}

// failedSet builds a failed ResultSet carrying the same metadata a
// successful one would, so callers can render pagination and timing even
// for failures. A failed set carries no items.
func (x *Executor) failedSet(raw types.Args, req *types.SearchRequest, started time.Time, info *types.ErrorInfo) *types.ResultSet {
	rs := &types.ResultSet{
		Err:                  info,
		SearchArgs:           raw.Clone(),
		EngineID:             EngineID(x.engine),
		DisplayConfiguration: x.engine.Configuration().Display.Map(),
		Timing:               time.Since(started),
	}
	if req != nil {
		rs.Start = req.Start
		rs.PerPage = req.PerPage
	}
	return rs
}
