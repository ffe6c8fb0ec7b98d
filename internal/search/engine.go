// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search implements the metasearch core: argument normalization,
// the engine contract and its executor, and concurrent multi-engine
// orchestration. Engines for specific sources live in internal/backends;
// this package depends only on the Engine interface.
// Implements: prd002-normalization, prd003-capabilities,
//
//	prd004-engine-contract, prd005-orchestration;
//	docs/ARCHITECTURE § Search Core.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/metasearch/pkg/types"
)

// Engine is the contract every configured search source satisfies, per
// the Strategy pattern. Implementations translate the canonical request
// into their wire protocol and their responses into the canonical result
// model. They must hold no per-call mutable state: one instance may serve
// concurrent searches.
//
// SearchImplementation fills items and TotalItems only. EngineID, timing,
// and display configuration are stamped by the executor afterwards;
// values an implementation sets there are overwritten.
type Engine interface {
	// SearchImplementation runs one search. Contained failure kinds
	// (timeouts, malformed responses, UpstreamError) are returned as
	// errors and converted by the executor; any other error propagates.
	SearchImplementation(ctx context.Context, req *types.SearchRequest) (*types.ResultSet, error)

	// Capabilities returns the engine type's static declarations.
	Capabilities() Capabilities

	// Configuration returns the read-only instance configuration.
	Configuration() types.EngineConfig
}

// ErrorContainer lets an engine extend the containment allow-list beyond
// the default set, for source-specific transient failures.
type ErrorContainer interface {
	Containable(err error) bool
}

// EngineID returns the engine's configured identity, falling back to a
// name derived from the engine's dynamic type when none was configured.
func EngineID(e Engine) string {
	if id := e.Configuration().ID; id != "" {
		return id
	}
	return typeName(e)
}

// typeName derives a lowercase identifier from an engine's Go type
// (e.g. *backends.ArxivEngine -> "arxiv").
func typeName(e Engine) string {
	name := fmt.Sprintf("%T", e)
	name = strings.TrimLeft(name, "*")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, "Engine")
	return strings.ToLower(name)
}
