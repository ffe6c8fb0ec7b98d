// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Args is the raw, untyped argument map accepted at the search entry
// points: string keys, values of any coercible type. Callers at a trust
// boundary must filter incoming keys through the public-settable
// whitelist before passing a map here.
type Args map[string]any

// Clone returns a shallow copy so normalization never mutates caller maps.
func (a Args) Clone() Args {
	if a == nil {
		return nil
	}
	out := make(Args, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// SearchRequest is the canonical request shape every engine receives.
// It is constructed by the argument normalizer once per call and never
// mutated afterwards.
//
// Page and Start are mutually derived and both always set:
// start = (page-1)*per_page and page = start/per_page + 1.
type SearchRequest struct {
	// Query is the search text.
	Query string

	// SearchField is the engine-specific field key to scope the query to.
	// Empty means unscoped.
	SearchField string

	// SemanticField preserves the caller's cross-engine field name
	// (e.g. "title") as supplied, whether or not the engine mapped it.
	SemanticField string

	// Sort is an engine sort key, or empty for the engine default.
	Sort string

	// Page is the 1-based page number.
	Page int

	// Start is the 0-based offset of the first requested item.
	Start int

	// PerPage is the page size. Defaults to 10; never exceeds the
	// engine's advertised maximum.
	PerPage int

	// Extra carries caller-supplied keys the engine interprets itself.
	// Opaque passthrough; the core neither reads nor validates them.
	Extra map[string]any
}
