// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by engines that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. An engine exceeding it fails
	// with a contained timeout, not an aborted run.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "metasearch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Unrecognized-search-field policies. The policy resolves from a request
// override first, then the engine configuration, defaulting to ignore.
const (
	PolicyRaise  = "raise"
	PolicyIgnore = "ignore"
)

// DisplayConfig is presentation configuration attached to an engine. The
// core stamps it onto results untouched; only the view layer interprets it.
type DisplayConfig struct {
	// Decorator names a presentation adapter for this engine's items.
	Decorator string `json:"decorator,omitempty" yaml:"decorator,omitempty"`

	// Extra holds arbitrary additional presentation keys.
	Extra map[string]any `json:"extra,omitempty" yaml:",inline"`
}

// Map flattens the display configuration into the opaque map form stamped
// onto ResultSets and Items.
func (d DisplayConfig) Map() map[string]any {
	if d.Decorator == "" && len(d.Extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(d.Extra)+1)
	for k, v := range d.Extra {
		out[k] = v
	}
	if d.Decorator != "" {
		out["decorator"] = d.Decorator
	}
	return out
}

// EngineConfig is the read-only configuration of one engine instance.
// It is fixed at construction; engines and the core never mutate it at
// search time, which is what makes one engine instance safe to share
// across concurrent searches.
type EngineConfig struct {
	// ID uniquely identifies this engine instance within a registry scope
	// and keys its entry in multi-engine results.
	ID string `json:"id" yaml:"id"`

	// Display is presentation configuration, opaque to the core.
	Display DisplayConfig `json:"for_display,omitempty" yaml:"for_display,omitempty"`

	// UnrecognizedField selects the normalization policy for search
	// fields the engine does not declare: PolicyRaise or PolicyIgnore
	// (the default).
	UnrecognizedField string `json:"unrecognized_search_field,omitempty" yaml:"unrecognized_search_field,omitempty"`

	// HTTP holds shared HTTP settings for engines that need them.
	HTTP HTTPConfig `json:"http,omitempty" yaml:"http,omitempty"`

	// Extra holds engine-specific configuration keys. Each engine type
	// declares which of these it requires at construction.
	Extra map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// ExtraString returns the named engine-specific configuration value as a
// string, or "" when absent or not a string.
func (c EngineConfig) ExtraString(key string) string {
	if v, ok := c.Extra[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// HistoryConfig holds settings for the search-run history store.
type HistoryConfig struct {
	// Dir is the directory holding the history database (history.db).
	Dir string `json:"dir" yaml:"dir"`

	// MaxRuns caps how many runs `history list` returns by default.
	MaxRuns int `json:"max_runs" yaml:"max_runs"`
}
