// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backends implements engine adapters for concrete search
// sources. Each adapter satisfies the search.Engine contract: it
// translates the canonical request into its wire protocol and the
// response into the canonical result model, leaving metadata stamping to
// the executor. Adapters hold no per-call mutable state, so a single
// instance serves concurrent searches.
// Implements: docs/ARCHITECTURE § Backends.
package backends

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/metasearch/internal/search"
	"github.com/pdiddy/metasearch/pkg/types"
)

// Engine type names as registered with the registry.
const (
	TypeArxiv           = "arxiv"
	TypeOpenAlex        = "openalex"
	TypeSemanticScholar = "semantic_scholar"
)

// Register installs all built-in engine types into a registry.
func Register(r *search.Registry) {
	r.RegisterType(TypeArxiv, NewArxiv)
	r.RegisterType(TypeOpenAlex, NewOpenAlex)
	r.RegisterType(TypeSemanticScholar, NewSemanticScholar)
}

const defaultTimeout = 15 * time.Second

// newClient builds the adapter's HTTP client from the engine configuration.
func newClient(cfg types.EngineConfig) *http.Client {
	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// newLimiter builds a politeness rate limiter. The "rate" configuration
// key gives requests per second; fallback applies when unset.
func newLimiter(cfg types.EngineConfig, fallback rate.Limit) *rate.Limiter {
	limit := fallback
	if v, ok := cfg.Extra["rate"]; ok {
		switch n := v.(type) {
		case float64:
			if n > 0 {
				limit = rate.Limit(n)
			}
		case int:
			if n > 0 {
				limit = rate.Limit(n)
			}
		}
	}
	return rate.NewLimiter(limit, 1)
}

// splitName converts a full name string ("Jane Q. Public") into an
// Author. The last token is the family name; single-token names keep
// only the display form.
func splitName(full string) types.Author {
	full = strings.TrimSpace(full)
	if full == "" {
		return types.Author{}
	}
	idx := strings.LastIndex(full, " ")
	if idx < 0 {
		return types.Author{Display: full}
	}
	return types.Author{
		First: full[:idx],
		Last:  full[idx+1:],
	}
}
