// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backends

import (
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/metasearch/internal/search"
	"github.com/pdiddy/metasearch/pkg/types"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		name string
		full string
		want types.Author
	}{
		{"first and last", "Ada Lovelace", types.Author{First: "Ada", Last: "Lovelace"}},
		{"middle initial", "Alan M. Turing", types.Author{First: "Alan M.", Last: "Turing"}},
		{"single token", "Aristotle", types.Author{Display: "Aristotle"}},
		{"surrounding whitespace", "  Grace Hopper  ", types.Author{First: "Grace", Last: "Hopper"}},
		{"empty", "", types.Author{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitName(tt.full); got != tt.want {
				t.Errorf("splitName(%q) = %+v, want %+v", tt.full, got, tt.want)
			}
		})
	}
}

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		name  string
		extra map[string]any
		want  rate.Limit
	}{
		{"unset uses fallback", nil, 2},
		{"float override", map[string]any{"rate": 0.5}, 0.5},
		{"int override", map[string]any{"rate": 7}, 7},
		{"zero keeps fallback", map[string]any{"rate": 0}, 2},
		{"wrong type keeps fallback", map[string]any{"rate": "fast"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLimiter(types.EngineConfig{Extra: tt.extra}, 2)
			if l.Limit() != tt.want {
				t.Errorf("Limit() = %v, want %v", l.Limit(), tt.want)
			}
		})
	}
}

func TestNewClientTimeout(t *testing.T) {
	c := newClient(types.EngineConfig{})
	if c.Timeout != defaultTimeout {
		t.Errorf("default Timeout = %v, want %v", c.Timeout, defaultTimeout)
	}

	c = newClient(types.EngineConfig{HTTP: types.HTTPConfig{Timeout: 3 * time.Second}})
	if c.Timeout != 3*time.Second {
		t.Errorf("configured Timeout = %v, want 3s", c.Timeout)
	}
}

func TestRegisterInstallsAllTypes(t *testing.T) {
	r := search.NewRegistry()
	Register(r)

	cfg := search.RegistryConfig{Engines: []search.EngineEntry{
		{Type: TypeArxiv},
		{Type: TypeOpenAlex},
		{Type: TypeSemanticScholar},
	}}
	if err := r.Configure(cfg, types.HTTPConfig{}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if got := len(r.IDs()); got != 3 {
		t.Errorf("len(IDs()) = %d, want 3", got)
	}
}
