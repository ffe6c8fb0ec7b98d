// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/metasearch/pkg/types"
)

// Constructor builds one engine instance from its configuration. Each
// engine type registers one; missing required configuration keys are
// *ConfigurationError.
type Constructor func(cfg types.EngineConfig) (Engine, error)

// Registry resolves engine identities to constructed engine instances.
// It replaces ambient global lookup: build one at startup, populate it
// from configuration, and pass it to whatever needs to resolve an engine.
// After Configure it is read-only.
type Registry struct {
	constructors map[string]Constructor
	engines      map[string]Engine
	order        []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
		engines:      make(map[string]Engine),
	}
}

// RegisterType associates an engine type name (e.g. "arxiv") with its
// constructor. Called at startup before Configure.
func (r *Registry) RegisterType(name string, c Constructor) {
	r.constructors[name] = c
}

// RegistryConfig is the on-disk declaration of configured engines.
type RegistryConfig struct {
	Engines []EngineEntry `yaml:"engines"`
}

// EngineEntry configures one engine instance.
type EngineEntry struct {
	// ID is the engine identity within this registry. Defaults to Type.
	ID string `yaml:"id"`

	// Type selects the registered engine type.
	Type string `yaml:"type"`

	// ForDisplay is presentation configuration, opaque to the core.
	ForDisplay types.DisplayConfig `yaml:"for_display,omitempty"`

	// UnrecognizedField overrides the unrecognized-search-field policy.
	UnrecognizedField string `yaml:"unrecognized_search_field,omitempty"`

	// Config holds engine-specific keys.
	Config map[string]any `yaml:"config,omitempty"`
}

// engineConfig converts the entry into the runtime configuration shape.
func (e EngineEntry) engineConfig(http types.HTTPConfig) types.EngineConfig {
	id := e.ID
	if id == "" {
		id = e.Type
	}
	return types.EngineConfig{
		ID:                id,
		Display:           e.ForDisplay,
		UnrecognizedField: e.UnrecognizedField,
		HTTP:              http,
		Extra:             e.Config,
	}
}

// LoadRegistryConfig reads a registry configuration from a YAML file.
func LoadRegistryConfig(path string) (*RegistryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading engine configuration %s: %w", path, err)
	}
	var cfg RegistryConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing engine configuration %s: %w", path, err)
	}
	return &cfg, nil
}

// Configure constructs one engine per entry. An unknown type, a failing
// constructor, or a duplicate identity is a configuration error: silently
// dropping an engine behind a duplicated id would hide a deployment bug.
func (r *Registry) Configure(cfg RegistryConfig, http types.HTTPConfig) error {
	for _, entry := range cfg.Engines {
		if entry.Type == "" {
			return &ConfigurationError{EngineType: entry.ID, Key: "type", Detail: "engine entry has no type"}
		}
		ctor, ok := r.constructors[entry.Type]
		if !ok {
			return &ConfigurationError{EngineType: entry.Type, Key: "type", Detail: "unknown engine type"}
		}

		ec := entry.engineConfig(http)
		if _, exists := r.engines[ec.ID]; exists {
			return &ConfigurationError{EngineType: entry.Type, Key: "id", Detail: fmt.Sprintf("duplicate engine id %q", ec.ID)}
		}

		engine, err := ctor(ec)
		if err != nil {
			return err
		}
		r.engines[ec.ID] = engine
		r.order = append(r.order, ec.ID)
	}
	return nil
}

// Resolve returns the engine configured under id.
func (r *Registry) Resolve(id string) (Engine, bool) {
	e, ok := r.engines[id]
	return e, ok
}

// Engines returns all configured engines in configuration order.
func (r *Registry) Engines() []Engine {
	out := make([]Engine, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.engines[id])
	}
	return out
}

// IDs returns the configured engine identities in configuration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
