// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

// FieldDefinition describes one engine-specific search field. The core
// validates against the key set only; the metadata exists for listing and
// UI construction.
type FieldDefinition struct {
	// Label is a human-readable name for the field.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Semantic is the cross-engine name this field serves, when any
	// (e.g. "title", "author", "subject").
	Semantic string `json:"semantic,omitempty" yaml:"semantic,omitempty"`
}

// Capabilities is an engine type's static declaration of what it supports.
// Supplied by each engine implementation at construction and read-only
// afterwards.
type Capabilities struct {
	// MaxPerPage is the largest page size the engine accepts. Zero means
	// unbounded. A request over the maximum is rejected, never clamped.
	MaxPerPage int `json:"max_per_page,omitempty" yaml:"max_per_page,omitempty"`

	// SearchFields maps engine-specific field keys to their descriptions.
	SearchFields map[string]FieldDefinition `json:"search_fields,omitempty" yaml:"search_fields,omitempty"`

	// SemanticFields maps cross-engine field names to engine-specific
	// field keys. A missing name means the engine does not support it.
	SemanticFields map[string]string `json:"semantic_fields,omitempty" yaml:"semantic_fields,omitempty"`

	// Sorts lists the engine's sort keys in display order.
	Sorts []string `json:"sorts,omitempty" yaml:"sorts,omitempty"`
}

// SupportsField reports whether key is a declared search field.
func (c Capabilities) SupportsField(key string) bool {
	_, ok := c.SearchFields[key]
	return ok
}

// MapSemantic resolves a cross-engine field name to the engine's field key.
func (c Capabilities) MapSemantic(name string) (string, bool) {
	key, ok := c.SemanticFields[name]
	return key, ok
}

// SupportsSort reports whether key is a declared sort key.
func (c Capabilities) SupportsSort(key string) bool {
	for _, s := range c.Sorts {
		if s == key {
			return true
		}
	}
	return false
}
