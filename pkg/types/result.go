// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the metasearch core.
// Implements: prd001-result-model (ResultSet, Item, Author);
//
//	prd002-normalization (SearchRequest, Args);
//	prd004-engine-contract (EngineConfig, ErrorInfo).
//
// See docs/ARCHITECTURE § Data Structures.
package types

import (
	"fmt"
	"time"
)

// ErrorKind classifies a search failure recorded on a ResultSet.
type ErrorKind string

const (
	// ErrInvalidArguments means argument normalization rejected the caller
	// input (conflicting page/start, per_page over the engine maximum,
	// unrecognized field under the raise policy).
	ErrInvalidArguments ErrorKind = "invalid_arguments"

	// ErrUpstreamFailure means the engine's external call failed in a
	// contained way: timeout, malformed response, or decode error.
	ErrUpstreamFailure ErrorKind = "upstream_failure"
)

// ErrorInfo describes why a search failed. It is carried on the ResultSet
// rather than returned as a Go error so that one engine's failure stays
// local to that engine's results.
type ErrorInfo struct {
	// Kind classifies the failure.
	Kind ErrorKind `json:"kind" yaml:"kind"`

	// Message is a human-readable description of the failure.
	Message string `json:"message" yaml:"message"`

	// Cause preserves the original error for diagnostics. It is not
	// serialized; Message carries the rendered form.
	Cause error `json:"-" yaml:"-"`
}

// Error renders the failure for logs and error displays.
func (e *ErrorInfo) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the original cause to errors.Is/errors.As.
func (e *ErrorInfo) Unwrap() error { return e.Cause }

// Format identifies the bibliographic type of an item. The set is open:
// engines may emit values beyond the constants below.
type Format string

const (
	FormatArticle         Format = "Article"
	FormatBook            Format = "Book"
	FormatBookChapter     Format = "BookChapter"
	FormatConferencePaper Format = "ConferencePaper"
	FormatReport          Format = "Report"
	FormatThesis          Format = "Thesis"
	FormatPreprint        Format = "Preprint"
	FormatUnknown         Format = ""
)

// Author is one contributor of an Item, in source order.
type Author struct {
	// First is the given name (may include middle names or initials).
	First string `json:"first,omitempty" yaml:"first,omitempty"`

	// Last is the family name.
	Last string `json:"last,omitempty" yaml:"last,omitempty"`

	// Display is an optional pre-formatted name supplied by the source.
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// DisplayName returns Display when the source supplied one, otherwise a
// derived "Last, F" form.
func (a Author) DisplayName() string {
	if a.Display != "" {
		return a.Display
	}
	switch {
	case a.Last != "" && a.First != "":
		return fmt.Sprintf("%s, %c", a.Last, []rune(a.First)[0])
	case a.Last != "":
		return a.Last
	default:
		return a.First
	}
}

// Item is one normalized search result. Engines fill the bibliographic
// fields from their wire formats; EngineID, Decorator, and
// DisplayConfiguration are stamped by the executor after the engine
// returns and must not be set by engine implementations.
type Item struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`

	// Format is the bibliographic type (Article, Book, ...).
	Format Format `json:"format,omitempty" yaml:"format,omitempty"`

	// Authors lists contributors in source order.
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Abstract is the item abstract or summary when the source provides one.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	Year         int    `json:"year,omitempty" yaml:"year,omitempty"`
	Volume       string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue        string `json:"issue,omitempty" yaml:"issue,omitempty"`
	StartPage    string `json:"start_page,omitempty" yaml:"start_page,omitempty"`
	EndPage      string `json:"end_page,omitempty" yaml:"end_page,omitempty"`
	JournalTitle string `json:"journal_title,omitempty" yaml:"journal_title,omitempty"`
	ISSN         string `json:"issn,omitempty" yaml:"issn,omitempty"`
	DOI          string `json:"doi,omitempty" yaml:"doi,omitempty"`
	ISBN         string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Publisher    string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	// Link is the main landing URL for the item.
	Link string `json:"link,omitempty" yaml:"link,omitempty"`

	// UniqueID is the source-native identifier (arXiv ID, OpenAlex ID, ...).
	UniqueID string `json:"unique_id,omitempty" yaml:"unique_id,omitempty"`

	// EngineID identifies the engine that produced this item; equal to the
	// owning ResultSet's EngineID.
	EngineID string `json:"engine_id,omitempty" yaml:"engine_id,omitempty"`

	// Decorator names a presentation adapter from the engine configuration.
	// Opaque to the core.
	Decorator string `json:"decorator,omitempty" yaml:"decorator,omitempty"`

	// DisplayConfiguration is opaque presentation configuration passed
	// through from the engine configuration. Not interpreted by the core.
	DisplayConfiguration map[string]any `json:"display_configuration,omitempty" yaml:"display_configuration,omitempty"`
}

// ResultSet holds the outcome of one search call against one engine:
// items in source-returned order plus metadata, or a contained failure.
type ResultSet struct {
	// Items are the results in the order the source returned them.
	Items []Item `json:"items" yaml:"items"`

	// TotalItems is the source-reported total hit count across all pages.
	// Nil when the source does not report one.
	TotalItems *int `json:"total_items,omitempty" yaml:"total_items,omitempty"`

	// Err is set when the search failed; a failed set carries no items.
	Err *ErrorInfo `json:"error,omitempty" yaml:"error,omitempty"`

	// Timing is the wall-clock duration of the search, including
	// normalization and the external call.
	Timing time.Duration `json:"timing" yaml:"timing"`

	// Start and PerPage echo the normalized pagination window.
	Start   int `json:"start" yaml:"start"`
	PerPage int `json:"per_page" yaml:"per_page"`

	// EngineID identifies the engine that ran the search.
	EngineID string `json:"engine_id,omitempty" yaml:"engine_id,omitempty"`

	// SearchArgs preserves the raw arguments the caller supplied.
	SearchArgs Args `json:"search_args,omitempty" yaml:"search_args,omitempty"`

	// DisplayConfiguration is opaque presentation configuration from the
	// engine configuration. Not interpreted by the core.
	DisplayConfiguration map[string]any `json:"display_configuration,omitempty" yaml:"display_configuration,omitempty"`
}

// Failed reports whether the search failed. A set with zero items and no
// error is a legitimately empty success.
func (rs *ResultSet) Failed() bool { return rs.Err != nil }

// Page returns the 1-based page number for the set's pagination window.
func (rs *ResultSet) Page() int {
	if rs.PerPage <= 0 {
		return 1
	}
	return rs.Start/rs.PerPage + 1
}

// TotalPages returns the number of pages implied by TotalItems, or 0 when
// the source did not report a total.
func (rs *ResultSet) TotalPages() int {
	if rs.TotalItems == nil || rs.PerPage <= 0 {
		return 0
	}
	return (*rs.TotalItems + rs.PerPage - 1) / rs.PerPage
}
