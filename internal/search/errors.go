// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net"
)

// InvalidArgumentsError reports that argument normalization rejected the
// caller input. Inside Execute it is converted to a failed ResultSet;
// callers invoking Normalize directly receive it as a plain error.
type InvalidArgumentsError struct {
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	return "invalid search arguments: " + e.Reason
}

func invalidArgs(format string, args ...any) error {
	return &InvalidArgumentsError{Reason: fmt.Sprintf(format, args...)}
}

// UpstreamError marks a failure of an engine's external call that the
// executor should contain: HTTP error status, transport failure, rate
// limiting. Engine implementations wrap such failures in an UpstreamError
// so they surface as failed ResultSets instead of aborting the caller.
type UpstreamError struct {
	// Op names the failing operation (e.g. "arxiv query").
	Op string

	// Info is optional human-readable detail (e.g. the HTTP status line).
	Info string

	// Err is the underlying cause, when any.
	Err error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil && e.Info != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Info, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Info)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ConfigurationError reports a missing or malformed engine configuration
// key at construction time. It indicates a deployment bug and is never
// converted into a failed ResultSet.
type ConfigurationError struct {
	EngineType string
	Key        string
	Detail     string
}

func (e *ConfigurationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("engine %s: configuration key %q: %s", e.EngineType, e.Key, e.Detail)
	}
	return fmt.Sprintf("engine %s: missing required configuration key %q", e.EngineType, e.Key)
}

// Containable reports whether err belongs to the default containment
// allow-list: explicit upstream failures, timeouts and cancellation, and
// malformed-response decode errors. Everything else is treated as a
// programmer error and propagates uncontained so bugs stay visible.
func Containable(err error) bool {
	if err == nil {
		return false
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}

	// Malformed or unexpectedly shaped response bodies.
	var (
		jsonSyntax *json.SyntaxError
		jsonType   *json.UnmarshalTypeError
		xmlSyntax  *xml.SyntaxError
	)
	if errors.As(err, &jsonSyntax) || errors.As(err, &jsonType) || errors.As(err, &xmlSyntax) {
		return true
	}

	return false
}
