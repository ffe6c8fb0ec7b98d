// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/metasearch/pkg/types"
)

// Argument keys the normalizer consumes. Anything else in the raw map is
// opaque engine-specific passthrough.
const (
	argQuery         = "query"
	argSearchField   = "search_field"
	argSemanticField = "semantic_search_field"
	argSort          = "sort"
	argPage          = "page"
	argStart         = "start"
	argPerPage       = "per_page"
	argFieldPolicy   = "unrecognized_search_field"
)

// DefaultPerPage is the page size used when the caller supplies none.
const DefaultPerPage = 10

// publicArgs is the whitelist of caller-settable keys at trust boundaries.
// Auth/elevation flags are deliberately not listed: they must only be set
// from trusted server-side context.
var publicArgs = map[string]bool{
	argQuery:         true,
	argSearchField:   true,
	argSemanticField: true,
	argSort:          true,
	argPage:          true,
	argStart:         true,
	argPerPage:       true,
}

// FilterPublicArgs returns a copy of raw holding only the keys callers at
// a trust boundary (e.g. a web request) are allowed to set.
func FilterPublicArgs(raw types.Args) types.Args {
	out := make(types.Args, len(raw))
	for k, v := range raw {
		if publicArgs[k] {
			out[k] = v
		}
	}
	return out
}

// Normalize converts flexible caller input into the canonical request
// shape for one engine. Rejections are *InvalidArgumentsError; the
// executor converts them into failed ResultSets, while direct callers
// receive them as plain errors.
//
// Pagination invariant on success: Page and Start are both set and
// mutually derived, and PerPage never exceeds caps.MaxPerPage.
func Normalize(raw types.Args, caps Capabilities, cfg types.EngineConfig) (*types.SearchRequest, error) {
	raw = raw.Clone()

	req := &types.SearchRequest{
		Query: stringArg(raw[argQuery]),
	}

	page, pageSet, err := intArg(raw, argPage)
	if err != nil {
		return nil, err
	}
	start, startSet, err := intArg(raw, argStart)
	if err != nil {
		return nil, err
	}
	perPage, perPageSet, err := intArg(raw, argPerPage)
	if err != nil {
		return nil, err
	}

	if pageSet && startSet {
		return nil, invalidArgs("page and start can not both be supplied")
	}
	if pageSet && page < 1 {
		return nil, invalidArgs("page must be >= 1, got %d", page)
	}
	if startSet && start < 0 {
		return nil, invalidArgs("start must be >= 0, got %d", start)
	}

	if !perPageSet {
		perPage = DefaultPerPage
	} else if perPage < 1 {
		return nil, invalidArgs("per_page must be >= 1, got %d", perPage)
	}
	if caps.MaxPerPage > 0 && perPage > caps.MaxPerPage {
		return nil, invalidArgs("per_page %d exceeds engine maximum %d", perPage, caps.MaxPerPage)
	}
	req.PerPage = perPage

	// Derive the missing one of page/start; both are always present on
	// output.
	switch {
	case startSet:
		req.Start = start
		req.Page = start/perPage + 1
	case pageSet:
		req.Page = page
		req.Start = (page - 1) * perPage
	default:
		req.Page = 1
		req.Start = 0
	}

	if v, ok := raw[argSort]; ok {
		req.Sort = stringArg(v)
	}

	policy := fieldPolicy(raw, cfg)

	if v, ok := raw[argSemanticField]; ok && stringArg(v) != "" {
		semantic := stringArg(v)
		req.SemanticField = semantic
		key, mapped := caps.MapSemantic(semantic)
		if !mapped {
			if policy == types.PolicyRaise {
				return nil, invalidArgs("engine does not support semantic search field %q", semantic)
			}
			// Unmapped under the ignore policy: the search runs
			// unscoped, overriding any caller-supplied search_field.
			req.SearchField = ""
		} else {
			req.SearchField = key
		}
	} else if v, ok := raw[argSearchField]; ok {
		req.SearchField = stringArg(v)
	}

	if req.SearchField != "" && len(caps.SearchFields) > 0 && !caps.SupportsField(req.SearchField) {
		if policy == types.PolicyRaise {
			return nil, invalidArgs("engine does not support search field %q", req.SearchField)
		}
		req.SearchField = ""
	}

	// Everything the normalizer did not consume passes through for the
	// engine to interpret.
	for _, k := range []string{argQuery, argSearchField, argSemanticField, argSort, argPage, argStart, argPerPage, argFieldPolicy} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		req.Extra = raw
	}

	return req, nil
}

// fieldPolicy resolves the unrecognized-search-field policy: request
// override first, then engine configuration, defaulting to ignore.
func fieldPolicy(raw types.Args, cfg types.EngineConfig) string {
	if v, ok := raw[argFieldPolicy]; ok {
		if s := stringArg(v); s != "" {
			return s
		}
	}
	if cfg.UnrecognizedField != "" {
		return cfg.UnrecognizedField
	}
	return types.PolicyIgnore
}

// stringArg coerces a raw argument value to its string form.
func stringArg(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// intArg coerces raw[key] to an integer. Blank strings and absent keys
// report set=false rather than zero; unparseable values are rejections.
func intArg(raw types.Args, key string) (val int, set bool, err error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case float64:
		if n != float64(int(n)) {
			return 0, false, invalidArgs("%s must be an integer, got %v", key, n)
		}
		return int(n), true, nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false, nil
		}
		parsed, perr := strconv.Atoi(s)
		if perr != nil {
			return 0, false, invalidArgs("%s must be an integer, got %q", key, s)
		}
		return parsed, true, nil
	default:
		return 0, false, invalidArgs("%s must be an integer, got %T", key, v)
	}
}
