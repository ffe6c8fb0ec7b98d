// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/metasearch/pkg/types"
)

// FormatTable writes one result set as a human-readable table to w.
// Failed sets render as an error line instead of an empty table; callers
// should not treat an absence of rows as "no results" without checking.
func FormatTable(rs *types.ResultSet, w io.Writer) {
	if rs.Failed() {
		fmt.Fprintf(w, "search failed (%s): %s\n", rs.Err.Kind, rs.Err.Message)
		return
	}
	if len(rs.Items) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %s\n",
		"Rank", "Title", "Authors", "Year", "Journal")
	fmt.Fprintln(w, strings.Repeat("-", 104))

	for i, it := range rs.Items {
		title := it.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		year := ""
		if it.Year > 0 {
			year = fmt.Sprintf("%d", it.Year)
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %s\n",
			rs.Start+i+1, title, formatAuthors(it.Authors), year, it.JournalTitle)
	}

	fmt.Fprintf(w, "\n%d results", len(rs.Items))
	if rs.TotalItems != nil {
		fmt.Fprintf(w, " of %d total", *rs.TotalItems)
	}
	fmt.Fprintf(w, " (page %d, %v)\n", rs.Page(), rs.Timing.Round(time.Millisecond))
}

// FormatRunTable writes a multi-engine result map to w, one section per
// engine in identity order.
func FormatRunTable(results map[string]*types.ResultSet, w io.Writer) {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fmt.Fprintf(w, "=== %s ===\n", id)
		FormatTable(results[id], w)
		fmt.Fprintln(w)
	}
}

// FormatJSON writes a result set as indented JSON to w.
func FormatJSON(rs *types.ResultSet, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rs)
}

// FormatRunJSON writes a multi-engine result map as indented JSON to w.
func FormatRunJSON(results map[string]*types.ResultSet, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func formatAuthors(authors []types.Author) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0].DisplayName(), 20)
	default:
		return truncate(authors[0].DisplayName(), 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
