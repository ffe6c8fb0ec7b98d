// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pdiddy/metasearch/internal/httputil"
	"github.com/pdiddy/metasearch/internal/search"
	"github.com/pdiddy/metasearch/pkg/types"
)

const semanticResponseJSON = `{
  "total": 183,
  "offset": 30,
  "data": [
    {
      "paperId": "649def34f8be52c8b66281af98ae884c09aef38b",
      "title": "Construction of the Literature Graph",
      "abstract": "We describe a deployed system.",
      "year": 2018,
      "venue": "NAACL",
      "journal": {"name": "", "volume": "3"},
      "publicationTypes": ["Review", "Conference"],
      "authors": [{"authorId": "1", "name": "Waleed Ammar"}],
      "externalIds": {"DOI": "10.18653/v1/N18-3011", "ArXiv": "1805.02262"}
    }
  ]
}`

func fastSemantic(t *testing.T, ts *httptest.Server, extra map[string]any) search.Engine {
	t.Helper()
	orig := semanticAPIBase
	semanticAPIBase = ts.URL
	t.Cleanup(func() { semanticAPIBase = orig })

	cfg := map[string]any{"rate": float64(10000)}
	for k, v := range extra {
		cfg[k] = v
	}
	e, err := NewSemanticScholar(types.EngineConfig{ID: "s2_test", Extra: cfg})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestSemanticScholarSearchImplementation(t *testing.T) {
	var gotQuery url.Values
	var gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("x-api-key")
		w.Write([]byte(semanticResponseJSON))
	}))
	defer ts.Close()

	e := fastSemantic(t, ts, map[string]any{"api_key": "sekrit"})
	rs, err := e.SearchImplementation(context.Background(), &types.SearchRequest{
		Query:   "literature graph",
		Page:    4,
		Start:   30,
		PerPage: 10,
	})
	if err != nil {
		t.Fatalf("SearchImplementation() error = %v", err)
	}

	if gotQuery.Get("query") != "literature graph" {
		t.Errorf("query = %q", gotQuery.Get("query"))
	}
	if gotQuery.Get("offset") != "30" || gotQuery.Get("limit") != "10" {
		t.Errorf("pagination = offset %q, limit %q", gotQuery.Get("offset"), gotQuery.Get("limit"))
	}
	if gotKey != "sekrit" {
		t.Errorf("x-api-key = %q", gotKey)
	}

	if rs.TotalItems == nil || *rs.TotalItems != 183 {
		t.Errorf("TotalItems = %v, want 183", rs.TotalItems)
	}
	if len(rs.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(rs.Items))
	}

	it := rs.Items[0]
	if it.Format != types.FormatConferencePaper {
		t.Errorf("Format = %q, want mapped from publicationTypes", it.Format)
	}
	if it.JournalTitle != "NAACL" || it.Volume != "3" {
		t.Errorf("venue/volume = %q / %q", it.JournalTitle, it.Volume)
	}
	if it.DOI != "10.18653/v1/N18-3011" || it.UniqueID != "649def34f8be52c8b66281af98ae884c09aef38b" {
		t.Errorf("identifiers = %q / %q", it.DOI, it.UniqueID)
	}
	if len(it.Authors) != 1 || it.Authors[0].Last != "Ammar" {
		t.Errorf("authors = %+v", it.Authors)
	}
}

func TestSemanticScholarOmitsAPIKeyWhenUnset(t *testing.T) {
	var sawHeader bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["X-Api-Key"]
		w.Write([]byte(`{"total": 0, "data": []}`))
	}))
	defer ts.Close()

	e := fastSemantic(t, ts, nil)
	if _, err := e.SearchImplementation(context.Background(), &types.SearchRequest{Query: "q", Page: 1, PerPage: 10}); err != nil {
		t.Fatalf("SearchImplementation() error = %v", err)
	}
	if sawHeader {
		t.Error("x-api-key header sent without configured key")
	}
}

// Semantic Scholar declares no search fields. A raise-policy engine must
// reject semantic scoping outright, and an ignore-policy engine must
// degrade it to an unscoped search.
func TestSemanticScholarFieldDegradation(t *testing.T) {
	caps := (&SemanticScholarEngine{}).Capabilities()

	raw := types.Args{"query": "q", "semantic_search_field": "title"}
	if _, err := search.Normalize(raw, caps, types.EngineConfig{UnrecognizedField: types.PolicyRaise}); err == nil {
		t.Error("raise policy accepted an unsupported semantic field")
	}

	req, err := search.Normalize(raw, caps, types.EngineConfig{UnrecognizedField: types.PolicyIgnore})
	if err != nil {
		t.Fatalf("ignore policy error = %v", err)
	}
	if req.SearchField != "" {
		t.Errorf("SearchField = %q, want degraded to unscoped", req.SearchField)
	}
}

func TestSemanticScholarRetriesOnRateLimit(t *testing.T) {
	origDelay := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = origDelay })

	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"total": 0, "data": []}`))
	}))
	defer ts.Close()

	e := fastSemantic(t, ts, nil)
	rs, err := e.SearchImplementation(context.Background(), &types.SearchRequest{Query: "q", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("SearchImplementation() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want retry after 429", calls)
	}
	if rs.TotalItems == nil || *rs.TotalItems != 0 {
		t.Errorf("TotalItems = %v", rs.TotalItems)
	}
}

func TestSemanticFormat(t *testing.T) {
	tests := []struct {
		name     string
		pubTypes []string
		want     types.Format
	}{
		{"journal article", []string{"JournalArticle"}, types.FormatArticle},
		{"first recognized wins", []string{"Review", "Book"}, types.FormatBook},
		{"none recognized", []string{"Dataset"}, types.FormatUnknown},
		{"empty", nil, types.FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := semanticFormat(tt.pubTypes); got != tt.want {
				t.Errorf("semanticFormat(%v) = %q, want %q", tt.pubTypes, got, tt.want)
			}
		})
	}
}
