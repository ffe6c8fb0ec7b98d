// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backends

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pdiddy/metasearch/internal/search"
	"github.com/pdiddy/metasearch/pkg/types"
)

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"
      xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/"
      xmlns:arxiv="http://arxiv.org/schemas/atom">
  <opensearch:totalResults>2817</opensearch:totalResults>
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Attention Mechanisms in Graphs</title>
    <summary>  We study attention.  </summary>
    <published>2023-01-17T12:00:00Z</published>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan M. Turing</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2106.04560v1</id>
    <title>Scaling Laws</title>
    <summary>Laws of scale.</summary>
    <published>2021-06-08T17:00:00Z</published>
    <arxiv:journal_ref>JMLR 23 (2022)</arxiv:journal_ref>
    <arxiv:doi>10.5555/scaling</arxiv:doi>
    <author><name>Grace Hopper</name></author>
  </entry>
</feed>`

// fastArxiv builds an arXiv engine pointed at a test server, with the
// politeness limiter effectively disabled.
func fastArxiv(t *testing.T, ts *httptest.Server) search.Engine {
	t.Helper()
	orig := arxivAPIBase
	arxivAPIBase = ts.URL
	t.Cleanup(func() { arxivAPIBase = orig })

	e, err := NewArxiv(types.EngineConfig{
		ID:    "arxiv_test",
		HTTP:  types.HTTPConfig{UserAgent: "test/0.1"},
		Extra: map[string]any{"rate": float64(10000)},
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestArxivSearchImplementation(t *testing.T) {
	var gotQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(arxivFeedXML))
	}))
	defer ts.Close()

	e := fastArxiv(t, ts)
	rs, err := e.SearchImplementation(context.Background(), &types.SearchRequest{
		Query:       "attention graphs",
		SearchField: "ti",
		Sort:        "date_desc",
		Page:        3,
		Start:       20,
		PerPage:     10,
	})
	if err != nil {
		t.Fatalf("SearchImplementation() error = %v", err)
	}

	if got := gotQuery.Get("search_query"); got != "ti:attention+graphs" {
		t.Errorf("search_query = %q", got)
	}
	if gotQuery.Get("start") != "20" || gotQuery.Get("max_results") != "10" {
		t.Errorf("pagination params = start %q, max_results %q", gotQuery.Get("start"), gotQuery.Get("max_results"))
	}
	if gotQuery.Get("sortBy") != "submittedDate" || gotQuery.Get("sortOrder") != "descending" {
		t.Errorf("sort params = %q/%q", gotQuery.Get("sortBy"), gotQuery.Get("sortOrder"))
	}

	if rs.TotalItems == nil || *rs.TotalItems != 2817 {
		t.Errorf("TotalItems = %v, want 2817", rs.TotalItems)
	}
	if len(rs.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(rs.Items))
	}

	first := rs.Items[0]
	if first.UniqueID != "2301.07041" {
		t.Errorf("UniqueID = %q, want version stripped", first.UniqueID)
	}
	if first.Title != "Attention Mechanisms in Graphs" || first.Abstract != "We study attention." {
		t.Errorf("title/abstract not trimmed: %q / %q", first.Title, first.Abstract)
	}
	if first.Format != types.FormatPreprint {
		t.Errorf("Format = %q, want preprint without journal ref", first.Format)
	}
	if first.Year != 2023 {
		t.Errorf("Year = %d, want 2023", first.Year)
	}
	if len(first.Authors) != 2 || first.Authors[0].Last != "Lovelace" || first.Authors[1].First != "Alan M." {
		t.Errorf("authors = %+v", first.Authors)
	}

	second := rs.Items[1]
	if second.Format != types.FormatArticle || second.JournalTitle != "JMLR 23 (2022)" {
		t.Errorf("published entry = format %q, journal %q", second.Format, second.JournalTitle)
	}
	if second.DOI != "10.5555/scaling" {
		t.Errorf("DOI = %q", second.DOI)
	}
}

func TestArxivHTTPErrorIsContained(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	e := fastArxiv(t, ts)
	_, err := e.SearchImplementation(context.Background(), &types.SearchRequest{Query: "q", Page: 1, PerPage: 10})

	var ue *search.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %v, want UpstreamError", err)
	}
	if !search.Containable(err) {
		t.Error("HTTP failure not containable")
	}

	// End to end: the executor converts it into a failed set.
	rs, execErr := search.NewExecutor(e).Execute(context.Background(), types.Args{"query": "q"})
	if execErr != nil {
		t.Fatalf("Execute() error = %v", execErr)
	}
	if !rs.Failed() || rs.Err.Kind != types.ErrUpstreamFailure {
		t.Errorf("rs.Err = %v", rs.Err)
	}
}

func TestArxivMalformedResponseIsContained(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<feed><entry>truncated"))
	}))
	defer ts.Close()

	e := fastArxiv(t, ts)
	_, err := e.SearchImplementation(context.Background(), &types.SearchRequest{Query: "q", Page: 1, PerPage: 10})
	if err == nil {
		t.Fatal("error = nil, want decode failure")
	}
	if !search.Containable(err) {
		t.Errorf("decode failure not containable: %v", err)
	}
}

func TestBuildArxivQuery(t *testing.T) {
	tests := []struct {
		name string
		req  types.SearchRequest
		want string
	}{
		{"unscoped defaults to all", types.SearchRequest{Query: "deep learning"}, "all:deep+learning"},
		{"scoped to title", types.SearchRequest{Query: "deep learning", SearchField: "ti"}, "ti:deep+learning"},
		{"single term", types.SearchRequest{Query: "graphene", SearchField: "abs"}, "abs:graphene"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildArxivQuery(&tt.req); got != tt.want {
				t.Errorf("buildArxivQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"versioned", "http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"multi-digit version", "http://arxiv.org/abs/2301.07041v12", "2301.07041"},
		{"unversioned", "http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"not an abs url", "http://arxiv.org/pdf/2301.07041", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractArxivID(tt.url); got != tt.want {
				t.Errorf("extractArxivID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
