// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backends

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/metasearch/internal/search"
	"github.com/pdiddy/metasearch/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arXiv caps max_results per request.
const arxivMaxPerPage = 2000

// ArxivEngine queries the arXiv Atom API.
type ArxivEngine struct {
	cfg     types.EngineConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewArxiv constructs an arXiv engine. It has no required configuration
// keys; "rate" optionally overrides the politeness limit.
func NewArxiv(cfg types.EngineConfig) (search.Engine, error) {
	return &ArxivEngine{
		cfg:     cfg,
		client:  newClient(cfg),
		limiter: newLimiter(cfg, rate.Limit(1)),
	}, nil
}

// Capabilities declares arXiv's field prefixes and sort keys.
func (e *ArxivEngine) Capabilities() search.Capabilities {
	return search.Capabilities{
		MaxPerPage: arxivMaxPerPage,
		SearchFields: map[string]search.FieldDefinition{
			"all": {Label: "All fields"},
			"ti":  {Label: "Title", Semantic: "title"},
			"au":  {Label: "Author", Semantic: "author"},
			"abs": {Label: "Abstract", Semantic: "abstract"},
			"jr":  {Label: "Journal reference", Semantic: "journal_title"},
			"cat": {Label: "Category", Semantic: "subject"},
		},
		SemanticFields: map[string]string{
			"general":       "all",
			"title":         "ti",
			"author":        "au",
			"abstract":      "abs",
			"journal_title": "jr",
			"subject":       "cat",
		},
		Sorts: []string{"relevance", "date_desc", "date_asc"},
	}
}

// Configuration returns the instance configuration.
func (e *ArxivEngine) Configuration() types.EngineConfig { return e.cfg }

// arxivSorts maps canonical sort keys to arXiv sortBy/sortOrder pairs.
var arxivSorts = map[string][2]string{
	"relevance": {"relevance", "descending"},
	"date_desc": {"submittedDate", "descending"},
	"date_asc":  {"submittedDate", "ascending"},
}

// SearchImplementation queries the arXiv API for one page of results.
func (e *ArxivEngine) SearchImplementation(ctx context.Context, req *types.SearchRequest) (*types.ResultSet, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"search_query": {buildArxivQuery(req)},
		"start":        {strconv.Itoa(req.Start)},
		"max_results":  {strconv.Itoa(req.PerPage)},
	}
	if pair, ok := arxivSorts[req.Sort]; ok {
		params.Set("sortBy", pair[0])
		params.Set("sortOrder", pair[1])
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", e.cfg.HTTP.UserAgent)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, &search.UpstreamError{Op: "arxiv query", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &search.UpstreamError{Op: "arxiv query", Info: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, &search.UpstreamError{Op: "parsing arxiv response", Err: err}
	}

	rs := &types.ResultSet{}
	total := feed.TotalResults
	rs.TotalItems = &total

	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		it := types.Item{
			Title:        strings.TrimSpace(entry.Title),
			Abstract:     strings.TrimSpace(entry.Summary),
			Format:       types.FormatPreprint,
			JournalTitle: strings.TrimSpace(entry.JournalRef),
			DOI:          entry.DOI,
			Link:         entry.ID,
			UniqueID:     arxivID,
		}
		if it.JournalTitle != "" {
			it.Format = types.FormatArticle
		}

		for _, a := range entry.Authors {
			it.Authors = append(it.Authors, splitName(a.Name))
		}

		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			it.Year = t.Year()
		}

		rs.Items = append(rs.Items, it)
	}
	return rs, nil
}

// buildArxivQuery constructs the search_query parameter, scoping to the
// request's field prefix when one is set.
func buildArxivQuery(req *types.SearchRequest) string {
	field := req.SearchField
	if field == "" {
		field = "all"
	}
	terms := strings.Fields(req.Query)
	return field + ":" + strings.Join(terms, "+")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	TotalResults int          `xml:"totalResults"`
	Entries      []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string        `xml:"id"`
	Title      string        `xml:"title"`
	Summary    string        `xml:"summary"`
	Published  string        `xml:"published"`
	JournalRef string        `xml:"journal_ref"`
	DOI        string        `xml:"doi"`
	Authors    []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
