// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/pdiddy/metasearch/internal/httputil"
	"github.com/pdiddy/metasearch/internal/search"
	"github.com/pdiddy/metasearch/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,venue,journal,publicationTypes"

// Semantic Scholar caps limit per request.
const semanticMaxPerPage = 100

// SemanticScholarEngine queries the Semantic Scholar Graph API.
type SemanticScholarEngine struct {
	cfg     types.EngineConfig
	client  *http.Client
	limiter *rate.Limiter
	apiKey  string
}

// NewSemanticScholar constructs a Semantic Scholar engine. The optional
// "api_key" configuration key raises the source-side rate limits.
func NewSemanticScholar(cfg types.EngineConfig) (search.Engine, error) {
	return &SemanticScholarEngine{
		cfg:     cfg,
		client:  newClient(cfg),
		limiter: newLimiter(cfg, rate.Limit(1)),
		apiKey:  cfg.ExtraString("api_key"),
	}, nil
}

// Capabilities declares what Semantic Scholar supports. The paper search
// endpoint offers no field scoping and no sort control, so both sets are
// empty: a semantic field under the ignore policy degrades to an unscoped
// search, and under the raise policy is rejected.
func (e *SemanticScholarEngine) Capabilities() search.Capabilities {
	return search.Capabilities{
		MaxPerPage: semanticMaxPerPage,
	}
}

// Configuration returns the instance configuration.
func (e *SemanticScholarEngine) Configuration() types.EngineConfig { return e.cfg }

// SearchImplementation queries Semantic Scholar for one page of results.
func (e *SemanticScholarEngine) SearchImplementation(ctx context.Context, req *types.SearchRequest) (*types.ResultSet, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"query":  {req.Query},
		"offset": {strconv.Itoa(req.Start)},
		"limit":  {strconv.Itoa(req.PerPage)},
		"fields": {semanticFields},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", e.cfg.HTTP.UserAgent)
	if e.apiKey != "" {
		httpReq.Header.Set("x-api-key", e.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, e.client, httpReq, 0)
	if err != nil {
		return nil, &search.UpstreamError{Op: "semantic scholar query", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &search.UpstreamError{Op: "semantic scholar query", Info: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &search.UpstreamError{Op: "parsing semantic scholar response", Err: err}
	}

	rs := &types.ResultSet{}
	total := sr.Total
	rs.TotalItems = &total

	for _, paper := range sr.Data {
		it := types.Item{
			Title:        paper.Title,
			Abstract:     paper.Abstract,
			Format:       semanticFormat(paper.PublicationTypes),
			Year:         paper.Year,
			JournalTitle: paper.Venue,
			Volume:       paper.Journal.Volume,
			UniqueID:     paper.PaperID,
			DOI:          paper.ExternalIDs.DOI,
		}

		for _, a := range paper.Authors {
			it.Authors = append(it.Authors, splitName(a.Name))
		}

		rs.Items = append(rs.Items, it)
	}
	return rs, nil
}

// semanticFormat maps Semantic Scholar publication types to the canonical
// format enum, preferring the most specific type listed.
func semanticFormat(pubTypes []string) types.Format {
	for _, t := range pubTypes {
		switch t {
		case "JournalArticle":
			return types.FormatArticle
		case "Conference":
			return types.FormatConferencePaper
		case "Book":
			return types.FormatBook
		case "BookSection":
			return types.FormatBookChapter
		}
	}
	return types.FormatUnknown
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID          string              `json:"paperId"`
	Title            string              `json:"title"`
	Abstract         string              `json:"abstract"`
	Year             int                 `json:"year"`
	Venue            string              `json:"venue"`
	Journal          semanticJournal     `json:"journal"`
	PublicationTypes []string            `json:"publicationTypes"`
	Authors          []semanticAuthor    `json:"authors"`
	ExternalIDs      semanticExternalIDs `json:"externalIds"`
}

type semanticJournal struct {
	Name   string `json:"name"`
	Volume string `json:"volume"`
	Pages  string `json:"pages"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
