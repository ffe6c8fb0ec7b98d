// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/metasearch/internal/httputil"
	"github.com/pdiddy/metasearch/internal/search"
	"github.com/pdiddy/metasearch/pkg/types"
)

// openAlexAPIBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlex rejects per-page values over 200.
const openAlexMaxPerPage = 200

// OpenAlexEngine queries the OpenAlex Works API.
type OpenAlexEngine struct {
	cfg     types.EngineConfig
	client  *http.Client
	limiter *rate.Limiter
	email   string
}

// NewOpenAlex constructs an OpenAlex engine. The optional "email"
// configuration key is sent as the mailto parameter for polite pool
// access.
func NewOpenAlex(cfg types.EngineConfig) (search.Engine, error) {
	return &OpenAlexEngine{
		cfg:     cfg,
		client:  newClient(cfg),
		limiter: newLimiter(cfg, rate.Limit(5)),
		email:   cfg.ExtraString("email"),
	}, nil
}

// Capabilities declares OpenAlex's filterable search fields and sorts.
func (e *OpenAlexEngine) Capabilities() search.Capabilities {
	return search.Capabilities{
		MaxPerPage: openAlexMaxPerPage,
		SearchFields: map[string]search.FieldDefinition{
			"title.search":           {Label: "Title", Semantic: "title"},
			"abstract.search":        {Label: "Abstract", Semantic: "abstract"},
			"fulltext.search":        {Label: "Full text"},
			"raw_author_name.search": {Label: "Author", Semantic: "author"},
		},
		SemanticFields: map[string]string{
			"title":    "title.search",
			"abstract": "abstract.search",
			"author":   "raw_author_name.search",
		},
		Sorts: []string{"relevance", "date_desc", "cited_desc"},
	}
}

// Configuration returns the instance configuration.
func (e *OpenAlexEngine) Configuration() types.EngineConfig { return e.cfg }

// openAlexSorts maps canonical sort keys to OpenAlex sort expressions.
// Relevance is the API default and needs no parameter.
var openAlexSorts = map[string]string{
	"date_desc":  "publication_date:desc",
	"cited_desc": "cited_by_count:desc",
}

// SearchImplementation queries OpenAlex for one page of results.
func (e *OpenAlexEngine) SearchImplementation(ctx context.Context, req *types.SearchRequest) (*types.ResultSet, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"per_page": {strconv.Itoa(req.PerPage)},
		"page":     {strconv.Itoa(req.Page)},
	}

	// A field-scoped query becomes an OpenAlex filter; an unscoped one
	// uses the plain search parameter.
	if req.SearchField != "" {
		params.Set("filter", req.SearchField+":"+req.Query)
	} else {
		params.Set("search", req.Query)
	}

	if expr, ok := openAlexSorts[req.Sort]; ok {
		params.Set("sort", expr)
	}
	if e.email != "" {
		params.Set("mailto", e.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", e.cfg.HTTP.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, e.client, httpReq, 0)
	if err != nil {
		return nil, &search.UpstreamError{Op: "openalex query", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &search.UpstreamError{Op: "openalex query", Info: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, &search.UpstreamError{Op: "parsing openalex response", Err: err}
	}

	rs := &types.ResultSet{}
	total := oar.Meta.Count
	rs.TotalItems = &total

	for _, work := range oar.Results {
		it := types.Item{
			Title:     work.Title,
			Abstract:  reconstructAbstract(work.AbstractInvertedIndex),
			Format:    openAlexFormat(work.TypeCrossref),
			Year:      work.PublicationYear,
			Volume:    work.Biblio.Volume,
			Issue:     work.Biblio.Issue,
			StartPage: work.Biblio.FirstPage,
			EndPage:   work.Biblio.LastPage,
			Link:      work.ID,
			UniqueID:  work.ID,
		}

		if work.DOI != "" {
			it.DOI = strings.TrimPrefix(work.DOI, "https://doi.org/")
		}

		if src := work.PrimaryLocation.Source; src.DisplayName != "" {
			it.JournalTitle = src.DisplayName
			it.ISSN = src.ISSNL
			it.Publisher = src.HostOrganizationName
		}

		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				it.Authors = append(it.Authors, splitName(authorship.Author.DisplayName))
			}
		}

		rs.Items = append(rs.Items, it)
	}
	return rs, nil
}

// openAlexFormat maps Crossref work types to the canonical format enum.
func openAlexFormat(typeCrossref string) types.Format {
	switch typeCrossref {
	case "journal-article":
		return types.FormatArticle
	case "book", "monograph":
		return types.FormatBook
	case "book-chapter":
		return types.FormatBookChapter
	case "proceedings-article":
		return types.FormatConferencePaper
	case "report":
		return types.FormatReport
	case "dissertation":
		return types.FormatThesis
	case "posted-content":
		return types.FormatPreprint
	default:
		return types.FormatUnknown
	}
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	TypeCrossref          string               `json:"type_crossref"`
	PublicationYear       int                  `json:"publication_year"`
	Biblio                openAlexBiblio       `json:"biblio"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexBiblio struct {
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	FirstPage string `json:"first_page"`
	LastPage  string `json:"last_page"`
}

type openAlexLocation struct {
	Source openAlexSource `json:"source"`
}

type openAlexSource struct {
	DisplayName          string `json:"display_name"`
	ISSNL                string `json:"issn_l"`
	HostOrganizationName string `json:"host_organization_name"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
