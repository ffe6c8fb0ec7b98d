// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/metasearch/pkg/types"
)

func TestToCSLItem(t *testing.T) {
	it := types.Item{
		Title:        "Deep Learning",
		Subtitle:     "A Survey",
		Format:       types.FormatArticle,
		Authors:      []types.Author{{First: "Yann", Last: "LeCun"}, {Display: "Bengio"}},
		Abstract:     "An overview.",
		Year:         2015,
		Volume:       "521",
		Issue:        "7553",
		StartPage:    "436",
		EndPage:      "444",
		JournalTitle: "Nature",
		ISSN:         "0028-0836",
		DOI:          "10.1038/nature14539",
		Publisher:    "Springer Nature",
		Link:         "https://doi.org/10.1038/nature14539",
	}

	got := toCSLItem(it)

	if got.ID != "10.1038/nature14539" {
		t.Errorf("ID = %q, want the DOI", got.ID)
	}
	if got.Type != "article-journal" {
		t.Errorf("Type = %q, want article-journal", got.Type)
	}
	if got.Title != "Deep Learning: A Survey" {
		t.Errorf("Title = %q, want subtitle joined", got.Title)
	}
	if got.Page != "436-444" {
		t.Errorf("Page = %q, want 436-444", got.Page)
	}
	if got.ContainerTitle != "Nature" || got.Volume != "521" || got.Issue != "7553" {
		t.Errorf("container/volume/issue = %q/%q/%q", got.ContainerTitle, got.Volume, got.Issue)
	}
	if got.Issued == nil || got.Issued.DateParts[0][0] != 2015 {
		t.Errorf("Issued = %v, want 2015", got.Issued)
	}

	if len(got.Author) != 2 {
		t.Fatalf("len(Author) = %d, want 2", len(got.Author))
	}
	if got.Author[0].Family != "LeCun" || got.Author[0].Given != "Yann" {
		t.Errorf("Author[0] = %+v", got.Author[0])
	}
	if got.Author[1].Literal != "Bengio" {
		t.Errorf("Author[1] = %+v, want literal display form", got.Author[1])
	}
}

func TestCSLIDFallbacks(t *testing.T) {
	tests := []struct {
		name string
		item types.Item
		want string
	}{
		{"doi preferred", types.Item{DOI: "10.1/x", UniqueID: "W123", Title: "T"}, "10.1/x"},
		{"unique id next", types.Item{UniqueID: "W123", Title: "T"}, "W123"},
		{"title slug last", types.Item{Title: "Attention Is All"}, "attention-is-all"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cslID(tt.item); got != tt.want {
				t.Errorf("cslID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatCSL(t *testing.T) {
	rs := &types.ResultSet{
		Items: []types.Item{
			{Title: "First Paper", Format: types.FormatPreprint, UniqueID: "2301.07041", Year: 2023},
			{Title: "Second Paper", Format: types.FormatBook, ISBN: "9780262035613"},
		},
	}

	var buf bytes.Buffer
	if err := FormatCSL(rs, &buf); err != nil {
		t.Fatalf("FormatCSL() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"First Paper", "Second Paper", "type: article", "type: book", "ISBN:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
