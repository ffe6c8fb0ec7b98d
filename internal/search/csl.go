// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/metasearch/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	ISBN           string    `yaml:"ISBN,omitempty"`
	ISSN           string    `yaml:"ISSN,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps item formats to CSL type strings. Unlisted formats fall
// back to "article".
var cslTypes = map[types.Format]string{
	types.FormatArticle:         "article-journal",
	types.FormatBook:            "book",
	types.FormatBookChapter:     "chapter",
	types.FormatConferencePaper: "paper-conference",
	types.FormatReport:          "report",
	types.FormatThesis:          "thesis",
	types.FormatPreprint:        "article",
}

// FormatCSL writes a result set's items as a CSL-YAML list to w.
func FormatCSL(rs *types.ResultSet, w io.Writer) error {
	items := make([]CSLItem, len(rs.Items))
	for i := range rs.Items {
		items[i] = toCSLItem(rs.Items[i])
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a normalized Item to a CSLItem.
func toCSLItem(it types.Item) CSLItem {
	cslType, ok := cslTypes[it.Format]
	if !ok {
		cslType = "article"
	}

	title := it.Title
	if it.Subtitle != "" {
		title = title + ": " + it.Subtitle
	}

	item := CSLItem{
		ID:             cslID(it),
		Type:           cslType,
		Title:          title,
		Abstract:       it.Abstract,
		ContainerTitle: it.JournalTitle,
		Volume:         it.Volume,
		Issue:          it.Issue,
		Publisher:      it.Publisher,
		DOI:            it.DOI,
		ISBN:           it.ISBN,
		ISSN:           it.ISSN,
		URL:            it.Link,
	}

	if it.StartPage != "" {
		item.Page = it.StartPage
		if it.EndPage != "" {
			item.Page = it.StartPage + "-" + it.EndPage
		}
	}

	for _, a := range it.Authors {
		item.Author = append(item.Author, toCSLName(a))
	}

	if it.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{it.Year}}}
	}

	return item
}

// cslID picks a citation key: DOI, then the source-native ID, then a slug
// of the title.
func cslID(it types.Item) string {
	if it.DOI != "" {
		return it.DOI
	}
	if it.UniqueID != "" {
		return it.UniqueID
	}
	return strings.Join(strings.Fields(strings.ToLower(it.Title)), "-")
}

// toCSLName converts an Author into CSL family/given parts. Authors with
// only a display form use the literal field.
func toCSLName(a types.Author) CSLName {
	if a.Last == "" && a.First == "" {
		return CSLName{Literal: a.Display}
	}
	return CSLName{
		Given:  a.First,
		Family: a.Last,
	}
}
