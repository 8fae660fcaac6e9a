// Package cards converts rich-text markup exported from word processors,
// PDFs, or browser editors into a hierarchical collection of structured
// evidence cards. Parsing is heuristic by design: malformed input degrades
// to low-confidence results reported through per-card validation errors,
// never to a failure.
package cards

import (
	"github.com/coolbeans/cardcut/pkg/citation"
	"github.com/coolbeans/cardcut/pkg/names"
)

// ErrorKind identifies a per-card validation finding. Findings are advisory
// metadata for a "low confidence" badge, not fatal conditions.
type ErrorKind string

const (
	ErrMissingBody       ErrorKind = "missing_body"
	ErrMissingSummary    ErrorKind = "missing_summary"
	ErrMissingCitation   ErrorKind = "missing_citation"
	ErrMissingAuthor     ErrorKind = "missing_author"
	ErrMissingYear       ErrorKind = "missing_year"
	ErrInvalidYear       ErrorKind = "invalid_year"
	ErrInvalidURLFormat  ErrorKind = "invalid_url_format"
	ErrEmptyContent      ErrorKind = "empty_content"
	ErrNoHighlightedText ErrorKind = "no_highlighted_text"
)

// Card is one extracted evidence excerpt: a summary line, an author/year
// citation, and a highlighted-evidence body with derived statistics.
type Card struct {
	// ID is a stable identifier assigned at finalization so editor
	// collaborators can reference the card.
	ID string `json:"id"`

	Summary    string           `json:"summary"`
	Author     string           `json:"author,omitempty"`
	AuthorType names.AuthorType `json:"author_type,omitempty"`

	// Cite is the full citation line, trailing stray quotes stripped.
	Cite string        `json:"cite,omitempty"`
	Year citation.Year `json:"year,omitempty"`
	URL  string        `json:"url,omitempty"`

	// HTML is the finalized body markup; Marked concatenates the
	// highlighted spans within it.
	HTML   string `json:"html"`
	Marked string `json:"marked,omitempty"`

	Words       int `json:"words"`
	WordsMarked int `json:"words_marked"`

	Errors []ErrorKind `json:"errors,omitempty"`
}

// OutlineItem is a heading marker at one of levels 1-3. It does not own
// cards; hierarchy is re-derived from the flat emission order.
type OutlineItem struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// OutlineEntry is one element of the document-order outline: a heading, a
// card, or a plain text node for content that failed to qualify as a card.
// Exactly one field is set.
type OutlineEntry struct {
	Heading *OutlineItem `json:"heading,omitempty"`
	Card    *Card        `json:"card,omitempty"`
	Text    string       `json:"text,omitempty"`
}

// Metadata describes the parsed document as a whole. The category, title,
// organization, and year come from the file name, independent of card
// content.
type Metadata struct {
	Category     string `json:"category,omitempty"`
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Year         int    `json:"year,omitempty"`

	// Quotes counts the qualified cards in the outline; Blocks counts the
	// heading entries.
	Quotes int `json:"quotes"`
	Blocks int `json:"blocks"`
}

// Result is the top-level parse output.
type Result struct {
	Metadata Metadata       `json:"metadata"`
	Outline  []OutlineEntry `json:"outline"`
}
