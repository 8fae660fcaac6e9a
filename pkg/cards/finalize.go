package cards

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/coolbeans/cardcut/pkg/citation"
)

// markEllipsis joins non-adjacent highlighted spans in Card.Marked.
const markEllipsis = "…"

// finalize turns an accumulated cardBuilder into a Card: joins the body,
// assembles the marked text, derives word counts, and attaches validation
// findings. It cannot fail.
func (s *segmenter) finalize(b *cardBuilder) *Card {
	card := &Card{
		ID:         uuid.NewString(),
		Summary:    b.summary,
		Author:     b.info.Author,
		AuthorType: b.info.Type,
		Cite:       b.cite,
		Year:       b.info.Year,
		URL:        b.url,
		HTML:       strings.Join(b.body, "\n"),
		Marked:     strings.Join(b.marks, s.markJoin),
	}
	card.Words = countWords(plainText(card.HTML))
	for _, span := range b.marks {
		card.WordsMarked += countWords(span)
	}
	card.Errors = validate(card, b.hasCite, b.sawMark)
	return card
}

// validate produces the card's findings in a fixed order so output is
// stable across runs.
func validate(card *Card, hasCite, sawMark bool) []ErrorKind {
	var errs []ErrorKind
	if card.HTML == "" {
		errs = append(errs, ErrMissingBody)
	}
	if strings.TrimSpace(card.Summary) == "" {
		errs = append(errs, ErrMissingSummary)
	}
	if !hasCite {
		errs = append(errs, ErrMissingCitation)
	} else {
		if card.Author == "" {
			errs = append(errs, ErrMissingAuthor)
		}
		// An explicit "ND" still reads as a missing year for badge
		// purposes; it is just not a parse failure.
		switch {
		case !card.Year.Numeric():
			errs = append(errs, ErrMissingYear)
		case !plausibleCardYear(card.Year):
			errs = append(errs, ErrInvalidYear)
		}
	}
	if card.URL != "" && !strings.HasPrefix(card.URL, "http://") && !strings.HasPrefix(card.URL, "https://") {
		errs = append(errs, ErrInvalidURLFormat)
	}
	if card.Words == 0 {
		errs = append(errs, ErrEmptyContent)
	}
	if sawMark && card.WordsMarked == 0 {
		errs = append(errs, ErrNoHighlightedText)
	}
	return errs
}

// plausibleCardYear bounds numeric years to the era debate evidence is
// actually drawn from, allowing one year of forthcoming publications.
func plausibleCardYear(y citation.Year) bool {
	return int(y) >= 1900 && int(y) <= time.Now().Year()+1
}

// plainText strips markup from a body fragment, returning its text content.
func plainText(fragment string) string {
	if fragment == "" {
		return ""
	}
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.SelfClosingTagToken, html.StartTagToken:
			// Keep words on either side of a break separated.
			b.WriteByte(' ')
		}
	}
}

// countWords counts whitespace-delimited words, treating the mark-joining
// ellipsis as a separator rather than a token.
func countWords(text string) int {
	n := 0
	for _, field := range strings.Fields(text) {
		if strings.Trim(field, markEllipsis+" ") != "" {
			n++
		}
	}
	return n
}
