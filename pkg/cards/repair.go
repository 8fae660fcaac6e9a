package cards

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// minStandaloneWords is the body size below which a cite-less card is
// treated as an orphaned fragment of its predecessor. Word processors
// frequently split a card mid-body when a page break carries formatting
// changes with it.
const minStandaloneWords = 20

// backfillSummaryLen caps summaries synthesized from a card's own body.
const backfillSummaryLen = 150

// repair runs the post-segmentation cleanup passes over the outline:
// fragment merging, summary backfill, and the final degrade of entries
// that never qualified as cards. Repair never drops content.
func (s *segmenter) repair(entries []OutlineEntry) []OutlineEntry {
	entries = s.mergeFragments(entries)
	for _, entry := range entries {
		if entry.Card != nil && strings.TrimSpace(entry.Card.Summary) == "" {
			s.backfillSummary(entry.Card)
		}
	}
	return s.degradeUnqualified(entries)
}

// mergeFragments folds short cite-less cards into the card immediately
// before them. A heading between the two breaks adjacency and blocks the
// merge.
func (s *segmenter) mergeFragments(entries []OutlineEntry) []OutlineEntry {
	kept := entries[:0]
	for _, entry := range entries {
		if entry.Card == nil || !isFragment(entry.Card) || len(kept) == 0 {
			kept = append(kept, entry)
			continue
		}
		prev := kept[len(kept)-1].Card
		if prev == nil {
			kept = append(kept, entry)
			continue
		}
		s.mergeInto(prev, entry.Card)
	}
	return kept
}

func isFragment(card *Card) bool {
	return card.Words < minStandaloneWords && card.Cite == "" && card.Author == ""
}

// mergeInto appends a fragment's content to target and revalidates it.
func (s *segmenter) mergeInto(target, fragment *Card) {
	s.logger.Debug("merging fragment", "into", target.Summary, "words", fragment.Words)
	// The fragment's summary line is body text that was mistaken for a
	// card opening; it goes back ahead of the fragment body.
	if sum := strings.TrimSpace(fragment.Summary); sum != "" {
		appendHTML(target, "<p>"+html.EscapeString(sum)+"</p>")
	}
	if fragment.HTML != "" {
		appendHTML(target, fragment.HTML)
	}
	if fragment.Marked != "" {
		if target.Marked != "" {
			target.Marked += s.markJoin
		}
		target.Marked += fragment.Marked
	}
	target.Words = countWords(plainText(target.HTML))
	target.WordsMarked += fragment.WordsMarked
	sawMark := target.Marked != "" || hasError(target, ErrNoHighlightedText) || hasError(fragment, ErrNoHighlightedText)
	target.Errors = validate(target, target.Cite != "", sawMark)
}

// backfillSummary synthesizes a summary from the card's own body text.
func (s *segmenter) backfillSummary(card *Card) {
	text := strings.TrimSpace(plainText(card.HTML))
	if text == "" {
		return
	}
	if len(text) > backfillSummaryLen {
		cut := strings.LastIndexByte(text[:backfillSummaryLen], ' ')
		if cut <= 0 {
			// No space to cut at; back off to a rune boundary instead of
			// slicing mid-rune.
			cut = backfillSummaryLen
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		text = text[:cut]
	}
	card.Summary = text
	sawMark := card.Marked != "" || hasError(card, ErrNoHighlightedText)
	card.Errors = validate(card, card.Cite != "", sawMark)
	s.logger.Debug("backfilled summary", "summary", card.Summary)
}

// degradeUnqualified converts entries that never gathered both a citation
// and a body into plain text nodes so their content survives in the
// outline without claiming card status. A degraded card with no text at
// all, such as one opened by an empty heading, is dropped rather than
// emitted as an empty entry.
func (s *segmenter) degradeUnqualified(entries []OutlineEntry) []OutlineEntry {
	kept := entries[:0]
	for _, entry := range entries {
		card := entry.Card
		if card == nil || (card.Cite != "" && card.HTML != "") {
			kept = append(kept, entry)
			continue
		}
		text := strings.TrimSpace(plainText(card.HTML))
		if text == "" {
			text = strings.TrimSpace(card.Summary)
		}
		if text == "" {
			text = card.Cite
		}
		if text == "" {
			s.logger.Debug("dropping empty unqualified card")
			continue
		}
		s.logger.Debug("degrading unqualified card", "text", text)
		kept = append(kept, OutlineEntry{Text: text})
	}
	return kept
}

func appendHTML(card *Card, fragment string) {
	if card.HTML != "" {
		card.HTML += "\n"
	}
	card.HTML += fragment
}

func hasError(card *Card, kind ErrorKind) bool {
	for _, e := range card.Errors {
		if e == kind {
			return true
		}
	}
	return false
}
