package cards

import (
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/coolbeans/cardcut/pkg/citation"
)

// segState tracks where the segmenter is relative to a card.
type segState int

const (
	stateOutsideCard segState = iota
	stateSeenSummaryLine
	stateInCard
)

func (s segState) String() string {
	switch s {
	case stateSeenSummaryLine:
		return "seen_summary_line"
	case stateInCard:
		return "in_card"
	}
	return "outside_card"
}

// shortSummaryMax is the length under which a bold-bearing paragraph
// outside a card is taken as a card summary. The rule can misfire on
// legitimately bold non-citation text; it is tuned against real debate
// documents and deliberately left loose.
const shortSummaryMax = 200

// urlPattern finds the first URL in a citation line.
var urlPattern = regexp.MustCompile(`(?:https?://|www\.)[^\s<>"')\]]+`)

// strayQuotes are stripped from the tail of a citation line.
const strayQuotes = `"'“”‘’ `

// paragraph accumulates one paragraph's worth of tag events.
type paragraph struct {
	text    strings.Builder // plain text
	markup  strings.Builder // reconstructed inline markup
	bold    strings.Builder // text inside the paragraph's bold runs
	markBuf strings.Builder // text inside the current mark run
	marks   []string        // completed highlighted spans
	sawMark bool
}

func (p *paragraph) reset() {
	p.text.Reset()
	p.markup.Reset()
	p.bold.Reset()
	p.markBuf.Reset()
	p.marks = nil
	p.sawMark = false
}

// cardBuilder holds a card's mutable state between its summary line and its
// finalization.
type cardBuilder struct {
	summary string
	cite    string
	info    citation.Info
	url     string
	hasCite bool
	body    []string // reconstructed markup, one entry per paragraph
	marks   []string
	sawMark bool
}

// segmenter is the card segmentation state machine. It owns its own small
// mutable buffers (current card, blank-paragraph counter, heading path) and
// exposes onOpen/onText/onClose as ordinary methods, so any tag-event
// source can drive it.
type segmenter struct {
	profile   FormatProfile
	extractor *citation.Extractor
	logger    *slog.Logger
	markJoin  string

	state      segState
	entries    []OutlineEntry
	current    *cardBuilder
	blankCount int

	// headingPath is the open heading trail, kept for trace output; the
	// result format re-derives hierarchy from flat emission order.
	headingPath []string

	// Tag-event capture state.
	para        paragraph
	inParagraph bool
	boldDepth   int
	markDepth   int

	// containerDepth counts open div/blockquote elements; captureDepth
	// records the depth at which a container started the current capture,
	// 0 when the capture was started by a paragraph tag. Only the close
	// that unwinds past captureDepth ends a container-started capture, so
	// nested divs from browser editors do not truncate it.
	containerDepth int
	captureDepth   int

	headingLevel int // 0 when not inside a heading
	headingText  strings.Builder
}

func newSegmenter(profile FormatProfile, markJoin string, logger *slog.Logger) *segmenter {
	return &segmenter{
		profile:   profile,
		extractor: citation.NewExtractor(),
		logger:    logger,
		markJoin:  markJoin,
	}
}

// run drives the segmenter from a tokenizer over normalized markup.
func (s *segmenter) run(normalized string) {
	tokenizer := html.NewTokenizer(strings.NewReader(normalized))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// End of input (normalized markup cannot produce read errors).
			s.finishInput()
			return
		case html.StartTagToken:
			token := tokenizer.Token()
			s.onOpen(token.DataAtom, token.Data, token.Attr)
		case html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.DataAtom == atom.Br {
				s.onLineBreak()
			}
		case html.TextToken:
			s.onText(string(tokenizer.Text()))
		case html.EndTagToken:
			token := tokenizer.Token()
			s.onClose(token.DataAtom, token.Data)
		}
	}
}

// onOpen handles an element start event.
func (s *segmenter) onOpen(a atom.Atom, name string, attrs []html.Attribute) {
	if level := headingLevel(a); level > 0 && s.profile.isHeadingTag(name) {
		s.headingLevel = level
		s.headingText.Reset()
		return
	}

	switch a {
	case atom.P, atom.Li:
		s.para.reset()
		s.inParagraph = true
		s.captureDepth = 0
	case atom.Div, atom.Blockquote:
		// Browser editors emit divs as paragraphs, but divs also show up
		// as wrappers around real paragraphs, often nested; only the
		// outermost container starts a capture.
		s.containerDepth++
		if !s.inParagraph {
			s.para.reset()
			s.inParagraph = true
			s.captureDepth = s.containerDepth
		}
	case atom.B, atom.Strong:
		s.boldDepth++
		s.para.markup.WriteString("<b>")
	case atom.Mark:
		s.markDepth++
		if s.markDepth == 1 {
			s.para.markBuf.Reset()
		}
		s.para.markup.WriteString("<mark>")
	case atom.I, atom.Em:
		s.para.markup.WriteString("<i>")
	case atom.U:
		s.para.markup.WriteString("<u>")
	case atom.A:
		for _, attr := range attrs {
			if attr.Key == "href" {
				s.para.markup.WriteString(`<a href="` + html.EscapeString(attr.Val) + `">`)
				return
			}
		}
		s.para.markup.WriteString("<a>")
	case atom.Br:
		s.onLineBreak()
	}
}

// onText handles a text event, routing it to whichever captures are open.
func (s *segmenter) onText(text string) {
	if s.headingLevel > 0 {
		s.headingText.WriteString(text)
		return
	}
	if !s.inParagraph {
		return
	}
	s.para.text.WriteString(text)
	s.para.markup.WriteString(html.EscapeString(text))
	if s.boldDepth > 0 {
		s.para.bold.WriteString(text)
	}
	if s.markDepth > 0 {
		s.para.markBuf.WriteString(text)
	}
}

// onClose handles an element end event.
func (s *segmenter) onClose(a atom.Atom, name string) {
	if level := headingLevel(a); level > 0 && s.profile.isHeadingTag(name) {
		text := strings.TrimSpace(s.headingText.String())
		s.headingLevel = 0
		s.handleHeading(level, text)
		return
	}

	switch a {
	case atom.P, atom.Li:
		if s.inParagraph {
			s.inParagraph = false
			s.handleParagraph()
		}
		s.captureDepth = 0
	case atom.Div, atom.Blockquote:
		if s.containerDepth > 0 {
			s.containerDepth--
		}
		// An inner container's close leaves the capture open; only the
		// one that started it (or an unbalanced close below it) ends it.
		if s.captureDepth > 0 && s.containerDepth < s.captureDepth {
			s.captureDepth = 0
			if s.inParagraph {
				s.inParagraph = false
				s.handleParagraph()
			}
		}
	case atom.B, atom.Strong:
		if s.boldDepth > 0 {
			s.boldDepth--
		}
		s.para.markup.WriteString("</b>")
	case atom.Mark:
		if s.markDepth > 0 {
			s.markDepth--
			if s.markDepth == 0 {
				s.para.sawMark = true
				if span := strings.TrimSpace(s.para.markBuf.String()); span != "" {
					s.para.marks = append(s.para.marks, span)
				}
			}
		}
		s.para.markup.WriteString("</mark>")
	case atom.I, atom.Em:
		s.para.markup.WriteString("</i>")
	case atom.U:
		s.para.markup.WriteString("</u>")
	case atom.A:
		s.para.markup.WriteString("</a>")
	}
}

// onLineBreak handles <br/>. Under profiles that distrust paragraph tags
// (PDF pastes put whole pages into one <p>), a line break ends the current
// paragraph; otherwise it stays inline.
func (s *segmenter) onLineBreak() {
	if !s.inParagraph {
		return
	}
	if s.profile.TrustParagraphTags {
		s.para.text.WriteString("\n")
		s.para.markup.WriteString("<br/>")
		return
	}
	s.handleParagraph()
	s.para.reset()
}

// handleHeading processes a completed heading.
func (s *segmenter) handleHeading(level int, text string) {
	s.blankCount = 0

	if s.profile.startsCard(level) {
		s.flushCard()
		s.openCard(text)
		s.logger.Debug("card start from heading", "level", level, "summary", text)
		return
	}

	s.flushCard()
	outlineLevel := level
	if outlineLevel > 3 {
		outlineLevel = 3
	}
	s.pushHeadingPath(outlineLevel, text)
	s.entries = append(s.entries, OutlineEntry{Heading: &OutlineItem{Level: outlineLevel, Text: text}})
	s.logger.Debug("heading", "level", outlineLevel, "text", text, "path", strings.Join(s.headingPath, " / "))
}

// handleParagraph applies the transition table to a completed paragraph.
func (s *segmenter) handleParagraph() {
	text := strings.TrimSpace(s.para.text.String())

	if text == "" {
		s.blankCount++
		if s.current != nil && s.blankCount >= s.profile.MinBlankLinesForBoundary &&
			(s.current.hasCite || len(s.current.body) > 0) {
			s.logger.Debug("blank boundary", "blanks", s.blankCount)
			s.flushCard()
			s.state = stateOutsideCard
		}
		return
	}
	s.blankCount = 0

	bold := strings.TrimSpace(s.para.bold.String())

	if s.current == nil {
		// No card context. A summary-shaped paragraph, or a short one
		// with a bold run, opens a card; anything else survives as plain
		// outline text.
		if s.profile.matchesSummaryPattern(text) || (bold != "" && len(text) < shortSummaryMax) {
			s.openCard(text)
			s.logger.Debug("card start from paragraph", "summary", text)
		} else {
			s.entries = append(s.entries, OutlineEntry{Text: text})
		}
		return
	}

	if !s.current.hasCite && s.isCitationLine(text, bold) {
		s.current.cite = strings.TrimRight(text, strayQuotes)
		s.current.info = s.extractor.Extract(text, bold)
		s.current.url = urlPattern.FindString(text)
		s.current.hasCite = true
		s.state = stateInCard
		s.logger.Debug("citation line", "cite", s.current.cite,
			"author", s.current.info.Author, "year", s.current.info.Year.String())
		return
	}

	s.current.body = append(s.current.body, "<p>"+s.para.markup.String()+"</p>")
	s.current.marks = append(s.current.marks, s.para.marks...)
	if s.para.sawMark {
		s.current.sawMark = true
	}
	s.state = stateInCard
}

// isCitationLine reports whether an in-card paragraph is the citation.
// The first bold run after the summary is the citation; PDF pastes carry
// no bold at all, so under profiles that distrust paragraph tags the line
// right after the summary counts when author and year are recoverable
// from it.
func (s *segmenter) isCitationLine(text, bold string) bool {
	if bold != "" {
		return true
	}
	if s.profile.TrustParagraphTags || len(s.current.body) > 0 {
		return false
	}
	info := s.extractor.Extract(text, "")
	return info.Author != "" && info.Year.Known()
}

// openCard begins a new card with the given summary line.
func (s *segmenter) openCard(summary string) {
	s.current = &cardBuilder{summary: summary}
	s.state = stateSeenSummaryLine
}

// flushCard finalizes and emits the open card, if any.
func (s *segmenter) flushCard() {
	if s.current == nil {
		return
	}
	card := s.finalize(s.current)
	s.entries = append(s.entries, OutlineEntry{Card: card})
	s.logger.Debug("card flushed", "state", s.state.String(),
		"summary", card.Summary, "words", card.Words, "errors", len(card.Errors))
	s.current = nil
	s.state = stateOutsideCard
}

// finishInput is the end-of-input flush: an open card ends exactly as a
// boundary event would end it.
func (s *segmenter) finishInput() {
	if s.inParagraph {
		s.inParagraph = false
		s.handleParagraph()
	}
	s.flushCard()
}

// pushHeadingPath keeps the most-specific-open heading trail.
func (s *segmenter) pushHeadingPath(level int, text string) {
	if level <= len(s.headingPath) {
		s.headingPath = s.headingPath[:level-1]
	}
	s.headingPath = append(s.headingPath, text)
}

// headingLevel maps heading atoms to their numeric level, 0 for non-headings.
func headingLevel(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}
