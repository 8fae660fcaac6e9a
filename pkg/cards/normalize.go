package cards

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// markupPolicy is the sanitization policy applied at the head of Normalize.
// Pasted rich text arrives with scripts, styles, and editor-specific
// attributes; only structural and inline formatting markup survives.
var markupPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "div", "span",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"b", "strong", "i", "em", "u", "mark",
		"ul", "ol", "li", "blockquote",
	)
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	return p
}()

var (
	// brPattern normalizes the line-break element spellings.
	brPattern = regexp.MustCompile(`(?i)<br\s*/?>`)

	// brRun4Pattern, brRun3Pattern, and brRun2Pattern collapse runs of
	// consecutive line breaks into explicit empty-paragraph boundaries.
	// More separation maps to more blank paragraphs, so heavier gaps read
	// as stronger card boundaries downstream.
	brRun4Pattern = regexp.MustCompile(`(?:<br/>\s*){4,}`)
	brRun3Pattern = regexp.MustCompile(`(?:<br/>\s*){3}`)
	brRun2Pattern = regexp.MustCompile(`(?:<br/>\s*){2}`)

	// boldAfterTextPattern finds a bold run glued directly to preceding
	// text, the usual shape of a citation line pasted onto the end of the
	// prior paragraph. The split makes it a paragraph of its own.
	boldAfterTextPattern = regexp.MustCompile(`([^>\s])(<(?:b|strong)\b)`)
)

// inlineTags are elements that carry formatting, not structure. Empty ones
// are dropped; root-level ones get wrapped in a paragraph.
var inlineTags = map[atom.Atom]bool{
	atom.B: true, atom.Strong: true, atom.I: true, atom.Em: true,
	atom.U: true, atom.Mark: true, atom.Span: true, atom.A: true,
}

// Normalize rewrites loose line-break and bold conventions into a canonical
// paragraph/heading structure with predictable boundaries. It is pure and
// total: any input, including plain text with no markup at all, yields a
// well-formed fragment that starts and ends inside an element. Normalizing
// already-normalized markup is a fixed point.
func Normalize(raw string) string {
	s := markupPolicy.Sanitize(raw)

	// Literal newlines are line breaks too; unify before collapsing.
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = brPattern.ReplaceAllString(s, "<br/>")
	s = strings.ReplaceAll(s, "\n", "<br/>")

	s = brRun4Pattern.ReplaceAllString(s, "<p></p><p></p><p></p>")
	s = brRun3Pattern.ReplaceAllString(s, "<p></p><p></p>")
	s = brRun2Pattern.ReplaceAllString(s, "<p></p>")

	s = boldAfterTextPattern.ReplaceAllString(s, "$1</p><p>$2")

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// html.Parse does not fail on malformed markup, only on reader
		// errors, which cannot happen here. Escape defensively anyway.
		return "<p>" + html.EscapeString(raw) + "</p>"
	}

	body := findNode(doc, atom.Body)
	if body == nil {
		return "<p></p>"
	}

	removeEmptyContainers(body)
	wrapBareContent(body)

	var buf bytes.Buffer
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		html.Render(&buf, child)
	}
	out := buf.String()
	if strings.TrimSpace(out) == "" {
		return "<p></p>"
	}
	return out
}

// findNode returns the first element with the given atom, depth-first.
func findNode(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, a); found != nil {
			return found
		}
	}
	return nil
}

// removeEmptyContainers drops elements with no text and no line breaks.
// Empty paragraphs stay: they are the blank-line boundary signal.
func removeEmptyContainers(n *html.Node) {
	child := n.FirstChild
	for child != nil {
		next := child.NextSibling
		removeEmptyContainers(child)
		if child.Type == html.ElementNode && child.DataAtom != atom.P && child.DataAtom != atom.Br {
			if !hasContent(child) {
				n.RemoveChild(child)
			}
		}
		child = next
	}
}

// hasContent reports whether the subtree holds any text or a line break.
func hasContent(n *html.Node) bool {
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
		return true
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Br {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if hasContent(c) {
			return true
		}
	}
	return false
}

// wrapBareContent groups root-level text and inline elements into
// paragraphs so the tag-event parser never sees a dangling root text node.
// Whitespace-only gaps between block elements are dropped, not wrapped.
func wrapBareContent(body *html.Node) {
	child := body.FirstChild
	for child != nil {
		next := child.NextSibling

		if isBareInline(child) {
			if child.Type == html.TextNode && strings.TrimSpace(child.Data) == "" {
				body.RemoveChild(child)
				child = next
				continue
			}

			wrapper := &html.Node{Type: html.ElementNode, DataAtom: atom.P, Data: "p"}
			body.InsertBefore(wrapper, child)

			// Pull this and all following bare siblings into the wrapper.
			for child != nil && isBareInline(child) {
				following := child.NextSibling
				body.RemoveChild(child)
				wrapper.AppendChild(child)
				child = following
			}
			next = wrapper.NextSibling
		}
		child = next
	}
}

// isBareInline reports whether a root-level node needs paragraph wrapping.
func isBareInline(n *html.Node) bool {
	if n.Type == html.TextNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	return inlineTags[n.DataAtom] || n.DataAtom == atom.Br
}
