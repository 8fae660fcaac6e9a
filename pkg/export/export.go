// Package export renders parse results into portable formats for use
// outside the editor, currently Markdown and plain text.
package export

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/coolbeans/cardcut/pkg/cards"
)

// Exporter converts parse results. Safe for concurrent use.
type Exporter struct {
	mdConverter *converter.Converter
}

// New creates an Exporter.
func New() *Exporter {
	return &Exporter{
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Markdown renders the full outline as a Markdown document. Headings keep
// their levels, cards render as a level-4 heading with a bold citation
// line, and degraded text entries pass through as paragraphs.
func (e *Exporter) Markdown(result *cards.Result) (string, error) {
	var b strings.Builder

	if title := documentTitle(result.Metadata); title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}

	for _, entry := range result.Outline {
		switch {
		case entry.Heading != nil:
			fmt.Fprintf(&b, "%s %s\n\n", strings.Repeat("#", entry.Heading.Level), entry.Heading.Text)
		case entry.Card != nil:
			if err := e.writeCard(&b, entry.Card); err != nil {
				return "", err
			}
		case entry.Text != "":
			fmt.Fprintf(&b, "%s\n\n", entry.Text)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func (e *Exporter) writeCard(b *strings.Builder, card *cards.Card) error {
	fmt.Fprintf(b, "#### %s\n\n", card.Summary)
	fmt.Fprintf(b, "**%s**\n\n", card.Cite)

	body, err := e.mdConverter.ConvertString(card.HTML)
	if err != nil {
		return fmt.Errorf("convert card body: %w", err)
	}
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n\n")
	return nil
}

// Text renders only the highlighted reading path: summaries, citations,
// and marked text, the way the card would be read aloud.
func (e *Exporter) Text(result *cards.Result) string {
	var b strings.Builder
	for _, entry := range result.Outline {
		switch {
		case entry.Heading != nil:
			fmt.Fprintf(&b, "%s\n\n", entry.Heading.Text)
		case entry.Card != nil:
			fmt.Fprintf(&b, "%s\n%s\n", entry.Card.Summary, entry.Card.Cite)
			if entry.Card.Marked != "" {
				fmt.Fprintf(&b, "%s\n", entry.Card.Marked)
			}
			b.WriteString("\n")
		case entry.Text != "":
			fmt.Fprintf(&b, "%s\n\n", entry.Text)
		}
	}
	return b.String()
}

// documentTitle assembles a display title from file metadata.
func documentTitle(meta cards.Metadata) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{meta.Category, meta.Title, meta.Organization} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	title := strings.Join(parts, " - ")
	if meta.Year != 0 && title != "" {
		title = fmt.Sprintf("%s %d", title, meta.Year)
	}
	return title
}
