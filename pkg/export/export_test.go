package export

import (
	"strings"
	"testing"

	"github.com/coolbeans/cardcut/pkg/cards"
)

func sampleResult() *cards.Result {
	return &cards.Result{
		Metadata: cards.Metadata{Category: "Aff", Title: "Climate", Organization: "Michigan", Year: 2023},
		Outline: []cards.OutlineEntry{
			{Heading: &cards.OutlineItem{Level: 2, Text: "Advantage One"}},
			{Card: &cards.Card{
				Summary: "Warming is accelerating",
				Cite:    "Chen 2022, Nature",
				HTML:    "<p>The evidence is <mark>overwhelming</mark> today.</p>",
				Marked:  "overwhelming",
			}},
			{Text: "stray note"},
		},
	}
}

func TestMarkdown(t *testing.T) {
	got, err := New().Markdown(sampleResult())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{
		"# Aff - Climate - Michigan 2023",
		"## Advantage One",
		"#### Warming is accelerating",
		"**Chen 2022, Nature**",
		"stray note",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<p>") {
		t.Errorf("Expected body converted out of markup, got:\n%s", got)
	}
}

func TestText(t *testing.T) {
	got := New().Text(sampleResult())
	for _, want := range []string{"Advantage One", "Warming is accelerating", "Chen 2022, Nature", "overwhelming"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "evidence is") {
		t.Errorf("Text export should carry only the marked path, got:\n%s", got)
	}
}
