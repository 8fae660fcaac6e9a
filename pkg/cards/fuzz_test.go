package cards

import (
	"strings"
	"testing"
)

// FuzzParse checks that arbitrary markup never panics the parser and that
// its structural invariants hold on whatever comes out.
// Run with: go test -fuzz=FuzzParse -fuzztime=30s ./pkg/cards/...
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"plain text with no markup at all",
		"<h4>Tag</h4><p><b>Smith 2023</b> Journal</p><p>Body text.</p>",
		"<h4>Tag</h4><p><b>'</b> said the witness, 2021</p><p>Body.</p>",
		"<p>line one<br><br><br>line two</p>",
		"<h1>A</h1><h2>B</h2><h3>C</h3><h4>D</h4><h5>E</h5><h6>F</h6>",
		"<p><mark>highlight</mark> only</p>",
		"<div><p>nested</p></div>",
		"<b>unclosed bold <p>paragraph</b></p>",
		"<script>alert(1)</script><p onclick=x>hi</p>",
		"text<b>Smith '99</b>\n\n\n\nmore",
		"<p> </p><p>’</p>",
		"Tag: labeled summary\nGarcia 2019 Paper\nBody line for the card.",
	}
	for _, seed := range seeds {
		f.Add(seed, "Aff - Topic - Org 2023.docx")
	}

	f.Fuzz(func(t *testing.T, markup, fileName string) {
		result := Parse(markup, fileName, Options{})
		if result == nil {
			t.Fatal("Parse returned nil")
		}

		cards := 0
		blocks := 0
		for _, entry := range result.Outline {
			set := 0
			if entry.Heading != nil {
				set++
				blocks++
				if entry.Heading.Level < 1 || entry.Heading.Level > 3 {
					t.Errorf("Heading level out of range: %d", entry.Heading.Level)
				}
			}
			if entry.Card != nil {
				set++
				cards++
				if entry.Card.Cite == "" || entry.Card.HTML == "" {
					t.Errorf("Outline card missing cite or body: %+v", entry.Card)
				}
				if entry.Card.Words < 0 || entry.Card.WordsMarked < 0 {
					t.Errorf("Negative word count: %+v", entry.Card)
				}
			}
			if entry.Text != "" {
				set++
			}
			if set > 1 {
				t.Errorf("Outline entry with multiple variants set: %+v", entry)
			}
		}
		if result.Metadata.Quotes != cards || result.Metadata.Blocks != blocks {
			t.Errorf("Metadata counts disagree with outline: %+v", result.Metadata)
		}
	})
}

// FuzzNormalize checks totality and the fixed-point property.
func FuzzNormalize(f *testing.F) {
	for _, seed := range []string{
		"", "a\n\nb", "<p>x<b>y</b></p>", "<br><br><br><br>", "bare <mark>text</mark>",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		once := Normalize(input)
		if strings.TrimSpace(once) == "" {
			t.Errorf("Normalize produced blank output %q for %q", once, input)
		}
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not a fixed point:\n once: %q\ntwice: %q", once, twice)
		}
	})
}
