package cards

import (
	"strings"
	"testing"
)

func TestNormalizePlainText(t *testing.T) {
	got := Normalize("hello world")
	if got != "<p>hello world</p>" {
		t.Errorf("Expected wrapped paragraph, got %q", got)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n"} {
		got := Normalize(input)
		if got != "<p></p>" {
			t.Errorf("Normalize(%q): expected %q, got %q", input, "<p></p>", got)
		}
	}
}

func TestNormalizeBlankLineCollapse(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "two newlines become one boundary",
			input:    "a\n\nb",
			expected: "<p>a</p><p></p><p>b</p>",
		},
		{
			name:     "three newlines become two boundaries",
			input:    "a\n\n\nb",
			expected: "<p>a</p><p></p><p></p><p>b</p>",
		},
		{
			name:     "heavier gaps cap at three boundaries",
			input:    "a\n\n\n\n\n\n\nb",
			expected: "<p>a</p><p></p><p></p><p></p><p>b</p>",
		},
		{
			name:     "br spelling variants unify",
			input:    "a<br><BR />b",
			expected: "<p>a</p><p></p><p>b</p>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestNormalizeSplitsBoldGluedToText(t *testing.T) {
	got := Normalize("<p>body text<b>Smith 2023</b></p>")
	expected := "<p>body text</p><p><b>Smith 2023</b></p>"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestNormalizeKeepsBoldAfterSpace(t *testing.T) {
	got := Normalize("<p>see <b>this</b> part</p>")
	if strings.Contains(got, "</p><p>") {
		t.Errorf("Bold mid-sentence should not split the paragraph, got %q", got)
	}
}

func TestNormalizeDropsDisallowedMarkup(t *testing.T) {
	got := Normalize(`<script>alert(1)</script><p style="color:red" onclick="x()">hi</p>`)
	if got != "<p>hi</p>" {
		t.Errorf("Expected sanitized %q, got %q", "<p>hi</p>", got)
	}
}

func TestNormalizeRemovesEmptyInlineElements(t *testing.T) {
	got := Normalize("<p>a</p><b></b><span> </span><p>b</p>")
	expected := "<p>a</p><p>b</p>"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestNormalizeKeepsEmptyParagraphs(t *testing.T) {
	got := Normalize("<p>a</p><p></p><p>b</p>")
	if !strings.Contains(got, "<p></p>") {
		t.Errorf("Empty paragraph boundary must survive, got %q", got)
	}
}

func TestNormalizeWrapsBareInlineRuns(t *testing.T) {
	got := Normalize("leading <b>bold</b> text<p>real</p>")
	expected := "<p>leading <b>bold</b> text</p><p>real</p>"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"hello world",
		"a\n\nb",
		"a\n\n\n\n\nb",
		"<p>body text<b>Smith 2023</b></p>",
		"<h4>Tag</h4><p><b>Smith '23</b> quote here</p>",
		"<p>a</p>\n<p>b</p>",
		"leading <mark>marked</mark> text",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not a fixed point for %q:\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}
