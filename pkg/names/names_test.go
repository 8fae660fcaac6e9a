package names

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractSinglePerson(t *testing.T) {
	result := Extract("Mary Chen", Options{})
	if result.Type != AuthorPerson {
		t.Errorf("Expected person, got %q", result.Type)
	}
	if result.AuthorShort != "Chen" {
		t.Errorf("Expected short form Chen, got %q", result.AuthorShort)
	}
	if result.AuthorCite != "Mary Chen" {
		t.Errorf("Expected cite form Mary Chen, got %q", result.AuthorCite)
	}
}

func TestExtractLastFirstAndPair(t *testing.T) {
	result := Extract("Chen, Mary and Rodriguez, Juan", Options{})
	if result.Type != AuthorTwoPerson {
		t.Errorf("Expected two_person, got %q", result.Type)
	}
	if result.AuthorShort != "Chen & Rodriguez" {
		t.Errorf("Expected %q, got %q", "Chen & Rodriguez", result.AuthorShort)
	}
	if result.AuthorCite != "Mary Chen & Juan Rodriguez" {
		t.Errorf("Expected %q, got %q", "Mary Chen & Juan Rodriguez", result.AuthorCite)
	}
}

func TestExtractAmpersandPair(t *testing.T) {
	result := Extract("Chen, Mary & Rodriguez, Juan", Options{})
	if result.Type != AuthorTwoPerson || result.AuthorShort != "Chen & Rodriguez" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestExtractFirstLastPair(t *testing.T) {
	result := Extract("Mary Chen and Juan Rodriguez", Options{})
	if result.Type != AuthorTwoPerson || result.AuthorShort != "Chen & Rodriguez" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestExtractEtAlCutoff(t *testing.T) {
	result := Extract("Smith, John, Jones, Mary, Brown, Susan, and Lee, Ada", Options{})
	if result.Type != AuthorMultiPerson {
		t.Errorf("Expected multi_person, got %q", result.Type)
	}
	if result.AuthorShort != "Smith et al." {
		t.Errorf("Expected et al. collapse, got %q", result.AuthorShort)
	}

	three := Extract("Smith, John, Jones, Mary, and Brown, Susan", Options{})
	if three.AuthorShort != "Smith & Jones & Brown" {
		t.Errorf("Three authors should stay explicit, got %q", three.AuthorShort)
	}
}

func TestExtractShortenFirstName(t *testing.T) {
	result := Extract("Mary Chen", Options{ShortenFirstName: true})
	if result.AuthorCite != "M. Chen" {
		t.Errorf("Expected M. Chen, got %q", result.AuthorCite)
	}
}

func TestExtractOrganization(t *testing.T) {
	result := Extract("United Nations Environment Programme", Options{})
	if result.Type != AuthorOrganization {
		t.Errorf("Expected organization, got %q", result.Type)
	}
	if result.AuthorShort != "United Nations Environment Programme" {
		t.Errorf("Organization name should pass through, got %q", result.AuthorShort)
	}
}

func TestExtractOrganizationTruncation(t *testing.T) {
	long := "Intergovernmental Commission on the Conservation of Extremely Long Migratory Species Names"
	result := Extract(long, Options{})
	if result.Type != AuthorOrganization {
		t.Fatalf("Expected organization, got %q", result.Type)
	}
	if len(result.AuthorShort) > maxOrganizationLength {
		t.Errorf("Expected truncation to %d chars, got %d: %q",
			maxOrganizationLength, len(result.AuthorShort), result.AuthorShort)
	}
	if !strings.HasPrefix(long, result.AuthorShort) {
		t.Errorf("Truncation should cut at a word boundary, got %q", result.AuthorShort)
	}
}

func TestTruncateOrganizationRuneBoundary(t *testing.T) {
	// No space anywhere, and every second byte is a continuation byte, so
	// the cut has to back off instead of slicing mid-rune.
	name := "x" + strings.Repeat("é", 40)
	got := truncateOrganization(name)
	if !utf8.ValidString(got) {
		t.Errorf("Expected valid UTF-8, got %q", got)
	}
	if len(got) > maxOrganizationLength {
		t.Errorf("Expected at most %d bytes, got %d", maxOrganizationLength, len(got))
	}
	if !strings.HasPrefix(name, got) {
		t.Errorf("Expected a prefix of the input, got %q", got)
	}
}

func TestExtractStripsQualifications(t *testing.T) {
	result := Extract("Dr. Mary Chen, Professor of Climate Science", Options{})
	if result.Type != AuthorPerson {
		t.Errorf("Expected person, got %q", result.Type)
	}
	if result.AuthorShort != "Chen" {
		t.Errorf("Expected Chen, got %q", result.AuthorShort)
	}
}

func TestExtractByMarker(t *testing.T) {
	result := Extract("By Mary Chen", Options{})
	if result.AuthorShort != "Chen" {
		t.Errorf("Expected the by-marker stripped, got %q", result.AuthorShort)
	}
}

func TestExtractEmpty(t *testing.T) {
	result := Extract("   ", Options{})
	if result.Type != AuthorUnknown || result.AuthorShort != "" {
		t.Errorf("Expected unknown/empty, got %+v", result)
	}
}

func TestIsOrganization(t *testing.T) {
	cases := []struct {
		name     string
		expected bool
	}{
		{"NASA", true},
		{"United Nations Environment Programme", true},
		{"The Economist", true},
		{"New York Times", true},
		{"Bureau of the Census", true},
		{"Acme Widgets Inc.", true},
		{"Chen", false},
		{"John Smith", false},
		{"Professor Jane Doe", false},
		{"Smith, John", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOrganization(tc.name); got != tc.expected {
				t.Errorf("IsOrganization(%q): expected %v, got %v", tc.name, tc.expected, got)
			}
		})
	}
}

func TestDecompose(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected Parts
	}{
		{
			name:     "first last",
			input:    "Mary Chen",
			expected: Parts{First: "Mary", Last: "Chen"},
		},
		{
			name:     "last comma first",
			input:    "Chen, Mary",
			expected: Parts{First: "Mary", Last: "Chen"},
		},
		{
			name:     "middle name",
			input:    "Mary Jane Watson-Smith",
			expected: Parts{First: "Mary", Middle: "Jane", Last: "Watson-Smith"},
		},
		{
			name:     "surname affixes",
			input:    "van der Berg, Hans",
			expected: Parts{Prefix: "van der", First: "Hans", Last: "Berg"},
		},
		{
			name:     "affix in natural order",
			input:    "Hans van der Berg",
			expected: Parts{Prefix: "van der", First: "Hans", Last: "Berg"},
		},
		{
			name:     "honorific suffix",
			input:    "John Smith Jr.",
			expected: Parts{First: "John", Last: "Smith", Honorific: "Jr."},
		},
		{
			name:     "all caps normalized",
			input:    "GARCIA, MARIA",
			expected: Parts{First: "Maria", Last: "Garcia"},
		},
		{
			name:     "single token",
			input:    "Chen",
			expected: Parts{Last: "Chen"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decompose(tc.input); got != tc.expected {
				t.Errorf("Expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}

func TestGuessFromContext(t *testing.T) {
	if got := GuessFromContext("a recent report (Brookings Institution) found that"); got != "Brookings Institution" {
		t.Errorf("Expected bracketed name, got %q", got)
	}
	if got := GuessFromContext("as written by John Smith yesterday afternoon"); got != "Smith" {
		t.Errorf("Expected adjacent-pair surname, got %q", got)
	}
	if got := GuessFromContext("no usable signal here at all"); got != "" {
		t.Errorf("Expected no guess, got %q", got)
	}
}
