package cards

import (
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// ProfileName selects one of the built-in segmentation presets.
type ProfileName string

const (
	ProfileStandard      ProfileName = "standard"
	ProfileFlexible      ProfileName = "flexible"
	ProfileUltraFlexible ProfileName = "ultra_flexible"
	ProfileLegacyWord    ProfileName = "legacy_word"
	ProfileCleanHTML     ProfileName = "clean_html"
	ProfilePastedPDF     ProfileName = "pasted_pdf"
)

// FormatProfile is a named, fully data-driven segmentation policy. Profiles
// are pure configuration: constructed once per parse call, never mutated.
type FormatProfile struct {
	Name ProfileName

	// HeadingTags are the element names treated as headings.
	HeadingTags []string

	// CardStartHeadings are the heading levels that open a new card; other
	// heading levels become outline items.
	CardStartHeadings []int

	// MinBlankLinesForBoundary is the number of consecutive blank
	// paragraphs that flushes an open card.
	MinBlankLinesForBoundary int

	// TrustParagraphTags treats each <p> as a real paragraph. When false
	// (PDF pastes put whole pages in one <p>), line breaks inside a
	// paragraph are boundaries too.
	TrustParagraphTags bool

	// SummaryPatterns open a card from a bare paragraph when no heading is
	// available. Tried in order.
	SummaryPatterns []*regexp.Regexp
}

// summaryPatternTitleLine matches short title-cased lines with no sentence
// punctuation, the usual shape of a pasted card tag.
var summaryPatternTitleLine = regexp.MustCompile(`^[A-Z0-9][^.!?]{0,119}$`)

// summaryPatternLabeled matches explicit "Tag:"/"1AC —" style labels.
var summaryPatternLabeled = regexp.MustCompile(`^(?:[A-Z0-9]{1,4}[.):\-]|Tag:|[0-9]+[AN]C)\s+\S`)

// summaryPatternAllCaps matches shouting headings from plain-text exports.
var summaryPatternAllCaps = regexp.MustCompile(`^[A-Z][A-Z0-9 ,'\-]{3,80}$`)

var allHeadingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// profiles holds the six built-in presets, ordered loosest-last. Looser
// profiles only add card-start triggers, so for fixed input the card count
// never decreases moving down the list.
var profiles = map[ProfileName]FormatProfile{
	ProfileStandard: {
		Name:                     ProfileStandard,
		HeadingTags:              allHeadingTags,
		CardStartHeadings:        []int{4},
		MinBlankLinesForBoundary: 2,
		TrustParagraphTags:       true,
	},
	ProfileFlexible: {
		Name:                     ProfileFlexible,
		HeadingTags:              allHeadingTags,
		CardStartHeadings:        []int{3, 4},
		MinBlankLinesForBoundary: 2,
		TrustParagraphTags:       true,
		SummaryPatterns:          []*regexp.Regexp{summaryPatternLabeled},
	},
	ProfileUltraFlexible: {
		Name:                     ProfileUltraFlexible,
		HeadingTags:              allHeadingTags,
		CardStartHeadings:        []int{2, 3, 4, 5, 6},
		MinBlankLinesForBoundary: 2,
		TrustParagraphTags:       true,
		SummaryPatterns: []*regexp.Regexp{
			summaryPatternLabeled,
			summaryPatternAllCaps,
			summaryPatternTitleLine,
		},
	},
	ProfileLegacyWord: {
		Name:                     ProfileLegacyWord,
		HeadingTags:              allHeadingTags,
		CardStartHeadings:        []int{1, 2, 3, 4},
		MinBlankLinesForBoundary: 2,
		TrustParagraphTags:       true,
		SummaryPatterns:          []*regexp.Regexp{summaryPatternLabeled},
	},
	ProfileCleanHTML: {
		Name:                     ProfileCleanHTML,
		HeadingTags:              allHeadingTags,
		CardStartHeadings:        []int{4},
		MinBlankLinesForBoundary: 3,
		TrustParagraphTags:       true,
	},
	ProfilePastedPDF: {
		Name:                     ProfilePastedPDF,
		HeadingTags:              allHeadingTags,
		CardStartHeadings:        []int{1, 2, 3, 4, 5, 6},
		MinBlankLinesForBoundary: 1,
		TrustParagraphTags:       false,
		SummaryPatterns: []*regexp.Regexp{
			summaryPatternLabeled,
			summaryPatternAllCaps,
			summaryPatternTitleLine,
		},
	},
}

// Profile returns a built-in preset by name.
func Profile(name ProfileName) (FormatProfile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// ProfileNames lists the built-in preset names in sorted order.
func ProfileNames() []string {
	out := make([]string, 0, len(profiles))
	for name := range profiles {
		out = append(out, string(name))
	}
	sort.Strings(out)
	return out
}

// Overrides carries per-field profile adjustments. Nil/empty fields leave
// the preset value alone.
type Overrides struct {
	HeadingTags              []string `yaml:"heading_tags" json:"heading_tags,omitempty"`
	CardStartHeadings        []int    `yaml:"card_start_headings" json:"card_start_headings,omitempty"`
	MinBlankLinesForBoundary *int     `yaml:"min_blank_lines_for_boundary" json:"min_blank_lines_for_boundary,omitempty"`
	TrustParagraphTags       *bool    `yaml:"trust_paragraph_tags" json:"trust_paragraph_tags,omitempty"`
	SummaryPatterns          []string `yaml:"summary_patterns" json:"summary_patterns,omitempty"`
}

// With returns a copy of the profile with the overrides applied. Invalid
// summary patterns are reported rather than silently dropped.
func (p FormatProfile) With(o Overrides) (FormatProfile, error) {
	out := p
	if len(o.HeadingTags) > 0 {
		out.HeadingTags = append([]string(nil), o.HeadingTags...)
	}
	if len(o.CardStartHeadings) > 0 {
		out.CardStartHeadings = append([]int(nil), o.CardStartHeadings...)
	}
	if o.MinBlankLinesForBoundary != nil {
		out.MinBlankLinesForBoundary = *o.MinBlankLinesForBoundary
	}
	if o.TrustParagraphTags != nil {
		out.TrustParagraphTags = *o.TrustParagraphTags
	}
	if len(o.SummaryPatterns) > 0 {
		compiled := make([]*regexp.Regexp, 0, len(o.SummaryPatterns))
		for _, pattern := range o.SummaryPatterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return out, fmt.Errorf("summary pattern %q: %w", pattern, err)
			}
			compiled = append(compiled, re)
		}
		out.SummaryPatterns = compiled
	}
	return out, nil
}

// LoadOverridesFile reads profile overrides from a YAML file.
func LoadOverridesFile(path string) (Overrides, error) {
	var o Overrides
	data, err := os.ReadFile(path)
	if err != nil {
		return o, fmt.Errorf("read overrides: %w", err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("parse overrides: %w", err)
	}
	return o, nil
}

// startsCard reports whether a heading at the given level opens a card
// under this profile.
func (p FormatProfile) startsCard(level int) bool {
	for _, l := range p.CardStartHeadings {
		if l == level {
			return true
		}
	}
	return false
}

// isHeadingTag reports whether the element name is treated as a heading.
func (p FormatProfile) isHeadingTag(tag string) bool {
	for _, t := range p.HeadingTags {
		if t == tag {
			return true
		}
	}
	return false
}

// matchesSummaryPattern reports whether a bare paragraph qualifies as a
// card summary under this profile.
func (p FormatProfile) matchesSummaryPattern(text string) bool {
	for _, pattern := range p.SummaryPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
