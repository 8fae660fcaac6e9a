package citation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/cardcut/pkg/names"
)

// Extractor recovers author/year information from a citation paragraph and
// its leading bold run. Safe for concurrent use: all state is compiled
// patterns.
type Extractor struct {
	// Author patterns.
	leadAuthorYearPattern *regexp.Regexp // Smith 2023 ...
	beforeQuoteOrDigit    *regexp.Regexp // text immediately preceding a quote or digit
	trailingFragment      *regexp.Regexp // numeric/quote debris at the end of a bold run

	// Year patterns, in priority order.
	apostropheYearPattern *regexp.Regexp // '23
	fullYear20Pattern     *regexp.Regexp // 20xx
	fullYear19Pattern     *regexp.Regexp // 19xx
	bareTwoDigitPattern   *regexp.Regexp // two digits hugging punctuation
	noDatePattern         *regexp.Regexp // ND / No Date
	shortDigitToken       *regexp.Regexp // 1-2 digit token for the last-resort scan

	authorStopwords map[string]bool
}

// NewExtractor compiles the citation heuristics.
func NewExtractor() *Extractor {
	return &Extractor{
		// "Smith 2023", "Garcia 98" at the very start of the line.
		// Captures: (1) author word, (2) 2-4 digit year.
		leadAuthorYearPattern: regexp.MustCompile(`^([A-Z][A-Za-z'\-]+)\s+(\d{2,4})\b`),

		// Up to four words immediately before the first quote mark or digit.
		beforeQuoteOrDigit: regexp.MustCompile(`((?:[A-Za-z][\w.'\-]*\s+){0,3}[A-Za-z][\w.'\-]*)\s*["“”'‘’\d]`),

		// Trailing digits, quotes, and stray punctuation on a bold run.
		trailingFragment: regexp.MustCompile(`[\s"“”'‘’,;:\-–—\d]+$`),

		apostropheYearPattern: regexp.MustCompile(`['’](\d{2})\b`),
		fullYear20Pattern:     regexp.MustCompile(`\b(20\d{2})\b`),
		fullYear19Pattern:     regexp.MustCompile(`\b(19\d{2})\b`),
		bareTwoDigitPattern:   regexp.MustCompile(`(?:^|[\s,.;:(\[])(\d{2})(?:[,.;:)\]]|\s|$)`),
		noDatePattern:         regexp.MustCompile(`(?i)\b(?:N\.?\s?D\.?|No Date)\b`),
		shortDigitToken:       regexp.MustCompile(`^\d{1,2}$`),

		authorStopwords: map[string]bool{
			"the": true, "and": true, "of": true, "in": true, "a": true,
			"an": true, "for": true, "to": true, "on": true, "at": true,
			"with": true, "by": true, "from": true, "writes": true,
			"says": true, "reports": true,
		},
	}
}

// Extract runs the heuristic chain over a full citation line and the bold
// run that led it. First match wins, independently for author and year.
// Missing information yields zero fields, never an error.
func (e *Extractor) Extract(fullCite, boldText string) Info {
	fullCite = strings.TrimSpace(fullCite)
	boldText = strings.TrimSpace(boldText)

	var info Info

	// Heuristic 1: "<Author> <year>" at the very start of the line.
	if author, year, ok := e.extractLeadAuthorYear(fullCite); ok {
		info.Author = author
		info.Year = year
		info.Type = names.AuthorPerson
	}

	// Heuristic 2: general name recognition over the whole line.
	if info.Author == "" {
		if result, ok := e.extractByNameRecognition(fullCite); ok {
			info.Author = result.AuthorShort
			info.Type = result.Type
		}
	}

	// Heuristic 3: degenerate bold run (a lone quote mark) — the author is
	// whatever text sits just before the first quote or digit.
	if info.Author == "" && isDegenerateBold(boldText) {
		if author, authorType, ok := e.recoverBeforeQuoteOrDigit(fullCite); ok {
			info.Author = author
			info.Type = authorType
		}
	}

	// Heuristic 4: clean the bold run and retry, falling back to its last
	// token as a naive surname.
	if info.Author == "" && boldText != "" {
		if author, authorType, ok := e.recoverFromCleanedBold(boldText); ok {
			info.Author = author
			info.Type = authorType
		}
	}

	// Year recovery, only if the author heuristics did not set one.
	if !info.Year.Known() {
		info.Year = e.extractYear(fullCite, boldText)
	}
	if !info.Year.Known() {
		year, authorGuess := e.lastResortYearScan(fullCite)
		info.Year = year
		if info.Author == "" && authorGuess != "" {
			info.Author = authorGuess
			info.Type = names.AuthorPerson
		}
	}

	e.sanityCheckAuthor(&info, fullCite)
	return info
}

// extractLeadAuthorYear handles the dominant "Smith 2023 - ..." shape.
func (e *Extractor) extractLeadAuthorYear(fullCite string) (string, Year, bool) {
	m := e.leadAuthorYearPattern.FindStringSubmatch(fullCite)
	if m == nil {
		return "", 0, false
	}
	author := m[1]
	digits := m[2]
	year, ok := yearFromDigits(digits)
	if !ok {
		return "", 0, false
	}
	return author, year, true
}

// extractByNameRecognition applies the general name recognizer to the whole
// citation line. It succeeds only on a person-shaped result: a whole
// citation line that classifies as "organization" is almost always the >4
// words fallback firing on title text, which the bold-run heuristics handle
// better.
func (e *Extractor) extractByNameRecognition(fullCite string) (names.Result, bool) {
	result := names.Extract(fullCite, names.Options{})
	switch result.Type {
	case names.AuthorPerson, names.AuthorTwoPerson, names.AuthorMultiPerson:
		if plausibleAuthor(result.AuthorShort) {
			return result, true
		}
	}
	return names.Result{}, false
}

// isDegenerateBold reports whether the bold run carries no author signal:
// just a quote mark, or two characters or fewer containing one.
func isDegenerateBold(boldText string) bool {
	if boldText == "" {
		return false
	}
	if len([]rune(boldText)) > 2 {
		return false
	}
	return strings.ContainsAny(boldText, `"“”'‘’`)
}

// recoverBeforeQuoteOrDigit pulls the author from the words immediately
// preceding the first quote character or digit in the citation line.
func (e *Extractor) recoverBeforeQuoteOrDigit(fullCite string) (string, names.AuthorType, bool) {
	m := e.beforeQuoteOrDigit.FindStringSubmatch(fullCite)
	if m == nil {
		return "", names.AuthorUnknown, false
	}
	candidate := strings.TrimSpace(m[1])
	result := names.Extract(candidate, names.Options{})
	if result.AuthorShort != "" && plausibleAuthor(result.AuthorShort) {
		return result.AuthorShort, result.Type, true
	}
	return "", names.AuthorUnknown, false
}

// recoverFromCleanedBold strips titles, degrees, and trailing debris from
// the bold run and re-runs name extraction; if that still fails, the last
// whitespace-delimited token stands in as a naive surname.
func (e *Extractor) recoverFromCleanedBold(boldText string) (string, names.AuthorType, bool) {
	cleaned := names.StripQualifications(boldText)
	cleaned = e.trailingFragment.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", names.AuthorUnknown, false
	}

	result := names.Extract(cleaned, names.Options{})
	if result.AuthorShort != "" && plausibleAuthor(result.AuthorShort) {
		return result.AuthorShort, result.Type, true
	}

	fields := strings.Fields(cleaned)
	surname := fields[len(fields)-1]
	if plausibleAuthor(surname) {
		return surname, names.AuthorPerson, true
	}
	return "", names.AuthorUnknown, false
}

// extractYear tries the year patterns in priority order: apostrophe year in
// the bold run, then full 20xx/19xx years, apostrophe years, and bare
// two-digit tokens in the citation line, then an explicit no-date literal.
func (e *Extractor) extractYear(fullCite, boldText string) Year {
	if m := e.apostropheYearPattern.FindStringSubmatch(boldText); m != nil {
		twoDigit, _ := strconv.Atoi(m[1])
		return FromTwoDigit(twoDigit)
	}
	if m := e.fullYear20Pattern.FindStringSubmatch(fullCite); m != nil {
		fourDigit, _ := strconv.Atoi(m[1])
		return Year(fourDigit)
	}
	if m := e.fullYear19Pattern.FindStringSubmatch(fullCite); m != nil {
		fourDigit, _ := strconv.Atoi(m[1])
		return Year(fourDigit)
	}
	if m := e.apostropheYearPattern.FindStringSubmatch(fullCite); m != nil {
		twoDigit, _ := strconv.Atoi(m[1])
		return FromTwoDigit(twoDigit)
	}
	if m := e.bareTwoDigitPattern.FindStringSubmatch(fullCite); m != nil {
		twoDigit, _ := strconv.Atoi(m[1])
		return FromTwoDigit(twoDigit)
	}
	if e.noDatePattern.MatchString(fullCite) || e.noDatePattern.MatchString(boldText) {
		return NoDate
	}
	return 0
}

// lastResortYearScan checks the first five words for any one-or-two digit
// token. When one is found it also attempts an author guess from the words
// preceding it.
func (e *Extractor) lastResortYearScan(fullCite string) (Year, string) {
	words := strings.Fields(fullCite)
	if len(words) > 5 {
		words = words[:5]
	}
	for i, word := range words {
		token := strings.Trim(word, `.,;:()[]"“”'‘’`)
		if !e.shortDigitToken.MatchString(token) {
			continue
		}
		digits, _ := strconv.Atoi(token)
		year := FromTwoDigit(digits)

		start := i - 4
		if start < 0 {
			start = 0
		}
		guess := ""
		if i > start {
			result := names.Extract(strings.Join(words[start:i], " "), names.Options{})
			if result.AuthorShort != "" && plausibleAuthor(result.AuthorShort) {
				guess = result.AuthorShort
			}
		}
		return year, guess
	}
	return 0, ""
}

// sanityCheckAuthor re-derives implausible authors from context and rejects
// degenerate ones outright.
func (e *Extractor) sanityCheckAuthor(info *Info, fullCite string) {
	if info.Author == "" {
		return
	}
	if e.authorNeedsRecalc(info.Author) {
		if recalculated := names.GuessFromContext(fullCite); recalculated != "" {
			info.Author = recalculated
			if info.Type == names.AuthorUnknown || info.Type == "" {
				info.Type = names.AuthorPerson
			}
		}
	}
	if !plausibleAuthor(info.Author) {
		info.Author = ""
		info.Type = ""
	}
}

// authorNeedsRecalc flags authors that are too long or contain stopwords,
// the usual sign that a heuristic swallowed title text.
func (e *Extractor) authorNeedsRecalc(author string) bool {
	fields := strings.Fields(author)
	if len(fields) > 3 {
		return true
	}
	for _, field := range fields {
		if e.authorStopwords[strings.ToLower(strings.Trim(field, ".,"))] {
			return true
		}
	}
	return false
}

// plausibleAuthor rejects single characters and pure punctuation.
func plausibleAuthor(author string) bool {
	if len([]rune(author)) <= 1 {
		return false
	}
	for _, r := range author {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

// yearFromDigits interprets a 2-4 digit token as a year. Three-digit tokens
// are rejected; two-digit tokens go through the century rollover rule.
func yearFromDigits(digits string) (Year, bool) {
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	switch len(digits) {
	case 2:
		return FromTwoDigit(value), true
	case 4:
		if value >= 1500 && value <= 2199 {
			return Year(value), true
		}
	}
	return 0, false
}
