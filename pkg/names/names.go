// Package names parses free-text author strings into structured name parts
// and classifies them as people or organizations. It handles the citation
// conventions found in practice documents: "Last, First & Last, First",
// Oxford-comma lists, bare "First Last and First Last" pairs, and
// organization names mistaken for people (and vice versa).
package names

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// AuthorType classifies the author of a citation.
type AuthorType string

const (
	AuthorPerson       AuthorType = "person"
	AuthorTwoPerson    AuthorType = "two_person"
	AuthorMultiPerson  AuthorType = "multi_person"
	AuthorOrganization AuthorType = "organization"
	AuthorUnknown      AuthorType = "unknown"
)

// maxOrganizationLength is the cutoff beyond which organization names are
// truncated at the nearest preceding word boundary.
const maxOrganizationLength = 60

// Options controls author extraction and formatting.
type Options struct {
	// ShortenFirstName reduces given names to initials in the full
	// citation form ("Mary Chen" -> "M. Chen").
	ShortenFirstName bool

	// MaxAuthorsBeforeEtAl is the author count above which the citation
	// collapses to "<first author> et al." (default 3).
	MaxAuthorsBeforeEtAl int
}

func (o *Options) defaults() {
	if o.MaxAuthorsBeforeEtAl <= 0 {
		o.MaxAuthorsBeforeEtAl = 3
	}
}

// Result holds the formatted author forms and classification.
type Result struct {
	// AuthorCite is the full citation form ("Mary Chen & Juan Rodriguez").
	AuthorCite string `json:"author_cite"`

	// AuthorShort is the surname-only form ("Chen & Rodriguez").
	AuthorShort string `json:"author_short"`

	// Type classifies the author(s).
	Type AuthorType `json:"author_type"`
}

// Parts decomposes a single human name.
type Parts struct {
	Prefix    string `json:"prefix,omitempty"`    // name affix: van, von, de, ...
	First     string `json:"first,omitempty"`
	Middle    string `json:"middle,omitempty"`
	Last      string `json:"last,omitempty"`
	Honorific string `json:"honorific,omitempty"` // suffix: Jr, PhD, III, ...
}

var (
	// byMarkerPattern strips a leading "by:" / "By" marker.
	byMarkerPattern = regexp.MustCompile(`(?i)^\s*by:?\s+`)

	// acronymPattern matches all-caps 2-6 letter acronyms (UN, NASA, UNICEF).
	acronymPattern = regexp.MustCompile(`^[A-Z]{2,6}$`)

	// lastFirstPairPattern matches "Last, First & Last, First".
	lastFirstPairPattern = regexp.MustCompile(`^\s*([^,&]+),\s*([^,&]+)\s*&\s*([^,&]+),\s*([^,&]+)\s*$`)

	// lastFirstListPattern matches "Last, First, Last, First, and Last, First".
	lastFirstListPattern = regexp.MustCompile(`^\s*(?:[^,]+,\s*[^,]+,\s*)+and\s+[^,]+,\s*[^,]+\s*$`)

	// firstLastListPattern matches "First Last, First Last, and First Last".
	firstLastListPattern = regexp.MustCompile(`^\s*(?:[A-Z][\w.'-]*(?:\s+[A-Z][\w.'-]*)+,\s*)+(?:and\s+)?[A-Z][\w.'-]*(?:\s+[A-Z][\w.'-]*)+\s*$`)

	// firstLastPairPattern matches "First Last and First Last".
	firstLastPairPattern = regexp.MustCompile(`^\s*([A-Z][\w.'-]*(?:\s+[A-Z][\w.'-]*)+)\s+and\s+([A-Z][\w.'-]*(?:\s+[A-Z][\w.'-]*)+)\s*$`)

	// capitalizedPairPattern finds two adjacent capitalized words, used as a
	// last-resort author guess inside a longer citation line.
	capitalizedPairPattern = regexp.MustCompile(`\b([A-Z][a-z]+)\s+([A-Z][a-z]+)\b`)

	// bracketedNamePattern finds a short capitalized run in parentheses or
	// brackets, a common spot for the responsible organization or author.
	bracketedNamePattern = regexp.MustCompile(`[(\[]([A-Z][A-Za-z.&' -]{1,40}?)[)\]]`)
)

// organizationKeywords flags names that contain institutional vocabulary.
var organizationKeywords = []string{
	"institute", "university", "college", "school", "department", "agency",
	"association", "center", "centre", "committee", "commission", "council",
	"organization", "organisation", "programme", "program", "foundation",
	"bureau", "ministry", "administration", "corporation", "company",
	"coalition", "fund", "bank", "society", "union", "service", "office",
	"laboratory", "network", "group", "project", "initiative", "forum",
	"times", "post", "herald", "tribune", "journal", "review", "press",
	"media", "news", "wire", "report", "monitor", "observer",
}

// personQualificationKeywords flags strings that describe a person's role or
// credentials; their presence is a person signal even in long strings.
var personQualificationKeywords = []string{
	"professor", "prof.", "dr.", "ph.d", "phd", "m.d", "j.d", "jd",
	"researcher", "scientist", "analyst", "fellow", "scholar", "lecturer",
	"correspondent", "reporter", "columnist", "editor", "candidate",
	"chair of", "director of",
}

// qualificationPhrases are stripped from a name before decomposition, in
// order. Longer phrases come first so fragments are not left behind.
var qualificationPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i),?\s*(?:distinguished|associate|assistant|adjunct|visiting|emeritus)\s+professor\b.*$`),
	regexp.MustCompile(`(?i),?\s*professor\s+(?:of|at|in)\b.*$`),
	regexp.MustCompile(`(?i),?\s*(?:senior|chief|lead|principal)\s+(?:researcher|scientist|analyst|economist|fellow)\b.*$`),
	regexp.MustCompile(`(?i),?\s*(?:researcher|scientist|analyst|economist|fellow|scholar|lecturer|correspondent|reporter|columnist)\s+(?:of|at|in|for|with)\b.*$`),
	regexp.MustCompile(`(?i),?\s*(?:director|chair|head|dean)\s+of\b.*$`),
	regexp.MustCompile(`(?i),\s*(?:ph\.?\s?d\.?|m\.?d\.?|j\.?d\.?|esq\.?|m\.?p\.?h\.?|ed\.?d\.?|ll\.?m\.?)\s*\.?\s*$`),
	regexp.MustCompile(`(?i)^\s*(?:prof\.?|professor|dr\.?)\s+`),
	regexp.MustCompile(`(?i)\s*\((?:ph\.?\s?d\.?|m\.?d\.?|professor[^)]*|dr\.?[^)]*)\)\s*`),
}

// nameAffixes are surname prefixes that belong with the last name.
var nameAffixes = map[string]bool{
	"van": true, "von": true, "de": true, "del": true, "della": true,
	"di": true, "da": true, "der": true, "den": true, "ter": true,
	"la": true, "le": true, "al": true, "bin": true, "ibn": true,
	"mac": true, "st.": true, "st": true,
}

// honorificSuffixes are dropped from the end of a name into Parts.Honorific.
var honorificSuffixes = map[string]bool{
	"jr": true, "jr.": true, "sr": true, "sr.": true,
	"ii": true, "iii": true, "iv": true,
	"phd": true, "ph.d": true, "ph.d.": true,
	"md": true, "m.d": true, "m.d.": true,
	"jd": true, "j.d": true, "j.d.": true,
	"esq": true, "esq.": true, "mph": true, "m.p.h.": true,
}

// commonGivenNames is a last-resort lookup for person classification when
// every structural heuristic is inconclusive.
var commonGivenNames = map[string]bool{
	"james": true, "john": true, "robert": true, "michael": true,
	"william": true, "david": true, "richard": true, "joseph": true,
	"thomas": true, "charles": true, "christopher": true, "daniel": true,
	"matthew": true, "anthony": true, "mark": true, "donald": true,
	"steven": true, "paul": true, "andrew": true, "joshua": true,
	"kenneth": true, "kevin": true, "brian": true, "george": true,
	"mary": true, "patricia": true, "jennifer": true, "linda": true,
	"elizabeth": true, "barbara": true, "susan": true, "jessica": true,
	"sarah": true, "karen": true, "nancy": true, "lisa": true,
	"margaret": true, "betty": true, "sandra": true, "ashley": true,
	"emily": true, "kimberly": true, "donna": true, "michelle": true,
	"carol": true, "amanda": true, "laura": true, "rachel": true,
	"juan": true, "maria": true, "jose": true, "luis": true,
	"carlos": true, "ana": true, "wei": true, "ming": true,
	"ahmed": true, "mohammed": true, "fatima": true, "hans": true,
	"pierre": true, "marie": true, "anna": true, "ivan": true,
}

// organizationShapePatterns are structural signals of institutional names.
var organizationShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^the\s+\w`),                     // "The Economist"
	regexp.MustCompile(`(?i)\b(?:of|for)\s+the\b`),          // "Bureau of the Census"
	regexp.MustCompile(`(?i)\b(?:inc|llc|ltd|corp|co)\.?$`), // corporate suffixes
	regexp.MustCompile(`&\s*[A-Z][a-z]*\.?$`),               // "Standard & Poor's"
	regexp.MustCompile(`(?i)^\w+\s+(?:daily|weekly|today)$`),
}

// Extract parses a free-text author string and returns formatted citation
// forms plus the person/organization classification. It never fails: the
// worst case is an organization-typed passthrough of the cleaned input.
func Extract(text string, opts Options) Result {
	opts.defaults()

	cleaned := strings.TrimSpace(byMarkerPattern.ReplaceAllString(text, ""))
	if cleaned == "" {
		return Result{Type: AuthorUnknown}
	}

	authors := splitAuthors(cleaned)

	// Strip qualifications per author, dropping entries that vanish.
	kept := authors[:0]
	for _, author := range authors {
		stripped := StripQualifications(author)
		if strings.TrimSpace(stripped) != "" {
			kept = append(kept, strings.TrimSpace(stripped))
		}
	}
	authors = kept
	if len(authors) == 0 {
		return Result{Type: AuthorUnknown}
	}

	// A single entry may still be an organization.
	if len(authors) == 1 && IsOrganization(authors[0]) {
		orgName := truncateOrganization(authors[0])
		return Result{AuthorCite: orgName, AuthorShort: orgName, Type: AuthorOrganization}
	}

	return formatPeople(authors, opts)
}

// formatPeople builds the citation forms for one or more human names.
func formatPeople(authors []string, opts Options) Result {
	fullForms := make([]string, 0, len(authors))
	shortForms := make([]string, 0, len(authors))
	for _, author := range authors {
		parts := Decompose(author)
		fullForms = append(fullForms, formatFull(parts, opts.ShortenFirstName))
		shortForms = append(shortForms, formatShort(parts))
	}

	authorType := AuthorPerson
	switch {
	case len(authors) == 2:
		authorType = AuthorTwoPerson
	case len(authors) >= 3:
		authorType = AuthorMultiPerson
	}

	if len(authors) > opts.MaxAuthorsBeforeEtAl {
		etAl := shortForms[0] + " et al."
		return Result{AuthorCite: etAl, AuthorShort: etAl, Type: authorType}
	}

	return Result{
		AuthorCite:  strings.Join(fullForms, " & "),
		AuthorShort: strings.Join(shortForms, " & "),
		Type:        authorType,
	}
}

// formatFull renders "First Last" (or "F. Last" when shortening), falling
// back to whatever parts exist.
func formatFull(parts Parts, shorten bool) string {
	first := parts.First
	if shorten && first != "" {
		first = string([]rune(first)[:1]) + "."
	}
	surname := parts.Last
	if parts.Prefix != "" {
		surname = parts.Prefix + " " + surname
	}
	if first == "" {
		return surname
	}
	if surname == "" {
		return first
	}
	return first + " " + surname
}

// formatShort renders the surname alone.
func formatShort(parts Parts) string {
	surname := parts.Last
	if parts.Prefix != "" {
		surname = parts.Prefix + " " + surname
	}
	if surname == "" {
		return parts.First
	}
	return surname
}

// splitAuthors divides a multi-author string into individual names, trying
// the recognized conventions in priority order before the generic splitter.
func splitAuthors(text string) []string {
	if parts, ok := splitLastFirstPair(text); ok {
		return parts
	}
	if parts, ok := splitLastFirstList(text); ok {
		return parts
	}
	if parts, ok := splitFirstLastList(text); ok {
		return parts
	}
	if parts, ok := splitFirstLastPair(text); ok {
		return parts
	}
	return splitGeneric(text)
}

// splitLastFirstPair handles "Last, First & Last, First".
func splitLastFirstPair(text string) ([]string, bool) {
	m := lastFirstPairPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return []string{
		strings.TrimSpace(m[1]) + ", " + strings.TrimSpace(m[2]),
		strings.TrimSpace(m[3]) + ", " + strings.TrimSpace(m[4]),
	}, true
}

// splitLastFirstList handles "Last, First, Last, First, and Last, First":
// comma-separated tokens pair up as (last, first) with an "and" before the
// final pair.
func splitLastFirstList(text string) ([]string, bool) {
	if !lastFirstListPattern.MatchString(text) {
		return nil, false
	}
	normalized := regexp.MustCompile(`,?\s+and\s+`).ReplaceAllString(text, ", ")
	tokens := strings.Split(normalized, ",")
	if len(tokens)%2 != 0 {
		return nil, false
	}
	var authors []string
	for i := 0; i+1 < len(tokens); i += 2 {
		last := strings.TrimSpace(tokens[i])
		first := strings.TrimSpace(tokens[i+1])
		if last == "" || first == "" {
			return nil, false
		}
		// Pairing only makes sense when both halves are single-ish tokens;
		// a multi-word "first name" means this was really a name list.
		if strings.Count(first, " ") > 1 || strings.Count(last, " ") > 1 {
			return nil, false
		}
		authors = append(authors, last+", "+first)
	}
	return authors, len(authors) >= 2
}

// splitFirstLastList handles "First Last, First Last, and First Last".
func splitFirstLastList(text string) ([]string, bool) {
	if !firstLastListPattern.MatchString(text) {
		return nil, false
	}
	normalized := regexp.MustCompile(`,?\s+and\s+`).ReplaceAllString(text, ", ")
	tokens := strings.Split(normalized, ",")
	var authors []string
	for _, token := range tokens {
		name := strings.TrimSpace(token)
		if name == "" {
			continue
		}
		// Each entry must look like a standalone "First Last" name.
		if !strings.Contains(name, " ") {
			return nil, false
		}
		authors = append(authors, name)
	}
	return authors, len(authors) >= 2
}

// splitFirstLastPair handles "First Last and First Last".
func splitFirstLastPair(text string) ([]string, bool) {
	m := firstLastPairPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return []string{strings.TrimSpace(m[1]), strings.TrimSpace(m[2])}, true
}

// splitGeneric falls back to splitting on "and", commas, and semicolons
// outside parentheses. "Chen, Mary and Rodriguez, Juan" therefore splits at
// the "and" into two "Last, First" names rather than at the commas.
func splitGeneric(text string) []string {
	andParts := splitOutsideParens(text, regexp.MustCompile(`(?i)\s+and\s+|\s*&\s*|\s*;\s*`))
	if len(andParts) > 1 {
		return trimNonEmpty(andParts)
	}
	commaParts := splitOutsideParens(text, regexp.MustCompile(`\s*,\s*`))
	// A single comma is the "Last, First" shape, not a separator.
	if len(commaParts) > 2 {
		return trimNonEmpty(commaParts)
	}
	return []string{strings.TrimSpace(text)}
}

// splitOutsideParens splits text at separator matches whose position is not
// inside parentheses.
func splitOutsideParens(text string, sep *regexp.Regexp) []string {
	depth := make([]int, len(text)+1)
	level := 0
	for i, r := range text {
		depth[i] = level
		switch r {
		case '(', '[':
			level++
		case ')', ']':
			if level > 0 {
				level--
			}
		}
	}
	depth[len(text)] = level

	var parts []string
	start := 0
	for _, loc := range sep.FindAllStringIndex(text, -1) {
		if depth[loc[0]] > 0 {
			continue
		}
		parts = append(parts, text[start:loc[0]])
		start = loc[1]
	}
	parts = append(parts, text[start:])
	return parts
}

func trimNonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// StripQualifications removes professional titles, degrees, and
// institutional affiliations from a name string.
func StripQualifications(name string) string {
	out := name
	for _, pattern := range qualificationPhrases {
		out = pattern.ReplaceAllString(out, "")
	}
	return strings.Trim(strings.TrimSpace(out), ",")
}

// IsOrganization classifies a single author string as an organization.
// Heuristics run in fixed order; the first conclusive signal wins.
func IsOrganization(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}

	// All-caps short acronyms are organizations (UN, NASA, WHO).
	if acronymPattern.MatchString(trimmed) {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, keyword := range organizationKeywords {
		if containsWord(lower, keyword) {
			return true
		}
	}
	for _, keyword := range personQualificationKeywords {
		if strings.Contains(lower, keyword) {
			return false
		}
	}

	// "Last, First" shape is a person signal.
	if m := strings.Count(trimmed, ","); m == 1 {
		halves := strings.SplitN(trimmed, ",", 2)
		if len(strings.Fields(halves[0])) <= 2 && len(strings.Fields(halves[1])) <= 3 {
			return false
		}
	}

	for _, pattern := range organizationShapePatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}

	// Long uncomma'd strings are institutional names, not people.
	if len(strings.Fields(trimmed)) > 4 && !strings.Contains(trimmed, ",") {
		return true
	}

	// Last resort: a recognized given name anywhere marks a person.
	for _, field := range strings.Fields(lower) {
		if commonGivenNames[strings.Trim(field, ".,")] {
			return false
		}
	}

	// One to three capitalized words with no other signal reads as a
	// name; short all-caps org names were already caught by the acronym
	// check.
	return len(strings.Fields(trimmed)) > 3
}

// containsWord reports whether lower contains keyword as a whole word.
func containsWord(lower, keyword string) bool {
	idx := 0
	for {
		pos := strings.Index(lower[idx:], keyword)
		if pos < 0 {
			return false
		}
		pos += idx
		end := pos + len(keyword)
		beforeOK := pos == 0 || !isWordByte(lower[pos-1])
		afterOK := end == len(lower) || !isWordByte(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = pos + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// Decompose splits a single human name into parts. Handles both
// "Last, First Middle" and "First Middle Last" orders, surname affixes, and
// honorific suffixes. Case is normalized only when the input is uniformly
// upper- or lower-case.
func Decompose(name string) Parts {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return Parts{}
	}
	cleaned = normalizeCase(cleaned)

	var parts Parts

	// Peel honorific suffixes from the end.
	tokens := strings.Fields(strings.ReplaceAll(cleaned, ",", " , "))
	for len(tokens) > 0 {
		last := strings.ToLower(strings.TrimSuffix(tokens[len(tokens)-1], ","))
		if honorificSuffixes[last] {
			if parts.Honorific == "" {
				parts.Honorific = strings.TrimSuffix(tokens[len(tokens)-1], ",")
			}
			tokens = tokens[:len(tokens)-1]
			continue
		}
		break
	}

	// Rebuild and split on the comma for "Last, First" order.
	rebuilt := strings.Join(tokens, " ")
	rebuilt = strings.ReplaceAll(rebuilt, " , ", ", ")
	rebuilt = strings.TrimSuffix(strings.TrimSpace(rebuilt), ",")

	if idx := strings.Index(rebuilt, ","); idx >= 0 {
		surname := strings.TrimSpace(rebuilt[:idx])
		given := strings.Fields(strings.TrimSpace(rebuilt[idx+1:]))
		parts.Prefix, parts.Last = splitAffix(surname)
		if len(given) > 0 {
			parts.First = given[0]
		}
		if len(given) > 1 {
			parts.Middle = strings.Join(given[1:], " ")
		}
		return parts
	}

	fields := strings.Fields(rebuilt)
	switch len(fields) {
	case 0:
	case 1:
		parts.Last = fields[0]
	default:
		parts.First = fields[0]
		surnameStart := len(fields) - 1
		// Pull affixes ("van", "de la") into the surname.
		for surnameStart-1 > 0 && nameAffixes[strings.ToLower(fields[surnameStart-1])] {
			surnameStart--
		}
		if surnameStart > 1 {
			parts.Middle = strings.Join(fields[1:surnameStart], " ")
		}
		surname := strings.Join(fields[surnameStart:], " ")
		parts.Prefix, parts.Last = splitAffix(surname)
	}
	return parts
}

// splitAffix separates leading affixes ("van der Berg" -> "van der", "Berg").
func splitAffix(surname string) (prefix, last string) {
	fields := strings.Fields(surname)
	if len(fields) < 2 {
		return "", surname
	}
	split := 0
	for split < len(fields)-1 && nameAffixes[strings.ToLower(fields[split])] {
		split++
	}
	return strings.Join(fields[:split], " "), strings.Join(fields[split:], " ")
}

// normalizeCase title-cases a name only when the input carries no case
// information of its own (all upper or all lower).
func normalizeCase(name string) string {
	upper := strings.ToUpper(name)
	lower := strings.ToLower(name)
	if name != upper && name != lower {
		return name
	}
	var b strings.Builder
	capitalizeNext := true
	for _, r := range lower {
		switch {
		case capitalizeNext && r >= 'a' && r <= 'z':
			b.WriteRune(r - 32)
			capitalizeNext = false
		default:
			b.WriteRune(r)
			if r == ' ' || r == '-' || r == '\'' || r == '.' || r == ',' {
				capitalizeNext = true
			}
		}
	}
	return b.String()
}

// truncateOrganization caps an organization name at maxOrganizationLength,
// cutting at the nearest preceding word boundary.
func truncateOrganization(name string) string {
	if len(name) <= maxOrganizationLength {
		return name
	}
	end := maxOrganizationLength
	for end > 0 && !utf8.RuneStart(name[end]) {
		end--
	}
	cut := name[:end]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;")
}

// GuessFromContext attempts to recover an author from a longer citation
// line using bracketed-name and adjacent-capitalized-word heuristics. An
// empty result means no guess.
func GuessFromContext(text string) string {
	if m := bracketedNamePattern.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimSpace(m[1])
		if candidate != "" && !isPunctuationOnly(candidate) {
			return candidate
		}
	}
	if m := capitalizedPairPattern.FindStringSubmatch(text); m != nil {
		// Surname of the first "First Last" pair in the line.
		return m[2]
	}
	return ""
}

func isPunctuationOnly(s string) bool {
	for _, r := range s {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return false
		}
	}
	return true
}
