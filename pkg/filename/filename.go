// Package filename extracts category/topic/organization/year metadata from
// structured evidence file names shaped like
// "Category - Topic - Organization YYYY.docx".
package filename

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// segmentDelimiter separates file-name segments. The spaces are part of the
// delimiter so hyphenated topics survive.
const segmentDelimiter = " - "

// trailingYearPattern matches a 4-digit year (1900-2099) at the end of the
// last segment.
var trailingYearPattern = regexp.MustCompile(`\s*\b(19\d{2}|20\d{2})\s*$`)

// Metadata holds the pieces recovered from a file name. Missing pieces stay
// zero-valued; parsing never fails.
type Metadata struct {
	Category     string `json:"category,omitempty"`
	Topic        string `json:"topic,omitempty"`
	Organization string `json:"organization,omitempty"`
	Year         int    `json:"year,omitempty"`
}

// Parse splits a file name into its metadata segments. The first segment is
// the category, a trailing year is stripped from the last segment to leave
// the organization, and any middle segments rejoin as the topic.
func Parse(name string) Metadata {
	var meta Metadata

	base := strings.TrimSpace(name)
	if base == "" {
		return meta
	}
	base = filepath.Base(base)
	if ext := filepath.Ext(base); ext != "" && !allDigits(ext[1:]) {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.TrimSpace(base)
	if base == "" {
		return meta
	}

	segments := strings.Split(base, segmentDelimiter)
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	last := segments[len(segments)-1]
	if m := trailingYearPattern.FindStringSubmatch(last); m != nil {
		meta.Year, _ = strconv.Atoi(m[1])
		last = strings.TrimSpace(trailingYearPattern.ReplaceAllString(last, ""))
	}

	switch len(segments) {
	case 1:
		meta.Category = last
	case 2:
		meta.Category = segments[0]
		meta.Organization = last
	default:
		meta.Category = segments[0]
		meta.Topic = strings.Join(segments[1:len(segments)-1], segmentDelimiter)
		meta.Organization = last
	}
	return meta
}

// allDigits guards against eating a "file.2023" style suffix as an
// extension.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
