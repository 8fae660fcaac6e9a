// Package citation extracts author, year, and author-type information from
// evidence citation lines. The extractor is an ordered chain of pattern
// heuristics with explicit fallbacks: the common "Smith 2023 ..." prefix is
// tried first, then general name recognition, then recovery paths keyed off
// the citation's bold run. Absence of information yields zero values, never
// an error.
package citation

import (
	"encoding/json"
	"fmt"

	"github.com/coolbeans/cardcut/pkg/names"
)

// Year is a citation year. The zero value means unknown; NoDate is the
// explicit "ND" / "No Date" marker.
type Year int

// NoDate marks a citation that explicitly declares it has no date.
const NoDate Year = -1

// Known reports whether the year carries any information (a numeric year or
// an explicit no-date marker).
func (y Year) Known() bool { return y != 0 }

// Numeric reports whether the year is an actual numeric year.
func (y Year) Numeric() bool { return y > 0 }

// String renders the year as digits, "ND", or "" when unknown.
func (y Year) String() string {
	switch {
	case y == NoDate:
		return "ND"
	case y == 0:
		return ""
	default:
		return fmt.Sprintf("%d", int(y))
	}
}

// MarshalJSON encodes a numeric year as a JSON number, NoDate as "ND", and
// an unknown year as null.
func (y Year) MarshalJSON() ([]byte, error) {
	switch {
	case y == NoDate:
		return []byte(`"ND"`), nil
	case y == 0:
		return []byte("null"), nil
	default:
		return []byte(fmt.Sprintf("%d", int(y))), nil
	}
}

// UnmarshalJSON accepts a number, the literal "ND", or null.
func (y *Year) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "ND" {
			*y = NoDate
			return nil
		}
		return fmt.Errorf("invalid year string %q", s)
	}
	if string(data) == "null" {
		*y = 0
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*y = Year(n)
	return nil
}

// FromTwoDigit expands a two-digit year using the century rollover rule:
// values at or below 30 land in the 2000s, the rest in the 1900s.
func FromTwoDigit(twoDigit int) Year {
	if twoDigit <= 30 {
		return Year(2000 + twoDigit)
	}
	return Year(1900 + twoDigit)
}

// Info is the transient result of citation extraction; it is consumed
// directly into a card.
type Info struct {
	Author string           `json:"author,omitempty"`
	Year   Year             `json:"year,omitempty"`
	Type   names.AuthorType `json:"author_type,omitempty"`
}
