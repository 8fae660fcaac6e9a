package filename

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected Metadata
	}{
		{
			name:  "category topic organization year",
			input: "Aff - Climate Change - Michigan 2023.docx",
			expected: Metadata{
				Category:     "Aff",
				Topic:        "Climate Change",
				Organization: "Michigan",
				Year:         2023,
			},
		},
		{
			name:  "multiple middle segments rejoin as topic",
			input: "Neg - Econ - Trade War - Harvard 2024.docx",
			expected: Metadata{
				Category:     "Neg",
				Topic:        "Econ - Trade War",
				Organization: "Harvard",
				Year:         2024,
			},
		},
		{
			name:     "two segments",
			input:    "Aff - Michigan.docx",
			expected: Metadata{Category: "Aff", Organization: "Michigan"},
		},
		{
			name:     "single segment is the category",
			input:    "Climate Evidence.html",
			expected: Metadata{Category: "Climate Evidence"},
		},
		{
			name:     "single segment with year",
			input:    "Climate Evidence 2021.docx",
			expected: Metadata{Category: "Climate Evidence", Year: 2021},
		},
		{
			name:     "no extension",
			input:    "Aff - Climate - Michigan 2023",
			expected: Metadata{Category: "Aff", Topic: "Climate", Organization: "Michigan", Year: 2023},
		},
		{
			name:     "path components stripped",
			input:    "/tmp/uploads/Aff - Climate - Michigan 2023.docx",
			expected: Metadata{Category: "Aff", Topic: "Climate", Organization: "Michigan", Year: 2023},
		},
		{
			name:     "year outside range ignored",
			input:    "Aff - Michigan 1850.docx",
			expected: Metadata{Category: "Aff", Organization: "Michigan 1850"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: Metadata{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Parse(tc.input); got != tc.expected {
				t.Errorf("Parse(%q):\nexpected %+v\n     got %+v", tc.input, tc.expected, got)
			}
		})
	}
}
