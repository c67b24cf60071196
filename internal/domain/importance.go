package domain

import (
	"strconv"
	"strings"
)

// leastImportant is the sort key assigned to ratings the model returned in a
// shape we cannot order (sentinels, prose, negative numbers).
const leastImportant = 10

// Importance holds a business-importance rating as returned by the model.
// The raw string is what gets stored; the parsed value exists only to order
// articles (1 is most important).
type Importance struct {
	Raw    string
	value  float64
	parsed bool
}

// ParseImportance accepts a raw rating string. A rating is orderable when,
// after removing at most one decimal point, only digits remain.
func ParseImportance(raw string) Importance {
	imp := Importance{Raw: raw}

	stripped := strings.Replace(raw, ".", "", 1)
	if stripped == "" || strings.ContainsFunc(stripped, func(r rune) bool { return r < '0' || r > '9' }) {
		return imp
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return imp
	}

	imp.value = value
	imp.parsed = true
	return imp
}

// Parsed reports whether the rating was a clean non-negative numeral.
func (i Importance) Parsed() bool {
	return i.parsed
}

// SortKey returns the value used to order articles; unorderable ratings rank
// last.
func (i Importance) SortKey() float64 {
	if !i.parsed {
		return leastImportant
	}
	return i.value
}
