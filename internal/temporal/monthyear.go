package temporal

import (
	"regexp"
	"strings"
	"time"
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
}

var yearRe = regexp.MustCompile(`\b\d{4}\b`)
var dayRe = regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)?\b`)

// IsMonthYearExpression reports whether expr names a month and a year but
// no day, e.g. "February 1987" or "Feb 1987". Such expressions resolve to
// a full-month range rather than a single day.
func IsMonthYearExpression(expr string) bool {
	lower := strings.ToLower(expr)

	hasMonth := false
	for _, m := range monthNames {
		if containsWord(lower, m) {
			hasMonth = true
			break
		}
	}
	if !hasMonth {
		return false
	}

	if !yearRe.MatchString(lower) {
		return false
	}

	// Any standalone 1-2 digit token means a day is present.
	return !dayRe.MatchString(lower)
}

// MonthRange returns the first and last instants of the month containing t.
func MonthRange(t time.Time) (from, to time.Time) {
	from = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	to = from.AddDate(0, 1, 0).Add(-time.Second)
	return from, to
}

// DayRange returns the bounds of the calendar day containing t.
func DayRange(t time.Time) (from, to time.Time) {
	from = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	to = from.AddDate(0, 0, 1).Add(-time.Second)
	return from, to
}

func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isAlpha(s[start-1])
		afterOK := end == len(s) || !isAlpha(s[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
