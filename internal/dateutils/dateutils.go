// Package dateutils parses the day-first dates found in bank statements.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
	MonthLayout        = "2006-01"
)

// DayFirstFormats are tried in order by ParseDate. Ambiguous slash and dash
// forms are always read day first.
var DayFirstFormats = []string{
	DateLayoutEuropean,
	"2.1.2006",
	"02.01.06",
	"2.1.06",
	DateLayoutISO,
	DateLayoutFull,
	time.RFC3339,
	"02.01.2006 15:04",
	"02.01.2006 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"2006/01/02",
	"02 Jan 2006",
	"2 January 2006",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace.
func CleanDateString(dateStr string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate parses a statement date, day first.
func ParseDate(dateStr string) (time.Time, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, fmt.Errorf("unable to parse date: empty")
	}

	for _, format := range DayFirstFormats {
		if t, err := time.Parse(format, clean); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// MonthKey returns the "YYYY-MM" bucket of t.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// ParseMonthKey validates a "YYYY-MM" bucket.
func ParseMonthKey(month string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(month))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", month, err)
	}
	return t, nil
}

// ToSwissFormat formats a time.Time as DD.MM.YYYY
func ToSwissFormat(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutEuropean)
}
