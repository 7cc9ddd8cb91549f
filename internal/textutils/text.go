// Package textutils provides text normalization and matching helpers shared by
// the parsers and the categorizer.
package textutils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var nullLike = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
	"null": {},
	"nat":  {},
	"n/a":  {},
}

// IsNullLike reports whether a cell is empty or holds a spreadsheet placeholder
// such as "nan" or "None".
func IsNullLike(s string) bool {
	_, ok := nullLike[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// TruncateRunes shortens s to at most max runes.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// JoinDistinct trims parts, drops null-like values and exact repeats, and joins
// the rest with sep in their original order.
func JoinDistinct(parts []string, sep string) string {
	seen := make(map[string]struct{}, len(parts))
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if IsNullLike(p) {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		kept = append(kept, p)
	}
	return strings.Join(kept, sep)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ContainsWholeWord reports whether word occurs in text, ignoring case, with
// no letter, digit or underscore directly before or after the occurrence.
func ContainsWholeWord(text, word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return false
	}
	text = strings.ToLower(text)

	offset := 0
	for {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func boundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

// FirstTokens returns the first n whitespace-separated tokens joined by a single space.
func FirstTokens(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
