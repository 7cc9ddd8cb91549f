package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNullLike(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", true},
		{"   ", true},
		{"nan", true},
		{"NaN", true},
		{" None ", true},
		{"null", true},
		{"n/a", true},
		{"0", false},
		{"nano", false},
		{"REWE", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNullLike(tt.input))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"shorter", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"longer", "abcdef", 5, "abcde"},
		{"multibyte", "Müller Straße", 8, "Müller S"},
		{"zero", "abc", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateRunes(tt.input, tt.max))
		})
	}
}

func TestJoinDistinct(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{"drops nan and repeats", []string{"REWE", " nan ", "REWE ", "Kartenzahlung"}, "REWE | Kartenzahlung"},
		{"case sensitive repeats kept", []string{"Rewe", "REWE"}, "Rewe | REWE"},
		{"nothing left", []string{"", "None", "null"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinDistinct(tt.parts, " | "))
		})
	}
}

func TestContainsWholeWord(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		word     string
		expected bool
	}{
		{"inside a word", "I bought a TED bear", "ed", false},
		{"wedding", "wedding gift", "ed", false},
		{"plain hit", "paid at rewe market", "rewe", true},
		{"case folded", "AMAZON.DE MARKETPLACE", "amazon", true},
		{"punctuation boundary", "Zahlung an REWE, Berlin", "rewe", true},
		{"digit boundary", "REWE123", "rewe", false},
		{"underscore boundary", "my_rewe", "rewe", false},
		{"umlaut is a letter", "müller", "ller", false},
		{"umlaut keyword", "Einkauf bei Müller GmbH", "müller", true},
		{"later occurrence matches", "reweX rewe", "rewe", true},
		{"multi word keyword", "Netflix Abo monatlich", "netflix abo", true},
		{"empty keyword", "anything", "", false},
		{"start and end", "ed", "ed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsWholeWord(tt.text, tt.word))
		})
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Vormerkung: Kartenzahlung", "VORMERKUNG"))
	assert.False(t, ContainsFold("Kartenzahlung", "reservierung"))
}

func TestFirstTokens(t *testing.T) {
	assert.Equal(t, "rewe filiale", FirstTokens("rewe   filiale 123", 2))
	assert.Equal(t, "rewe", FirstTokens(" rewe ", 2))
	assert.Equal(t, "", FirstTokens("   ", 2))
}
