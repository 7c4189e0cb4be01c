package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Collapses whitespace runs", "built   APIs\n\nin Go\t\tand Rust", "built APIs in Go and Rust"},
		{"Strips stray glyphs", "• Led team ▸ of 5 ★", "Led team of 5"},
		{"Keeps basic punctuation", "Go, Rust; C++? C#! (mostly Go) - 5yrs.", "Go, Rust; C++? C! (mostly Go) - 5yrs."},
		{"Trims edges", "   text   ", "text"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanLines(t *testing.T) {
	in := "  Experience  \n\n\n  Go developer\n   \nPostgres\n"
	assert.Equal(t, "Experience\nGo developer\nPostgres", CleanLines(in))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "", Truncate("abc", -1))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abcd", 2))

	// Never splits a multi-byte rune
	s := "héllo" // é is two bytes
	got := Truncate(s, 2)
	assert.Equal(t, "h", got)

	// An invalid byte before the boundary only affects the boundary rune,
	// not everything after it
	assert.Equal(t, "abc\xffdefg", Truncate("abc\xffdefghij", 8))

	// Boundary landing inside a rune drops just that rune
	assert.Equal(t, "ab", Truncate("abécd", 3))
}
