// Package parsing provides text normalization for model input preparation.
package parsing

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Characters that confuse the downstream models: anything outside
	// word characters, spaces, and basic punctuation.
	strayCharsRe = regexp.MustCompile(`[^\w\s\-.,;:!?'()/@+]`)
)

// CleanText normalizes extracted document text for model input:
// whitespace runs collapse to single spaces and stray non-text characters
// (box-drawing glyphs, bullets, control characters from PDF extraction)
// are removed.
func CleanText(text string) string {
	text = strayCharsRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanLines normalizes multi-line text while keeping line structure:
// each line is trimmed and blank lines are dropped.
func CleanLines(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

// Truncate clips s to at most n bytes. Unlike a raw slice it is safe for n
// beyond len(s) and backs off a multi-byte rune split at the boundary.
// Invalid bytes elsewhere in s pass through untouched.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}

	cut := n
	for cut > 0 && n-cut < utf8.UTFMax-1 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if !utf8.RuneStart(s[cut]) {
		// Not a split rune, just invalid bytes at the boundary
		cut = n
	}
	return s[:cut]
}
