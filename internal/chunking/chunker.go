// Package chunking splits long text into bounded-size segments for
// summarization models with limited input windows.
package chunking

import "strings"

// DefaultMaxLen is the default maximum chunk length in characters.
const DefaultMaxLen = 800

// Chunk splits text into segments of at most maxLen characters, breaking
// only on whitespace-delimited word boundaries. Words are accumulated into
// the current segment; when appending the next word would push the joined
// length past maxLen, the segment is closed and the overflowing word starts
// the next one. A single word longer than maxLen becomes its own oversized
// segment rather than being split. Order is preserved.
//
// Empty or whitespace-only input returns nil.
func Chunk(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentLen := 0 // joined length of current, including separating spaces

	for _, word := range words {
		joinedLen := currentLen + len(word)
		if len(current) > 0 {
			joinedLen++ // space before word
		}

		if len(current) > 0 && joinedLen > maxLen {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			currentLen = len(word)
			continue
		}

		current = append(current, word)
		currentLen = joinedLen
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}
