// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanFences removes markdown code fence wrappers from model output.
// Models sometimes wrap plain-text answers in ``` blocks even when
// instructed not to.
func CleanFences(text string) string {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Skip potential language identifier on first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		// If first line looks like a language identifier (no spaces, short), skip it
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
