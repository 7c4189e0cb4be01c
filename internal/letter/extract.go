// Package letter recovers a cover letter body from raw model output and
// enforces formatting guarantees on it.
package letter

import (
	"errors"
	"strings"
)

// ErrExtractionEmpty is returned when no letter body can be recovered from
// the model output: no opening marker was found and the output is no longer
// than the prompt it was asked to continue. Callers should fall back to the
// deterministic letter instead of showing degenerate text.
var ErrExtractionEmpty = errors.New("no letter body found in generated text")

// startMarkers are canonical opening phrases, in priority order. Matching
// one lets us discard any echoed prompt text that precedes the real body.
var startMarkers = []string{
	"Dear Hiring Manager",
	"I am writing to express",
}

// Extract locates the letter body inside draft. If an opening marker is
// present the body starts there (marker included). Otherwise, when the
// draft extends past the prompt, the body is the suffix beyond the prompt
// length. A draft that yields no usable body returns ErrExtractionEmpty.
func Extract(draft, prompt string) (string, error) {
	for _, marker := range startMarkers {
		if idx := strings.Index(draft, marker); idx >= 0 {
			return draft[idx:], nil
		}
	}

	if len(draft) > len(prompt) {
		body := strings.TrimSpace(draft[len(prompt):])
		if body == "" {
			return "", ErrExtractionEmpty
		}
		return body, nil
	}

	if strings.TrimSpace(draft) == "" || draft == prompt {
		return "", ErrExtractionEmpty
	}

	return draft, nil
}
