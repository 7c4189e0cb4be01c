package summarize

import "strings"

// SentenceFallback returns the first n sentences of text, split on periods
// and rejoined with ". " plus a trailing period. It is deterministic and
// makes no model calls; it is the degraded substitute when summarization
// fails.
func SentenceFallback(text string, n int) string {
	if n <= 0 {
		n = 1
	}

	var kept []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		kept = append(kept, s)
		if len(kept) == n {
			break
		}
	}

	if len(kept) == 0 {
		return ""
	}
	return strings.Join(kept, ". ") + "."
}
