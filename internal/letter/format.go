package letter

import (
	"regexp"
	"strings"
)

// Salutation is the canonical opening prepended when the body lacks one.
const Salutation = "Dear Hiring Manager,"

// closingPhrases are matched case-insensitively anywhere in the text; if
// none appears, a canonical closing paragraph is appended.
var closingPhrases = []string{"sincerely", "best regards", "thank you"}

var blankRunRe = regexp.MustCompile(`\n\s*\n\s*\n+`)

// Format applies the formatting guarantees to an extracted letter body:
// a salutation at the top, a closing paragraph at the bottom, and no runs
// of three or more line breaks. It is idempotent on well-formed letters.
func Format(body, company, _ string) string {
	body = strings.TrimSpace(body)

	if !strings.HasPrefix(body, "Dear") {
		body = Salutation + "\n\n" + body
	}

	if !hasClosing(body) {
		target := "your team"
		if company != "" {
			target = company
		}
		body += "\n\nThank you for considering my application. I look forward to discussing how my experience can contribute to " + target + ".\n\nBest regards,\n[Your Name]"
	}

	body = blankRunRe.ReplaceAllString(body, "\n\n")

	return strings.TrimSpace(body)
}

func hasClosing(body string) bool {
	lower := strings.ToLower(body)
	for _, phrase := range closingPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
