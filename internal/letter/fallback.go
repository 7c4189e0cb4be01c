package letter

import (
	"fmt"

	"github.com/jonathan/coverletter-agent/internal/parsing"
)

// FallbackLetter builds the deterministic cover letter used when generation
// fails. It never calls a model.
func FallbackLetter(summary, company string) string {
	companyPart := ""
	if company != "" {
		companyPart = " at " + company
	}

	return fmt.Sprintf(`Dear Hiring Manager,

I am excited to apply for this position%s. Based on my background in %s, I believe I would be a strong fit for your team.

The job requirements align well with my experience, particularly in the areas mentioned in your posting. I am eager to contribute my skills and learn from your team.

Thank you for considering my application. I look forward to discussing this opportunity further.

Best regards,
[Your Name]`, companyPart, parsing.Truncate(summary, 100))
}
