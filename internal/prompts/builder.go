package prompts

import (
	"github.com/jonathan/coverletter-agent/internal/config"
	"github.com/jonathan/coverletter-agent/internal/parsing"
)

// coverLetterFile is the embedded template file for this package's builders.
const coverLetterFile = "coverletter.json"

// RewriteMarker separates the instruction from the rewritten bullet in
// generated output; callers split on it to recover the rewrite.
const RewriteMarker = "Rewrite this experience to better match the job requirements:"

// BuildCoverLetter renders the cover letter generation prompt. The summary
// and job description are clipped to the profile's limits before
// substitution; empty company/position fall back to neutral phrases so the
// prompt never contains dangling clauses. The rendered prompt deliberately
// ends mid-sentence ("I have experience with") so the model continues the
// letter instead of restarting its structure.
func BuildCoverLetter(summary, jobDescription, company, position string, p config.Profile) string {
	positionPart := "for this position"
	if position != "" {
		positionPart = "for the " + position + " position"
	}

	companyPart := ""
	if company != "" {
		companyPart = " at " + company
	}

	companyLine := company
	if companyLine == "" {
		companyLine = "this company"
	}

	positionLine := position
	if positionLine == "" {
		positionLine = "this role"
	}

	return Format(MustGet(coverLetterFile, "cover_letter"), map[string]string{
		"Summary":        parsing.Truncate(summary, p.SummaryClip),
		"JobDescription": parsing.Truncate(jobDescription, p.JobDescClip),
		"Company":        companyLine,
		"Position":       positionLine,
		"PositionPart":   positionPart,
		"CompanyPart":    companyPart,
	})
}

// BuildBulletRewrite renders the prompt that rewrites a single resume
// bullet against the job requirements.
func BuildBulletRewrite(bullet, jobDescription string, p config.Profile) string {
	return Format(MustGet(coverLetterFile, "bullet_rewrite"), map[string]string{
		"Bullet":         bullet,
		"JobDescription": parsing.Truncate(jobDescription, p.JobDescClip),
	})
}
