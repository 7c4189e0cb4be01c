// Package types provides the request and response types for the cover
// letter generation API.
package types

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrJobSourceRequired is returned when a request supplies neither a job
// description nor a job posting URL.
var ErrJobSourceRequired = errors.New("either job_description or job_url is required")

// ErrJobSourceConflict is returned when a request supplies both a job
// description and a job posting URL.
var ErrJobSourceConflict = errors.New("job_description and job_url are mutually exclusive")

// GenerateRequest is the request body for cover letter generation.
// Exactly one of JobDescription or JobURL must be set.
type GenerateRequest struct {
	ResumeText     string  `json:"resume_text" validate:"required,min=1"`
	JobDescription string  `json:"job_description,omitempty"`
	JobURL         string  `json:"job_url,omitempty" validate:"omitempty,url"`
	Company        string  `json:"company,omitempty"`
	Position       string  `json:"position,omitempty"`
	Profile        string  `json:"profile,omitempty" validate:"omitempty,oneof=default constrained"`
	UseBrowser     bool    `json:"use_browser,omitempty"`
	Temperature    float32 `json:"temperature,omitempty" validate:"omitempty,gt=0,lte=2"`
}

// GenerateResponse is the response body for cover letter generation.
type GenerateResponse struct {
	CoverLetter string `json:"cover_letter"`
	Summary     string `json:"summary"`
	Status      string `json:"status"`
	RequestID   string `json:"request_id"`
}

// SummarizeRequest is the request body for standalone summarization.
type SummarizeRequest struct {
	Text    string `json:"text" validate:"required,min=1"`
	Profile string `json:"profile,omitempty" validate:"omitempty,oneof=default constrained"`
}

// SummarizeResponse is the response body for standalone summarization.
type SummarizeResponse struct {
	Summary   string `json:"summary"`
	Method    string `json:"method"`
	Chunks    int    `json:"chunks"`
	RequestID string `json:"request_id"`
}

// ExtractRequest is the request body for extracting and formatting a cover
// letter from raw model output.
type ExtractRequest struct {
	Draft   string `json:"draft" validate:"required,min=1"`
	Prompt  string `json:"prompt,omitempty"`
	Company string `json:"company,omitempty"`
}

// ExtractResponse is the response body for cover letter extraction.
type ExtractResponse struct {
	CoverLetter string `json:"cover_letter"`
	RequestID   string `json:"request_id"`
}

// TailorRequest is the request body for rewriting a resume bullet against a
// job description.
type TailorRequest struct {
	Bullet         string `json:"bullet" validate:"required,min=1"`
	JobDescription string `json:"job_description" validate:"required,min=1"`
	Profile        string `json:"profile,omitempty" validate:"omitempty,oneof=default constrained"`
}

// TailorResponse is the response body for bullet tailoring.
type TailorResponse struct {
	Bullet    string `json:"bullet"`
	RequestID string `json:"request_id"`
}

// HealthResponse is the response body for the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// Validate validates the GenerateRequest, including the one-of constraint on
// the job source fields.
func (r *GenerateRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.JobDescription == "" && r.JobURL == "" {
		return ErrJobSourceRequired
	}
	if r.JobDescription != "" && r.JobURL != "" {
		return ErrJobSourceConflict
	}
	return nil
}

// Validate validates the SummarizeRequest using the validator.
func (r *SummarizeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ExtractRequest using the validator.
func (r *ExtractRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TailorRequest using the validator.
func (r *TailorRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
