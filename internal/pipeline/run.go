// Package pipeline provides the high-level orchestration for cover letter
// generation: input acquisition, summarization, prompting, generation, and
// letter extraction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/coverletter-agent/internal/config"
	"github.com/jonathan/coverletter-agent/internal/docload"
	"github.com/jonathan/coverletter-agent/internal/fetch"
	"github.com/jonathan/coverletter-agent/internal/letter"
	"github.com/jonathan/coverletter-agent/internal/llm"
	"github.com/jonathan/coverletter-agent/internal/observability"
	"github.com/jonathan/coverletter-agent/internal/parsing"
	"github.com/jonathan/coverletter-agent/internal/prompts"
	"github.com/jonathan/coverletter-agent/internal/summarize"
)

// Step identifiers reported through progress events.
const (
	StepInputs  = "inputs"
	StepSummary = "summary"
	StepPrompt  = "prompt"
	StepLetter  = "letter"
)

// Status strings returned by the pipeline. Degraded paths report a status
// instead of failing the run.
const (
	StatusComplete        = "processing complete"
	StatusLetterFallback  = "processing complete (fallback letter used)"
	StatusSummaryFallback = "processing complete (summary fallback used)"
	StatusSummaryOnly     = "summary only (no job description provided)"
)

// MaxTailoredBulletLen caps the length of a rewritten resume bullet.
const MaxTailoredBulletLen = 200

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds the inputs and configuration for a pipeline run.
// Resume input comes from ResumeText or ResumePath; job input comes from
// JobText, JobPath, or JobURL. An absent job input produces a summary-only
// run.
type RunOptions struct {
	ResumePath string
	ResumeText string
	JobPath    string
	JobURL     string
	JobText    string
	Company    string
	Position   string
	Profile    config.Profile
	APIKey     string
	Client     llm.Client // Optional: injected client; when nil, one is created from APIKey
	UseBrowser bool
	Verbose    bool
	Out        io.Writer // Verbose output destination; defaults to os.Stdout
	OnProgress ProgressCallback
}

// Result holds the outputs of a pipeline run.
type Result struct {
	Summary        summarize.Result
	CoverLetter    letter.Result
	Prompt         string
	JobDescription string
	Status         string
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:    step,
			Message: message,
			Content: content,
		})
	}
}

// Run executes the cover letter pipeline. Model failures degrade to
// deterministic fallbacks and are reported through Result.Status; an error
// return means the inputs themselves could not be acquired.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	printer := observability.NewPrinter(out)

	client := opts.Client
	if client == nil {
		created, err := llm.NewClient(ctx, nil, opts.APIKey)
		if err != nil {
			return nil, fmt.Errorf("creating LLM client: %w", err)
		}
		defer func() { _ = created.Close() }()
		client = created
	}

	// Resume and job inputs are independent; acquire them in parallel.
	// The job branch may hit the network (URL fetch), the resume branch
	// may parse a PDF or DOCX.
	g, gCtx := errgroup.WithContext(ctx)

	var resumeText, jobText string

	g.Go(func() error {
		text, err := resolveResume(opts)
		if err != nil {
			return fmt.Errorf("resume input: %w", err)
		}
		resumeText = text
		return nil
	})

	g.Go(func() error {
		text, err := resolveJob(gCtx, opts)
		if err != nil {
			return fmt.Errorf("job input: %w", err)
		}
		jobText = text
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	emitProgress(&opts, StepInputs,
		fmt.Sprintf("Acquired inputs: %d resume chars, %d job chars", len(resumeText), len(jobText)), nil)
	if opts.Verbose && jobText != "" {
		printer.PrintJobDescription(jobText)
	}

	assembler := summarize.NewAssembler(client, opts.Profile)
	if opts.Verbose {
		assembler.OnChunks = printer.PrintChunks
	}
	summary := assembler.Summarize(ctx, resumeText)
	if opts.Verbose {
		printer.PrintSummary(summary)
	}
	emitProgress(&opts, StepSummary,
		fmt.Sprintf("Summarized resume (%s, %d chunks)", summary.Method, summary.Chunks), summary)

	result := &Result{
		Summary:        summary,
		JobDescription: jobText,
	}

	if jobText == "" {
		result.Status = StatusSummaryOnly
		return result, nil
	}

	prompt := prompts.BuildCoverLetter(summary.Text, jobText, opts.Company, opts.Position, opts.Profile)
	result.Prompt = prompt
	if opts.Verbose {
		printer.PrintPrompt(prompt)
	}
	emitProgress(&opts, StepPrompt, fmt.Sprintf("Built generation prompt (%d chars)", len(prompt)), nil)

	result.CoverLetter = generateLetter(ctx, client, prompt, summary.Text, opts)
	if opts.Verbose {
		printer.PrintCoverLetter(result.CoverLetter)
	}
	emitProgress(&opts, StepLetter,
		fmt.Sprintf("Produced cover letter (%s)", result.CoverLetter.Method), result.CoverLetter)

	result.Status = statusFor(summary.Method, result.CoverLetter.Method)
	return result, nil
}

// generateLetter runs generation and extraction, degrading to the
// deterministic fallback letter on any failure.
func generateLetter(ctx context.Context, client llm.Client, prompt, summary string, opts RunOptions) letter.Result {
	p := opts.Profile

	draft, err := client.Generate(ctx, prompt, llm.GenerationParams{
		Temperature:       p.Temperature,
		TopP:              p.TopP,
		RepetitionPenalty: p.RepetitionPenalty,
		MaxNewWords:       p.MaxNewWords,
	})
	if err != nil {
		return letter.Result{
			Text:   letter.FallbackLetter(summary, opts.Company),
			Method: letter.MethodFallback,
			Reason: fmt.Sprintf("generation failed: %v", err),
		}
	}

	body, err := letter.Extract(draft, prompt)
	if err != nil {
		if !errors.Is(err, letter.ErrExtractionEmpty) {
			// Extraction only fails with the empty sentinel today; treat
			// anything else the same way.
			err = fmt.Errorf("extraction failed: %w", err)
		}
		return letter.Result{
			Text:   letter.FallbackLetter(summary, opts.Company),
			Method: letter.MethodFallback,
			Reason: err.Error(),
		}
	}

	return letter.Result{
		Text:   letter.Format(body, opts.Company, opts.Position),
		Method: letter.MethodModel,
	}
}

func statusFor(summaryMethod summarize.Method, letterMethod letter.Method) string {
	switch {
	case letterMethod == letter.MethodFallback:
		return StatusLetterFallback
	case summaryMethod == summarize.MethodFallback:
		return StatusSummaryFallback
	default:
		return StatusComplete
	}
}

func resolveResume(opts RunOptions) (string, error) {
	switch {
	case opts.ResumeText != "":
		return opts.ResumeText, nil
	case opts.ResumePath != "":
		return docload.LoadFile(opts.ResumePath)
	default:
		return "", fmt.Errorf("no resume text or file provided")
	}
}

func resolveJob(ctx context.Context, opts RunOptions) (string, error) {
	switch {
	case opts.JobText != "":
		return opts.JobText, nil
	case opts.JobPath != "":
		return docload.LoadFile(opts.JobPath)
	case opts.JobURL != "":
		fetchOpts := fetch.DefaultOptions()
		fetchOpts.UseBrowser = opts.UseBrowser
		fetchOpts.Verbose = opts.Verbose
		return fetch.JobPosting(ctx, opts.JobURL, fetchOpts)
	default:
		// Summary-only run
		return "", nil
	}
}

// TailorBullet rewrites a single resume bullet against a job description.
// The returned string is always usable: on any failure it is the original
// bullet, with the cause in the error.
func TailorBullet(ctx context.Context, client llm.Client, bullet, jobDescription string, p config.Profile) (string, error) {
	prompt := prompts.BuildBulletRewrite(bullet, jobDescription, p)

	out, err := client.Generate(ctx, prompt, llm.GenerationParams{
		Temperature:       p.Temperature,
		TopP:              p.TopP,
		RepetitionPenalty: p.RepetitionPenalty,
		MaxNewWords:       p.MaxNewWords,
	})
	if err != nil {
		return bullet, fmt.Errorf("bullet rewrite failed: %w", err)
	}

	// Causal models echo the prompt; keep only what follows the final
	// instruction marker.
	if idx := strings.LastIndex(out, prompts.RewriteMarker); idx >= 0 {
		out = out[idx+len(prompts.RewriteMarker):]
	}

	rewritten := parsing.Truncate(strings.TrimSpace(out), MaxTailoredBulletLen)
	if rewritten == "" {
		return bullet, fmt.Errorf("bullet rewrite produced no text")
	}

	return rewritten, nil
}
