// Package summarize condenses long resume text into a short summary by
// chunking, per-chunk summarization, and an optional merge pass.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/coverletter-agent/internal/chunking"
	"github.com/jonathan/coverletter-agent/internal/config"
	"github.com/jonathan/coverletter-agent/internal/llm"
	"github.com/jonathan/coverletter-agent/internal/parsing"
)

// Method records how a summary was produced.
type Method string

const (
	// MethodModel means the summarizer model produced the text.
	MethodModel Method = "model"
	// MethodFallback means the model failed and the deterministic
	// sentence-truncation fallback produced the text.
	MethodFallback Method = "fallback"
)

// Result is a summary plus provenance, so callers can distinguish genuine
// model output from degraded output.
type Result struct {
	Text   string
	Method Method
	Chunks int    // Number of chunks summarized (0 for the direct path)
	Reason string // Failure reason when Method is MethodFallback
}

// Assembler drives the summarizer model over input text.
type Assembler struct {
	client  llm.Client
	profile config.Profile

	// Release, when set, is invoked after each model call to free
	// transient inference resources.
	Release func()

	// OnChunks, when set, receives the chunk slice before per-chunk
	// summarization. Used for verbose progress output.
	OnChunks func(chunks []string)
}

// NewAssembler creates an Assembler using the given client and tuning profile.
func NewAssembler(client llm.Client, profile config.Profile) *Assembler {
	return &Assembler{client: client, profile: profile}
}

// Summarize produces a bounded summary of text.
//
// Short input (below the direct threshold) goes to the model in one call.
// Longer input is chunked on word boundaries; each chunk is summarized in
// order and the partial summaries are joined with single spaces. If the
// joined result is still above the merge threshold, one extra pass condenses
// it. Any model failure switches to the deterministic sentence-truncation
// fallback; the fallback itself never calls the model.
func (a *Assembler) Summarize(ctx context.Context, text string) Result {
	clean := parsing.CleanText(text)
	if clean == "" {
		return Result{Text: "", Method: MethodModel}
	}

	if len(clean) <= a.profile.DirectThreshold {
		summary, err := a.client.Summarize(ctx, clean, a.profile.FinalSummaryMax, a.profile.FinalSummaryMin)
		a.release()
		if err != nil {
			return a.fallback(clean, fmt.Errorf("direct summarization: %w", err))
		}
		return Result{Text: strings.TrimSpace(summary), Method: MethodModel}
	}

	chunks := chunking.Chunk(clean, a.profile.ChunkMaxLen)
	if a.OnChunks != nil {
		a.OnChunks(chunks)
	}

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := a.client.Summarize(ctx, chunk, a.profile.ChunkSummaryMax, a.profile.ChunkSummaryMin)
		a.release()
		if err != nil {
			return a.fallback(clean, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err))
		}
		summaries = append(summaries, strings.TrimSpace(summary))
	}

	joined := strings.Join(summaries, " ")
	if len(joined) <= a.profile.MergeThreshold {
		return Result{Text: joined, Method: MethodModel, Chunks: len(chunks)}
	}

	merged, err := a.client.Summarize(ctx, joined, a.profile.FinalSummaryMax, a.profile.FinalSummaryMin)
	a.release()
	if err != nil {
		return a.fallback(clean, fmt.Errorf("merge pass: %w", err))
	}
	return Result{Text: strings.TrimSpace(merged), Method: MethodModel, Chunks: len(chunks)}
}

func (a *Assembler) release() {
	if a.Release != nil {
		a.Release()
	}
}

func (a *Assembler) fallback(text string, cause error) Result {
	return Result{
		Text:   SentenceFallback(text, a.profile.FallbackSentences),
		Method: MethodFallback,
		Reason: cause.Error(),
	}
}
