// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/coverletter-agent/internal/letter"
	"github.com/jonathan/coverletter-agent/internal/summarize"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxChunksToShow is the number of chunks displayed in full
	maxChunksToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintChunks outputs the chunks produced for summarization.
func (p *Printer) PrintChunks(chunks []string) {
	if len(chunks) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Split input into %d chunks:\n\n", len(chunks)))

	count := min(len(chunks), maxChunksToShow)
	for i := 0; i < count; i++ {
		preview := chunks[i]
		if len(preview) > 45 {
			preview = preview[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d (%d chars) %s\n", i+1, len(chunks[i]), preview))
	}

	if len(chunks) > maxChunksToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more chunks", len(chunks)-maxChunksToShow))
	}

	p.printBox("TEXT CHUNKS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the assembled resume summary with its provenance.
func (p *Printer) PrintSummary(result summarize.Result) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Method:  %s\n", result.Method))
	if result.Chunks > 0 {
		sb.WriteString(fmt.Sprintf("Chunks:  %d\n", result.Chunks))
	}
	if result.Reason != "" {
		sb.WriteString(fmt.Sprintf("Reason:  %s\n", result.Reason))
	}
	sb.WriteString("\n")
	sb.WriteString(result.Text)

	p.printBox("RESUME SUMMARY", sb.String())
}

// PrintCoverLetter outputs the final cover letter with its provenance.
func (p *Printer) PrintCoverLetter(result letter.Result) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Method:  %s\n", result.Method))
	if result.Reason != "" {
		sb.WriteString(fmt.Sprintf("Reason:  %s\n", result.Reason))
	}
	sb.WriteString("\n")
	sb.WriteString(result.Text)

	p.printBox("COVER LETTER", sb.String())
}

// PrintPrompt outputs the generation prompt sent to the model.
func (p *Printer) PrintPrompt(prompt string) {
	p.printBox("GENERATION PROMPT", prompt)
}

// PrintJobDescription outputs a preview of the acquired job description.
func (p *Printer) PrintJobDescription(text string) {
	preview := text
	const maxPreview = 600
	if len(preview) > maxPreview {
		preview = preview[:maxPreview] + "\n..."
	}
	p.printBox(fmt.Sprintf("JOB DESCRIPTION (%d chars)", len(text)), preview)
}
