package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/coverletter-agent/internal/config"
	"github.com/jonathan/coverletter-agent/internal/docload"
	"github.com/jonathan/coverletter-agent/internal/llm"
	"github.com/jonathan/coverletter-agent/internal/observability"
	"github.com/jonathan/coverletter-agent/internal/summarize"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a resume without generating a letter",
	Long:  `Loads a resume (PDF, DOCX, or TXT), condenses it with the summarizer model, and prints the summary. Long resumes are chunked and summarized piecewise.`,
	RunE:  runSummarize,
}

var (
	sumResume  string
	sumProfile string
	sumAPIKey  string
)

func init() {
	summarizeCmd.Flags().StringVarP(&sumResume, "resume", "r", "", "Path to resume file (PDF, DOCX, or TXT)")
	summarizeCmd.Flags().StringVar(&sumProfile, "profile", "", `Tuning preset: "default" or "constrained"`)
	summarizeCmd.Flags().StringVar(&sumAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	_ = summarizeCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(_ *cobra.Command, _ []string) error {
	apiKey := sumAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	profile, err := config.ProfileByName(sumProfile)
	if err != nil {
		return err
	}

	text, err := docload.LoadFile(sumResume)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	assembler := summarize.NewAssembler(client, profile)
	result := assembler.Summarize(ctx, text)

	observability.NewPrinter(os.Stdout).PrintSummary(result)
	return nil
}
