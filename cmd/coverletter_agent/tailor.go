package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/coverletter-agent/internal/config"
	"github.com/jonathan/coverletter-agent/internal/docload"
	"github.com/jonathan/coverletter-agent/internal/llm"
	"github.com/jonathan/coverletter-agent/internal/pipeline"
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Rewrite a resume bullet to match a job description",
	Long:  `Rewrites a single resume bullet against the requirements of a job posting. On model failure the original bullet is printed unchanged.`,
	RunE:  runTailor,
}

var (
	tailorBullet  string
	tailorJob     string
	tailorProfile string
	tailorAPIKey  string
)

func init() {
	tailorCmd.Flags().StringVarP(&tailorBullet, "bullet", "b", "", "Resume bullet to rewrite")
	tailorCmd.Flags().StringVarP(&tailorJob, "job", "j", "", "Path to job posting text file")
	tailorCmd.Flags().StringVar(&tailorProfile, "profile", "", `Tuning preset: "default" or "constrained"`)
	tailorCmd.Flags().StringVar(&tailorAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	_ = tailorCmd.MarkFlagRequired("bullet")
	_ = tailorCmd.MarkFlagRequired("job")
	rootCmd.AddCommand(tailorCmd)
}

func runTailor(_ *cobra.Command, _ []string) error {
	apiKey := tailorAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	profile, err := config.ProfileByName(tailorProfile)
	if err != nil {
		return err
	}

	jobText, err := docload.LoadFile(tailorJob)
	if err != nil {
		return fmt.Errorf("failed to load job posting: %w", err)
	}

	ctx := context.Background()
	client, err := llm.NewClient(ctx, nil, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	rewritten, err := pipeline.TailorBullet(ctx, client, tailorBullet, jobText, profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (keeping original bullet)\n", err)
	}

	fmt.Println(rewritten)
	return nil
}
