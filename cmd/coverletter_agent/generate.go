package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/coverletter-agent/internal/config"
	"github.com/jonathan/coverletter-agent/internal/observability"
	"github.com/jonathan/coverletter-agent/internal/pipeline"
	"github.com/jonathan/coverletter-agent/internal/schemas"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a cover letter from a resume and a job posting",
	Long: `Summarizes the resume, combines the summary with the job description, and
generates a formatted cover letter. The job posting comes from a text file
(--job) or is fetched from a URL (--job-url).

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath string
	genResume     string
	genJob        string
	genJobURL     string
	genCompany    string
	genPosition   string
	genProfile    string
	genOutput     string
	genAPIKey     string
	genUseBrowser bool
	genVerbose    bool
)

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&genResume, "resume", "r", "", "Path to resume file (PDF, DOCX, or TXT)")
	generateCmd.Flags().StringVarP(&genJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	generateCmd.Flags().StringVar(&genJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	generateCmd.Flags().StringVarP(&genCompany, "company", "c", "", "Company name for the letter")
	generateCmd.Flags().StringVarP(&genPosition, "position", "p", "", "Position title for the letter")
	generateCmd.Flags().StringVar(&genProfile, "profile", "", `Tuning preset: "default" or "constrained"`)
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Write the cover letter to a file instead of stdout")
	generateCmd.Flags().BoolVar(&genUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed progress information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(generateCmd)
}

// generateFlags carries the flag values into config resolution, so the merge
// logic is testable without cobra globals.
type generateFlags struct {
	Resume     string
	Job        string
	JobURL     string
	Company    string
	Position   string
	Profile    string
	APIKey     string
	UseBrowser bool
	Verbose    bool

	Changed func(name string) bool
}

// resolveGenerateConfig loads the optional config file, validates it against
// the JSON schema when available, and applies explicit flag overrides.
func resolveGenerateConfig(configPath string, flags generateFlags) (config.Config, error) {
	var cfg config.Config

	if configPath != "" {
		if schemaPath := schemas.ResolveSchemaPath(schemas.ConfigSchemaPath); schemaPath != "" {
			if err := schemas.ValidateJSON(schemaPath, configPath); err != nil {
				return cfg, fmt.Errorf("config file failed schema validation: %w", err)
			}
		}

		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	// Explicitly set flags take priority over config file values
	if flags.Changed("resume") {
		cfg.Resume = flags.Resume
	}
	if flags.Changed("job") {
		cfg.Job = flags.Job
	}
	if flags.Changed("job-url") {
		cfg.JobURL = flags.JobURL
	}
	if flags.Changed("company") {
		cfg.Company = flags.Company
	}
	if flags.Changed("position") {
		cfg.Position = flags.Position
	}
	if flags.Changed("profile") {
		cfg.ProfileName = flags.Profile
	}
	if flags.Changed("api-key") {
		cfg.APIKey = flags.APIKey
	}
	if flags.Changed("use-browser") {
		cfg.UseBrowser = flags.UseBrowser
	}
	if flags.Changed("verbose") {
		cfg.Verbose = flags.Verbose
	}

	if cfg.Resume == "" {
		return cfg, fmt.Errorf("--resume is required (via flag or config)")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return cfg, fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return cfg, fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	return cfg, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveGenerateConfig(genConfigPath, generateFlags{
		Resume:     genResume,
		Job:        genJob,
		JobURL:     genJobURL,
		Company:    genCompany,
		Position:   genPosition,
		Profile:    genProfile,
		APIKey:     genAPIKey,
		UseBrowser: genUseBrowser,
		Verbose:    genVerbose,
		Changed:    cmd.Flags().Changed,
	})
	if err != nil {
		return err
	}

	profile, err := cfg.EffectiveProfile()
	if err != nil {
		return err
	}

	result, err := pipeline.Run(context.Background(), pipeline.RunOptions{
		ResumePath: cfg.Resume,
		JobPath:    cfg.Job,
		JobURL:     cfg.JobURL,
		Company:    cfg.Company,
		Position:   cfg.Position,
		Profile:    profile,
		APIKey:     cfg.APIKey,
		UseBrowser: cfg.UseBrowser,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return err
	}

	if result.Status == pipeline.StatusSummaryOnly {
		observability.NewPrinter(os.Stdout).PrintSummary(result.Summary)
		fmt.Printf("Status: %s\n", result.Status)
		return nil
	}

	if genOutput != "" {
		if err := os.WriteFile(genOutput, []byte(result.CoverLetter.Text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("Cover letter written to %s\n", genOutput)
	} else if !cfg.Verbose {
		// Verbose mode already printed the boxed letter
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintCoverLetter(result.CoverLetter)
	}

	fmt.Printf("Status: %s\n", result.Status)
	return nil
}
