// Package main provides the entry point for the cover letter agent CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coverletter_agent",
	Short: "Cover letter generation from a resume and a job posting",
	Long:  "Generates tailored cover letters by summarizing a resume, combining it with a job description, and prompting a language model, with deterministic fallbacks when the model is unavailable.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
