package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/coverletter-agent/internal/letter"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract and format a cover letter from raw model output",
	Long:  `Recovers the letter body from a file of raw model output (discarding any echoed prompt), applies formatting guarantees, and prints the result. Never calls a model.`,
	RunE:  runExtract,
}

var (
	extDraft   string
	extPrompt  string
	extCompany string
)

func init() {
	extractCmd.Flags().StringVar(&extDraft, "draft", "", "Path to a file containing raw model output")
	extractCmd.Flags().StringVar(&extPrompt, "prompt", "", "Path to the prompt file the model continued (optional)")
	extractCmd.Flags().StringVar(&extCompany, "company", "", "Company name for the closing paragraph")
	_ = extractCmd.MarkFlagRequired("draft")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(_ *cobra.Command, _ []string) error {
	draft, err := os.ReadFile(extDraft)
	if err != nil {
		return fmt.Errorf("failed to read draft file: %w", err)
	}

	var prompt []byte
	if extPrompt != "" {
		prompt, err = os.ReadFile(extPrompt)
		if err != nil {
			return fmt.Errorf("failed to read prompt file: %w", err)
		}
	}

	body, err := letter.Extract(string(draft), string(prompt))
	if err != nil {
		return err
	}

	fmt.Println(letter.Format(body, extCompany, ""))
	return nil
}
