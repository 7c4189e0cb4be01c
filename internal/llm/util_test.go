package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain text untouched", "Dear Hiring Manager,\n\nI am excited", "Dear Hiring Manager,\n\nI am excited"},
		{"Generic fences stripped", "```\nsome letter text\n```", "some letter text"},
		{"Language identifier skipped", "```text\nsome letter text\n```", "some letter text"},
		{"Surrounding whitespace trimmed", "  \n```\nbody\n```\n ", "body"},
		{"Empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanFences(tt.input))
		})
	}
}
