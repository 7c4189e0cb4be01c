package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changedNone(string) bool { return false }

func changedOnly(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return func(name string) bool { return set[name] }
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveGenerateConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	t.Run("Flags only", func(t *testing.T) {
		resume := writeTempFile(t, "resume.txt", "resume text")

		cfg, err := resolveGenerateConfig("", generateFlags{
			Resume:  resume,
			JobURL:  "https://jobs.lever.co/acme/1",
			Company: "Acme",
			Changed: changedOnly("resume", "job-url", "company"),
		})
		require.NoError(t, err)

		assert.Equal(t, resume, cfg.Resume)
		assert.Equal(t, "https://jobs.lever.co/acme/1", cfg.JobURL)
		assert.Equal(t, "Acme", cfg.Company)
		assert.Equal(t, "env-key", cfg.APIKey)
	})

	t.Run("Config file provides defaults", func(t *testing.T) {
		dir := t.TempDir()
		resume := filepath.Join(dir, "resume.txt")
		require.NoError(t, os.WriteFile(resume, []byte("resume"), 0o600))

		configPath := filepath.Join(dir, "config.json")
		require.NoError(t, os.WriteFile(configPath, []byte(`{
			"resume": "`+resume+`",
			"company": "FileCo",
			"profile": "constrained"
		}`), 0o600))

		cfg, err := resolveGenerateConfig(configPath, generateFlags{Changed: changedNone})
		require.NoError(t, err)

		assert.Equal(t, resume, cfg.Resume)
		assert.Equal(t, "FileCo", cfg.Company)
		assert.Equal(t, "constrained", cfg.ProfileName)
	})

	t.Run("Explicit flags override config file", func(t *testing.T) {
		dir := t.TempDir()
		resume := filepath.Join(dir, "resume.txt")
		require.NoError(t, os.WriteFile(resume, []byte("resume"), 0o600))

		configPath := filepath.Join(dir, "config.json")
		require.NoError(t, os.WriteFile(configPath, []byte(`{
			"resume": "`+resume+`",
			"company": "FileCo"
		}`), 0o600))

		cfg, err := resolveGenerateConfig(configPath, generateFlags{
			Company: "FlagCo",
			Changed: changedOnly("company"),
		})
		require.NoError(t, err)
		assert.Equal(t, "FlagCo", cfg.Company)
	})

	t.Run("Missing resume", func(t *testing.T) {
		_, err := resolveGenerateConfig("", generateFlags{Changed: changedNone})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--resume is required")
	})

	t.Run("Job and job URL are mutually exclusive", func(t *testing.T) {
		resume := writeTempFile(t, "resume.txt", "resume")
		job := writeTempFile(t, "job.txt", "jd")

		_, err := resolveGenerateConfig("", generateFlags{
			Resume:  resume,
			Job:     job,
			JobURL:  "https://example.com/j",
			Changed: changedOnly("resume", "job", "job-url"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("Missing API key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		resume := writeTempFile(t, "resume.txt", "resume")

		_, err := resolveGenerateConfig("", generateFlags{
			Resume:  resume,
			Changed: changedOnly("resume"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	})

	t.Run("Flag API key beats environment", func(t *testing.T) {
		resume := writeTempFile(t, "resume.txt", "resume")

		cfg, err := resolveGenerateConfig("", generateFlags{
			Resume:  resume,
			APIKey:  "flag-key",
			Changed: changedOnly("resume", "api-key"),
		})
		require.NoError(t, err)
		assert.Equal(t, "flag-key", cfg.APIKey)
	})

	t.Run("Broken config file", func(t *testing.T) {
		configPath := writeTempFile(t, "config.json", `{not json`)

		_, err := resolveGenerateConfig(configPath, generateFlags{Changed: changedNone})
		require.Error(t, err)
	})
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"generate", "summarize", "extract", "tailor", "serve"} {
		assert.True(t, names[want], "command %q should be registered", want)
	}
}
