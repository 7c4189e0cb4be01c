// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Profile carries every tunable that differed across deployment environments:
// chunking bounds, summarization length windows, prompt clipping, and
// generation sampling parameters. One code path, parameterized.
type Profile struct {
	// Chunking and summarization
	ChunkMaxLen     int `json:"chunk_max_len,omitempty"`     // Maximum chunk size in characters
	DirectThreshold int `json:"direct_threshold,omitempty"`  // Below this, summarize without chunking
	ChunkSummaryMax int `json:"chunk_summary_max,omitempty"` // Per-chunk summary max words
	ChunkSummaryMin int `json:"chunk_summary_min,omitempty"` // Per-chunk summary min words
	MergeThreshold  int `json:"merge_threshold,omitempty"`   // Re-summarize joined summaries above this length
	FinalSummaryMax int `json:"final_summary_max,omitempty"` // Final summary max words
	FinalSummaryMin int `json:"final_summary_min,omitempty"` // Final summary min words

	// Prompt clipping
	SummaryClip int `json:"summary_clip,omitempty"`  // Max summary characters substituted into the prompt
	JobDescClip int `json:"job_desc_clip,omitempty"` // Max job description characters substituted into the prompt

	// Degraded-mode behavior
	FallbackSentences int `json:"fallback_sentences,omitempty"` // Sentences kept by the non-model summary fallback

	// Generation sampling
	Temperature       float32 `json:"temperature,omitempty"`
	TopP              float32 `json:"top_p,omitempty"`
	RepetitionPenalty float32 `json:"repetition_penalty,omitempty"`
	MaxNewWords       int     `json:"max_new_words,omitempty"` // Generation budget beyond the prompt
}

// DefaultProfile returns the standard tuning used for unconstrained hosts.
func DefaultProfile() Profile {
	return Profile{
		ChunkMaxLen:       800,
		DirectThreshold:   1000,
		ChunkSummaryMax:   100,
		ChunkSummaryMin:   30,
		MergeThreshold:    300,
		FinalSummaryMax:   150,
		FinalSummaryMin:   50,
		SummaryClip:       150,
		JobDescClip:       200,
		FallbackSentences: 5,
		Temperature:       0.4,
		TopP:              0.9,
		RepetitionPenalty: 1.2,
		MaxNewWords:       120,
	}
}

// ConstrainedProfile returns tighter bounds for memory-constrained hosts:
// smaller chunks, shorter summaries, and a smaller generation budget.
func ConstrainedProfile() Profile {
	return Profile{
		ChunkMaxLen:       600,
		DirectThreshold:   1000,
		ChunkSummaryMax:   80,
		ChunkSummaryMin:   20,
		MergeThreshold:    250,
		FinalSummaryMax:   120,
		FinalSummaryMin:   40,
		SummaryClip:       150,
		JobDescClip:       250,
		FallbackSentences: 3,
		Temperature:       0.7,
		TopP:              0.9,
		RepetitionPenalty: 1.1,
		MaxNewWords:       100,
	}
}

// ProfileByName resolves a named preset. Empty name means the default.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", "default":
		return DefaultProfile(), nil
	case "constrained":
		return ConstrainedProfile(), nil
	default:
		return Profile{}, fmt.Errorf("unknown profile %q (want \"default\" or \"constrained\")", name)
	}
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Resume string `json:"resume,omitempty"`  // Path to resume file (PDF, DOCX, or TXT)
	Job    string `json:"job,omitempty"`     // Path to job posting text file
	JobURL string `json:"job_url,omitempty"` // URL to fetch job posting from

	// Posting details
	Company  string `json:"company,omitempty"`  // Company name for the letter
	Position string `json:"position,omitempty"` // Position title for the letter

	// Behavior
	APIKey      string  `json:"api_key,omitempty"`      // Gemini API key
	ProfileName string  `json:"profile,omitempty"`      // Named tuning preset ("default", "constrained")
	Tuning      Profile `json:"tuning,omitempty"`       // Per-field overrides applied on top of the preset
	UseBrowser  bool    `json:"use_browser,omitempty"`  // Use headless browser for SPA job boards
	Verbose     bool    `json:"verbose,omitempty"`      // Print detailed progress information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.ProfileName != "" {
		if _, err := ProfileByName(c.ProfileName); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	if err := c.Tuning.validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Validate file paths exist (if specified)
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// validate rejects negative or out-of-range tuning values. Zero means unset.
func (p Profile) validate() error {
	ints := map[string]int{
		"chunk_max_len":      p.ChunkMaxLen,
		"direct_threshold":   p.DirectThreshold,
		"chunk_summary_max":  p.ChunkSummaryMax,
		"chunk_summary_min":  p.ChunkSummaryMin,
		"merge_threshold":    p.MergeThreshold,
		"final_summary_max":  p.FinalSummaryMax,
		"final_summary_min":  p.FinalSummaryMin,
		"summary_clip":       p.SummaryClip,
		"job_desc_clip":      p.JobDescClip,
		"fallback_sentences": p.FallbackSentences,
		"max_new_words":      p.MaxNewWords,
	}
	for name, v := range ints {
		if v < 0 {
			return fmt.Errorf("'%s' must be non-negative", name)
		}
	}

	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("'temperature' must be in [0, 2]")
	}
	if p.TopP < 0 || p.TopP > 1 {
		return fmt.Errorf("'top_p' must be in [0, 1]")
	}
	if p.RepetitionPenalty < 0 {
		return fmt.Errorf("'repetition_penalty' must be non-negative")
	}

	return nil
}

// EffectiveProfile resolves the named preset and applies any non-zero
// per-field overrides from the Tuning block.
func (c *Config) EffectiveProfile() (Profile, error) {
	base, err := ProfileByName(c.ProfileName)
	if err != nil {
		return Profile{}, err
	}
	return base.merge(c.Tuning), nil
}

// merge overlays non-zero fields of override onto p.
func (p Profile) merge(override Profile) Profile {
	result := p

	if override.ChunkMaxLen != 0 {
		result.ChunkMaxLen = override.ChunkMaxLen
	}
	if override.DirectThreshold != 0 {
		result.DirectThreshold = override.DirectThreshold
	}
	if override.ChunkSummaryMax != 0 {
		result.ChunkSummaryMax = override.ChunkSummaryMax
	}
	if override.ChunkSummaryMin != 0 {
		result.ChunkSummaryMin = override.ChunkSummaryMin
	}
	if override.MergeThreshold != 0 {
		result.MergeThreshold = override.MergeThreshold
	}
	if override.FinalSummaryMax != 0 {
		result.FinalSummaryMax = override.FinalSummaryMax
	}
	if override.FinalSummaryMin != 0 {
		result.FinalSummaryMin = override.FinalSummaryMin
	}
	if override.SummaryClip != 0 {
		result.SummaryClip = override.SummaryClip
	}
	if override.JobDescClip != 0 {
		result.JobDescClip = override.JobDescClip
	}
	if override.FallbackSentences != 0 {
		result.FallbackSentences = override.FallbackSentences
	}
	if override.Temperature != 0 {
		result.Temperature = override.Temperature
	}
	if override.TopP != 0 {
		result.TopP = override.TopP
	}
	if override.RepetitionPenalty != 0 {
		result.RepetitionPenalty = override.RepetitionPenalty
	}
	if override.MaxNewWords != 0 {
		result.MaxNewWords = override.MaxNewWords
	}

	return result
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.Company == "" {
		result.Company = defaults.Company
	}
	if result.Position == "" {
		result.Position = defaults.Position
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ProfileName == "" {
		result.ProfileName = defaults.ProfileName
	}

	// Tuning overrides: file values fill flag gaps field by field
	result.Tuning = defaults.Tuning.merge(result.Tuning)

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
