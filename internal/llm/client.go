package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerationParams holds the sampling knobs for open-ended generation.
// RepetitionPenalty follows the HF convention (1.0 = no penalty).
type GenerationParams struct {
	Temperature       float32
	TopP              float32
	RepetitionPenalty float32
	MaxNewWords       int
}

// Client is an abstraction over LLM providers
type Client interface {
	// Summarize condenses text into a summary bounded by min/max word counts
	Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error)
	// Generate continues a prompt using the given sampling parameters
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	// GetModel returns the underlying provider model for a tier (for direct access if needed)
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	// case ProviderOpenAI:
	//     return NewOpenAIClient(ctx, config, apiKey)
	// case ProviderAnthropic:
	//     return NewClaudeClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Summarize condenses text into a summary bounded by min/max word counts
func (c *GeminiClient) Summarize(ctx context.Context, text string, maxWords, minWords int) (string, error) {
	modelName := c.config.GetModel(TierSummarize)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", TierSummarize)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0) // Deterministic output for summarization

	prompt := fmt.Sprintf(
		"Summarize the following text in %d to %d words. Respond with the summary only, no preamble.\n\n%s",
		minWords, maxWords, text)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	out, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	return CleanFences(out), nil
}

// Generate continues a prompt using the given sampling parameters
func (c *GeminiClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	modelName := c.config.GetModel(TierGenerate)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", TierGenerate)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(params.Temperature)
	if params.TopP > 0 {
		model.SetTopP(params.TopP)
	}
	if params.MaxNewWords > 0 {
		// Rough words-to-tokens cushion
		model.SetMaxOutputTokens(int32(params.MaxNewWords) * 2)
	}
	// RepetitionPenalty has no counterpart in this SDK version; the
	// GenerationConfig exposes no penalty knobs, so the parameter is
	// carried for config compatibility but not applied here.

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	out, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	return CleanFences(out), nil
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
