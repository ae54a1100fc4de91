// Package gemini provides a client for the Google Gemini API, used to
// polish template answers into conversational narrative. The engine works
// fully without it.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/models"
)

const DefaultModel = "gemini-2.0-flash"

// Client implements the NarrativeClient interface
type Client struct {
	client *genai.Client
	model  string
	logger *common.Logger
}

var _ interfaces.NarrativeClient = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client: genaiClient,
		model:  DefaultModel,
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// GenerateContent generates narrative text from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	c.logger.Debug().Str("model", c.model).Msg("Generating content")

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// PolishAnswer rewrites a template answer conversationally, preserving the
// facts and source attribution.
func (c *Client) PolishAnswer(ctx context.Context, query string, answer *models.RAGAnswer) (string, error) {
	prompt := buildPolishPrompt(query, answer)
	return c.GenerateContent(ctx, prompt)
}

// buildPolishPrompt creates the rewrite prompt for a drafted answer
func buildPolishPrompt(query string, answer *models.RAGAnswer) string {
	prompt := fmt.Sprintf(`Rewrite the following financial guidance as a short, friendly answer to the user's question.
Keep every factual claim and number exactly as given. Do not add new advice.

Question: %s

Draft answer: %s
`, query, answer.Answer)

	if len(answer.Sources) > 0 {
		prompt += "\nSources:\n"
		for _, source := range answer.Sources {
			prompt += fmt.Sprintf("- %s\n", source)
		}
	}
	return prompt
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}
