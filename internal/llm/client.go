// Package llm wraps the Gemini text-generation API for short, constrained
// classification prompts.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured
const DefaultModel = "gemini-2.0-flash"

// ErrNoCredentials is returned by NewClient when no API key is available
var ErrNoCredentials = errors.New("no Gemini API key configured")

// Client sends single-turn prompts to Gemini
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client for apiKey. An empty apiKey yields
// ErrNoCredentials so callers can run without the language-model step.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	return NewClientWithBaseURL(ctx, apiKey, model, "")
}

// NewClientWithBaseURL creates a Gemini client with a custom endpoint (for testing)
func NewClientWithBaseURL(ctx context.Context, apiKey, model, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoCredentials
	}
	if model == "" {
		model = DefaultModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// Generate sends prompt under the given system instruction with a low
// temperature and returns the trimmed text of the reply
func (c *Client) Generate(ctx context.Context, system, prompt string, maxTokens int32) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.1),
		MaxOutputTokens:   maxTokens,
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
