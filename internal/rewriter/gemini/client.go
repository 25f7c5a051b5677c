package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"resume-tailor/internal/rewriter"
)

const (
	defaultModel     = "gemini-1.5-flash"
	rewriteTemp      = float32(0.4)
	rewriteMaxTokens = int32(900)
)

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client implements rewriter.Rewriter on Google Gemini.
type Client struct {
	client *genai.Client
	model  generator
	name   string
}

// NewClient creates a Gemini-backed rewriter.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	gm := client.GenerativeModel(model)
	gm.SetTemperature(rewriteTemp)
	gm.SetMaxOutputTokens(rewriteMaxTokens)
	gm.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(rewriter.BuildPrompt(rewriter.Input{}).System)},
	}

	return &Client{client: client, model: gm, name: model}, nil
}

// Rewrite sends the user prompt; the system prompt is set on the model.
func (c *Client) Rewrite(ctx context.Context, in rewriter.Input) (string, error) {
	prompt := rewriter.BuildPrompt(in)
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	out := rewriter.CleanOutput(text)
	if out == "" {
		return "", fmt.Errorf("gemini response empty content")
	}
	return out, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
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

var _ rewriter.Rewriter = (*Client)(nil)
