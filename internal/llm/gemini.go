package llm

import (
	"context"
	"encoding/json"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself; classification of failures
// is left to the callers.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient builds a client bound to one model id.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

// Name identifies the backing model for logs.
func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Invoke sends the prompt asking for application/json constrained by schema
// and returns the model's JSON as json.RawMessage.
func (g *GeminiClient) Invoke(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}
	return json.RawMessage(resp.Candidates[0].Content.Parts[0].Text), nil
}
