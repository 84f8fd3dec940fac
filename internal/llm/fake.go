package llm

import (
	"context"
	"encoding/json"

	genai "google.golang.org/genai"
)

// FakeClient returns a canned payload for offline runs and tests.
type FakeClient struct {
	Response json.RawMessage
	Err      error

	Calls      int
	LastPrompt string
	LastSchema *genai.Schema
}

func (f *FakeClient) Name() string { return "fake" }

func (f *FakeClient) Invoke(_ context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	f.Calls++
	f.LastPrompt = prompt
	f.LastSchema = schema
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Response, nil
}
