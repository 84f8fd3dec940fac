// Package llm wraps the remote model behind a one-method capability
// interface so the rest of the pipeline never touches transport types.
package llm

import (
	"context"
	"encoding/json"
	"errors"

	genai "google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers with no candidates.
var ErrEmptyResponse = errors.New("llm: empty response from model")

// Client issues one structured-output request. The schema is declared
// per call; the returned bytes are the model's raw JSON.
type Client interface {
	Invoke(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error)
}
