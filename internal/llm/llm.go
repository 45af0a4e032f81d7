package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts generative model providers for ticket extraction.
type Client interface {
	ExtractTicket(ctx context.Context, input ExtractInput) (json.RawMessage, error)
}

// ExtractInput captures the inputs needed for one ticket extraction.
type ExtractInput struct {
	NoteText      string
	PromptVersion string
}

// ErrInvalidCredential marks provider rejections of the configured API key.
// Callers match on it to classify the failure; the operator never sees it.
var ErrInvalidCredential = errors.New("invalid API credential")

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until a provider is configured.
type PlaceholderClient struct{}

// ExtractTicket returns ErrNotImplemented.
func (PlaceholderClient) ExtractTicket(ctx context.Context, input ExtractInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotImplemented
}
