// Package driver defines the provider adapter contract and its error
// taxonomy. One adapter instance owns the network round trip to one backend
// and the one-time model selection for its lifetime.
package driver

import (
	"context"

	"github.com/modelink/modelink/internal/chatlink/content"
)

// Adapter is the polymorphic boundary over chat-completion backends.
type Adapter interface {
	// Complete performs exactly one network round trip and returns the
	// normalized reply. No retries, no caching of replies.
	Complete(ctx context.Context, req *Request) (*Response, error)
	// Name returns the profile id (e.g. "groq").
	Name() string
	// Capabilities returns what this adapter supports.
	Capabilities() Capabilities
	// Selection resolves the model exactly once per adapter instance and
	// returns the memoized result on every later call, even if the
	// provider's catalog has changed since.
	Selection(ctx context.Context) Selection
}

// Capabilities describes adapter features. TextChat is mandatory for every
// backend; the rest are profile-dependent.
type Capabilities struct {
	TextChat     bool
	VisionChat   bool
	DocumentChat bool
}

// Selection is the outcome of model resolution, resolved at most once and
// read-only thereafter.
type Selection struct {
	Model string `json:"model"`
	// Reason records how the model was chosen: "configured", "preferred",
	// "catalog_fallback" (lexicographic tie-break, surfaced rather than
	// silent), or "default" (catalog query failed or unavailable).
	Reason string `json:"reason"`
}

const (
	SelectionConfigured      = "configured"
	SelectionPreferred       = "preferred"
	SelectionCatalogFallback = "catalog_fallback"
	SelectionDefault         = "default"
)

// Request is a provider-agnostic completion request. Messages are ordered
// and already include the system prompt when one applies.
type Request struct {
	Model    string
	Messages []content.Message
}

// Usage contains token usage statistics when the backend reports them.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a provider-agnostic completion response. Reply is already
// normalized to a flat string; RawBody is kept for tracing.
type Response struct {
	Reply   string
	Usage   *Usage
	RawBody []byte
}
