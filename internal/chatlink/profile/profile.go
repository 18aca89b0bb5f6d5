// Package profile holds the static per-backend descriptors that parameterize
// the generic chat driver: wire dialect, auth scheme, modality support
// matrix, model preference list, and size ceilings. Profiles are constructed
// once per process and passed explicitly; nothing reads them from globals.
package profile

import "strings"

// AuthScheme selects how credentials are transported.
type AuthScheme string

const (
	// AuthBearer sends "Authorization: Bearer <key>".
	AuthBearer AuthScheme = "bearer"
	// AuthBasic sends HTTP basic auth (email + API key).
	AuthBasic AuthScheme = "basic"
)

// Dialect selects the request body shape spoken by the backend.
type Dialect string

const (
	// DialectOpenAI is the chat-completions shape: {model, messages}.
	DialectOpenAI Dialect = "openai"
	// DialectAssist is the agent conversation shape: {recipients, messages}.
	DialectAssist Dialect = "assist"
)

// AutoModel is the sentinel model id that triggers live catalog selection.
const AutoModel = "auto"

// DefaultMaxEncodedChars is the hard ceiling on base64-encoded attachment
// size shared by all built-in profiles.
const DefaultMaxEncodedChars = 500_000

// Profile is the static descriptor for one backend.
type Profile struct {
	ID       string
	Label    string
	BaseURL  string
	ChatPath string
	// ModelsPath is the catalog discovery path; empty disables discovery and
	// "auto" resolves to the first preferred model.
	ModelsPath string
	Auth       AuthScheme
	Dialect    Dialect
	// AgentID addresses the target agent for the assist dialect.
	AgentID string

	SystemPrompt string

	// PreferredModels is the ordered preference list intersected with the
	// live catalog when the configured model is "auto".
	PreferredModels []string
	// DefaultModel is the hard-coded fallback when catalog discovery fails.
	DefaultModel string

	// SupportsVision gates native image blocks. When VisionModels is
	// non-empty only those model ids are vision-capable; when empty every
	// model of a vision-enabled profile is.
	SupportsVision    bool
	VisionModels      []string
	SupportsDocuments bool

	MaxTextChars    int
	MaxEncodedChars int

	// Temperature and MaxTokens are forwarded on the wire when non-zero.
	Temperature float64
	MaxTokens   int
}

// VisionCapable reports whether the given resolved model may receive native
// image blocks under this profile.
func (p Profile) VisionCapable(model string) bool {
	if !p.SupportsVision {
		return false
	}
	if len(p.VisionModels) == 0 {
		return true
	}
	for _, id := range p.VisionModels {
		if strings.EqualFold(id, model) {
			return true
		}
	}
	return false
}

const assistantPrompt = "You are a helpful, friendly AI assistant. " +
	"Answer clearly and concisely. When analysing files, " +
	"be thorough and structured in your response."

const companionPrompt = "You are a friendly, warm, and supportive AI companion. " +
	"You engage in natural, empathetic conversations. " +
	"You remember the context of the conversation and respond thoughtfully. " +
	"Be concise but meaningful in your responses."

// BuiltIn returns the five built-in backend profiles keyed by id.
func BuiltIn() map[string]Profile {
	profiles := []Profile{
		{
			ID:           "gemini",
			Label:        "Google Gemini",
			BaseURL:      "https://generativelanguage.googleapis.com/v1beta/openai",
			ChatPath:     "/chat/completions",
			ModelsPath:   "/models",
			Auth:         AuthBearer,
			Dialect:      DialectOpenAI,
			SystemPrompt: assistantPrompt,
			PreferredModels: []string{
				"gemini-1.5-flash",
				"gemini-1.5-pro",
				"gemini-1.0-pro",
			},
			DefaultModel:      "gemini-1.5-flash",
			SupportsVision:    true,
			SupportsDocuments: true,
			MaxTextChars:      30_000,
			MaxEncodedChars:   DefaultMaxEncodedChars,
		},
		{
			ID:           "groq",
			Label:        "Groq",
			BaseURL:      "https://api.groq.com/openai/v1",
			ChatPath:     "/chat/completions",
			ModelsPath:   "/models",
			Auth:         AuthBearer,
			Dialect:      DialectOpenAI,
			SystemPrompt: assistantPrompt,
			PreferredModels: []string{
				"llama-3.3-70b-versatile",
				"llama-3.1-70b-versatile",
				"llama-3.1-8b-instant",
				"mixtral-8x7b-32768",
				"gemma2-9b-it",
			},
			DefaultModel:   "llama-3.3-70b-versatile",
			SupportsVision: true,
			VisionModels: []string{
				"llama-3.2-90b-vision-preview",
				"llama-3.2-11b-vision-preview",
			},
			MaxTextChars:    30_000,
			MaxEncodedChars: DefaultMaxEncodedChars,
			Temperature:     0.7,
			MaxTokens:       4096,
		},
		{
			ID:           "openrouter",
			Label:        "OpenRouter",
			BaseURL:      "https://openrouter.ai/api/v1",
			ChatPath:     "/chat/completions",
			Auth:         AuthBearer,
			Dialect:      DialectOpenAI,
			SystemPrompt: assistantPrompt,
			PreferredModels: []string{
				"meta-llama/llama-3.3-70b-instruct:free",
				"meta-llama/llama-3.1-8b-instruct:free",
				"mistralai/mistral-7b-instruct:free",
				"google/gemma-2-9b-it:free",
				"qwen/qwen-2-7b-instruct:free",
			},
			DefaultModel:    "meta-llama/llama-3.3-70b-instruct:free",
			SupportsVision:  true,
			MaxTextChars:    12_000,
			MaxEncodedChars: DefaultMaxEncodedChars,
		},
		{
			ID:              "rovo",
			Label:           "Atlassian Rovo Dev",
			BaseURL:         "https://api.atlassian.com",
			ChatPath:        "/api/v1/agents/rovo-dev/conversations",
			Auth:            AuthBasic,
			Dialect:         DialectAssist,
			AgentID:         "rovo-dev",
			SystemPrompt:    assistantPrompt,
			DefaultModel:    "rovo-dev",
			MaxTextChars:    30_000,
			MaxEncodedChars: DefaultMaxEncodedChars,
		},
		{
			ID:           "xai",
			Label:        "xAI Grok",
			BaseURL:      "https://api.x.ai/v1",
			ChatPath:     "/chat/completions",
			ModelsPath:   "/models",
			Auth:         AuthBearer,
			Dialect:      DialectOpenAI,
			SystemPrompt: companionPrompt,
			PreferredModels: []string{
				"grok-2",
				"grok-2-latest",
				"grok-1",
			},
			DefaultModel:    "grok-2",
			MaxTextChars:    12_000,
			MaxEncodedChars: DefaultMaxEncodedChars,
			Temperature:     0.7,
		},
	}

	out := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out
}

// IDs returns the built-in profile ids in a stable order.
func IDs() []string {
	return []string{"gemini", "groq", "openrouter", "rovo", "xai"}
}
