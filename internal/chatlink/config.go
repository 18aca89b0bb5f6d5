// Package chatlink mediates between the canonical conversation model and the
// configured chat-completion backends. The registry constructs one adapter
// per provider and Converse is the single high-level operation.
package chatlink

import "time"

// Config defines the provider configuration subtree.
type Config struct {
	// DefaultProvider is used when the caller does not name one.
	DefaultProvider string `mapstructure:"default_provider"`

	// DefaultTimeout bounds each completion call.
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`

	// PromptsFile optionally points at a YAML system prompt override file.
	PromptsFile string `mapstructure:"prompts_file"`

	// Providers is keyed by built-in profile id (gemini, groq, openrouter,
	// rovo, xai).
	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

// ProviderConfig carries the per-provider runtime settings; everything
// static about a backend lives in its profile.
type ProviderConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Model is a concrete id, or "auto" (the default when empty) for live
	// catalog selection.
	Model string `mapstructure:"model"`

	APIKey string `mapstructure:"api_key"`
	// Email pairs with APIKey for basic-auth profiles.
	Email string `mapstructure:"email"`

	// BaseURL overrides the profile base URL (self-hosted gateways, tests).
	BaseURL string `mapstructure:"base_url"`
}
