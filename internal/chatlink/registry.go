package chatlink

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/modelink/modelink/internal/chatlink/driver"
	"github.com/modelink/modelink/internal/chatlink/driver/chat"
	"github.com/modelink/modelink/internal/chatlink/profile"
	"github.com/modelink/modelink/internal/chatlink/prompt"
)

// UsageEntry is one completed call's accounting record.
type UsageEntry struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Duration         time.Duration
}

// UsageRecorder receives best-effort accounting for completed calls.
type UsageRecorder interface {
	Record(ctx context.Context, entry UsageEntry) error
}

// Registry memoizes one adapter per enabled provider. Adapters are created
// lazily and reused for the process lifetime, which is what scopes the
// one-time model selection.
type Registry struct {
	cfg      Config
	profiles map[string]profile.Profile
	prompts  *prompt.Registry
	log      *zap.Logger
	recorder UsageRecorder

	mu       sync.Mutex
	adapters map[string]driver.Adapter
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger attaches a logger; a nop logger is used otherwise.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithUsageRecorder attaches a usage ledger; recording failures are logged
// and never fail the call.
func WithUsageRecorder(rec UsageRecorder) Option {
	return func(r *Registry) { r.recorder = rec }
}

// WithPrompts attaches a system prompt registry; profile built-ins apply
// otherwise.
func WithPrompts(p *prompt.Registry) Option {
	return func(r *Registry) { r.prompts = p }
}

// NewRegistry builds a registry over the built-in profiles.
func NewRegistry(cfg Config, opts ...Option) *Registry {
	r := &Registry{
		cfg:      cfg,
		profiles: profile.BuiltIn(),
		prompts:  prompt.NewRegistry(),
		log:      zap.NewNop(),
		adapters: map[string]driver.Adapter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ProviderIDs returns the configured, enabled provider ids in profile order.
func (r *Registry) ProviderIDs() []string {
	ids := make([]string, 0, len(r.cfg.Providers))
	for _, id := range profile.IDs() {
		if pc, ok := r.cfg.Providers[id]; ok && pc.Enabled {
			ids = append(ids, id)
		}
	}
	return ids
}

// Profile returns the static descriptor for a provider id.
func (r *Registry) Profile(providerID string) (profile.Profile, bool) {
	prof, ok := r.profiles[strings.ToLower(strings.TrimSpace(providerID))]
	return prof, ok
}

// DefaultProvider resolves the provider used when the caller names none.
func (r *Registry) DefaultProvider() (string, error) {
	if id := strings.TrimSpace(r.cfg.DefaultProvider); id != "" {
		if pc, ok := r.cfg.Providers[id]; ok && pc.Enabled {
			return id, nil
		}
		return "", fmt.Errorf("default provider %q is not enabled", id)
	}

	enabled := r.ProviderIDs()
	switch len(enabled) {
	case 0:
		return "", fmt.Errorf("no enabled providers configured")
	case 1:
		return enabled[0], nil
	default:
		return "", fmt.Errorf("multiple providers enabled and no default configured")
	}
}

// AdapterFor returns the memoized adapter for a provider, creating it on
// first use.
func (r *Registry) AdapterFor(providerID string) (driver.Adapter, profile.Profile, error) {
	id := strings.ToLower(strings.TrimSpace(providerID))
	prof, ok := r.profiles[id]
	if !ok {
		return nil, profile.Profile{}, fmt.Errorf("unknown provider %q", providerID)
	}

	pc, ok := r.cfg.Providers[id]
	if !ok || !pc.Enabled {
		return nil, profile.Profile{}, fmt.Errorf("provider %q is not enabled", id)
	}

	if base := strings.TrimSpace(pc.BaseURL); base != "" {
		prof.BaseURL = base
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if adapter, ok := r.adapters[id]; ok {
		return adapter, prof, nil
	}

	model := strings.TrimSpace(pc.Model)
	if model == "" {
		model = profile.AutoModel
	}

	client := chat.NewClient(prof, chat.Credential{APIKey: pc.APIKey, Email: pc.Email}, model)
	client.Timeout = r.cfg.DefaultTimeout

	r.adapters[id] = client
	r.log.Debug("provider adapter created",
		zap.String("provider", id),
		zap.String("configured_model", model))
	return client, prof, nil
}
