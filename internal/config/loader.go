// Package config loads the application configuration: defaults, then an
// optional YAML file, then MODELINK_* environment variables. A .env file in
// the working directory is honored for local development.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/modelink/modelink/internal/chatlink"
)

const envPrefix = "MODELINK"

// Load reads configuration from the given file path. An empty path loads
// defaults plus environment overrides only; a named file that is missing is
// an error.
func Load(path string) (*Config, error) {
	// Best-effort .env for local development; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindProviderEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Default()
	decode := func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
	if err := v.Unmarshal(&cfg, decode); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	applyCredentialEnv(v, &cfg)
	return &cfg, nil
}

// bindProviderEnv registers the per-provider keys so AutomaticEnv sees them
// even when the config file omits the subtree.
func bindProviderEnv(v *viper.Viper) {
	for _, id := range providerIDs {
		for _, field := range []string{"enabled", "model", "api_key", "email", "base_url"} {
			_ = v.BindEnv(fmt.Sprintf("chat.providers.%s.%s", id, field))
		}
	}
	_ = v.BindEnv("chat.default_provider")
	_ = v.BindEnv("usage.enabled")
	_ = v.BindEnv("usage.path")
	_ = v.BindEnv("logging.level")
}

var providerIDs = []string{"gemini", "groq", "openrouter", "rovo", "xai"}

// applyCredentialEnv makes MODELINK_<PROVIDER>_API_KEY shorthand work: a
// bare credential in the environment enables the provider without a config
// file.
func applyCredentialEnv(v *viper.Viper, cfg *Config) {
	if cfg.Chat.Providers == nil {
		cfg.Chat.Providers = map[string]chatlink.ProviderConfig{}
	}
	for _, id := range providerIDs {
		key := v.GetString(fmt.Sprintf("chat.providers.%s.api_key", id))
		if key == "" {
			continue
		}
		pc := cfg.Chat.Providers[id]
		pc.APIKey = key
		pc.Enabled = true
		if email := v.GetString(fmt.Sprintf("chat.providers.%s.email", id)); email != "" {
			pc.Email = email
		}
		if model := v.GetString(fmt.Sprintf("chat.providers.%s.model", id)); model != "" {
			pc.Model = model
		}
		cfg.Chat.Providers[id] = pc
	}
}
