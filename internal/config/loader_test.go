package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 8416, cfg.Server.Port)
	require.Equal(t, 120*time.Second, cfg.Chat.DefaultTimeout)
	require.False(t, cfg.Usage.Enabled)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingNamedFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9999
chat:
  default_provider: groq
  default_timeout: 45s
  providers:
    groq:
      enabled: true
      model: llama-3.3-70b-versatile
      api_key: sk-from-file
usage:
  enabled: true
  path: /tmp/usage.db
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "groq", cfg.Chat.DefaultProvider)
	require.Equal(t, 45*time.Second, cfg.Chat.DefaultTimeout)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.Usage.Enabled)

	pc := cfg.Chat.Providers["groq"]
	require.True(t, pc.Enabled)
	require.Equal(t, "llama-3.3-70b-versatile", pc.Model)
	require.Equal(t, "sk-from-file", pc.APIKey)

	// Defaults survive for sections the file does not set.
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestLoadBareCredentialEnvEnablesProvider(t *testing.T) {
	t.Setenv("MODELINK_CHAT_PROVIDERS_XAI_API_KEY", "xai-key")
	t.Setenv("MODELINK_CHAT_PROVIDERS_XAI_MODEL", "grok-3")

	cfg, err := Load("")
	require.NoError(t, err)

	pc := cfg.Chat.Providers["xai"]
	require.True(t, pc.Enabled)
	require.Equal(t, "xai-key", pc.APIKey)
	require.Equal(t, "grok-3", pc.Model)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chat:
  default_provider: groq
`), 0o600))

	t.Setenv("MODELINK_CHAT_DEFAULT_PROVIDER", "xai")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "xai", cfg.Chat.DefaultProvider)
}

func TestLoadBasicAuthCredentialPair(t *testing.T) {
	t.Setenv("MODELINK_CHAT_PROVIDERS_ROVO_API_KEY", "atl-token")
	t.Setenv("MODELINK_CHAT_PROVIDERS_ROVO_EMAIL", "dev@example.com")

	cfg, err := Load("")
	require.NoError(t, err)

	pc := cfg.Chat.Providers["rovo"]
	require.True(t, pc.Enabled)
	require.Equal(t, "atl-token", pc.APIKey)
	require.Equal(t, "dev@example.com", pc.Email)
}
