package config

import (
	"time"

	"github.com/modelink/modelink/internal/chatlink"
	"github.com/modelink/modelink/internal/usage"
)

// Config is the complete application configuration, decoded from the YAML
// config file with MODELINK_* environment overrides layered on top.
type Config struct {
	Server  ServerConfig    `mapstructure:"server"`
	Chat    chatlink.Config `mapstructure:"chat"`
	Usage   usage.Config    `mapstructure:"usage"`
	Logging LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig controls the server log level.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration applied before file and environment
// overrides.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8416,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    5 * time.Minute,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Chat: chatlink.Config{
			DefaultTimeout: 120 * time.Second,
			Providers:      map[string]chatlink.ProviderConfig{},
		},
		Usage: usage.Config{
			Enabled: false,
			Path:    "modelink-usage.db",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
