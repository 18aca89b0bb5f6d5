// Package prompt resolves the system prompt sent ahead of every
// conversation. Profiles carry a built-in prompt; an optional YAML file can
// override it per provider without rebuilding.
package prompt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/modelink/modelink/internal/chatlink/profile"
)

// overrideFile is the on-disk shape:
//
//	prompts:
//	  groq: |
//	    You are a terse code reviewer.
type overrideFile struct {
	Prompts map[string]string `yaml:"prompts"`
}

// Registry resolves system prompts with per-provider overrides layered over
// the profile built-ins.
type Registry struct {
	overrides map[string]string
}

// NewRegistry returns a registry with no overrides.
func NewRegistry() *Registry {
	return &Registry{overrides: map[string]string{}}
}

// LoadOverrides reads a YAML override file. A missing path is not an error;
// malformed YAML is.
func LoadOverrides(path string) (*Registry, error) {
	reg := NewRegistry()
	if strings.TrimSpace(path) == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return reg, nil
		}
		return nil, fmt.Errorf("read prompt overrides: %w", err)
	}

	var file overrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse prompt overrides: %w", err)
	}

	for id, text := range file.Prompts {
		id = strings.ToLower(strings.TrimSpace(id))
		text = strings.TrimSpace(text)
		if id != "" && text != "" {
			reg.overrides[id] = text
		}
	}
	return reg, nil
}

// SystemPrompt returns the override for the profile when one exists, else
// the profile's built-in prompt.
func (r *Registry) SystemPrompt(prof profile.Profile) string {
	if r != nil {
		if text, ok := r.overrides[prof.ID]; ok {
			return text
		}
	}
	return prof.SystemPrompt
}
