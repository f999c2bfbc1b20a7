// Package runtimeconfig implements the layered runtime configuration
// resolver described in spec.md §4.6: explicit overrides, a TOML settings
// file, a TOML provider file, and built-in defaults, resolved into a
// ResolvedRuntimeConfig, including deterministic weighted provider routing.
package runtimeconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ProviderFile is the parsed shape of <conf_dir>/pixy.toml, per spec.md §6.
type ProviderFile struct {
	Env                 map[string]string `toml:"env"`
	Theme               string            `toml:"theme"`
	TransportRetryCount int               `toml:"transport_retry_count"`
	Skills              []string          `toml:"skills"`
	LLM                 LLMSection        `toml:"llm"`
}

// LLMSection is the `[llm]` table plus its nested `[[llm.providers]]` array.
type LLMSection struct {
	DefaultProvider string           `toml:"default_provider"`
	Providers       []ProviderConfig `toml:"providers"`
}

// ProviderConfig is one `[[llm.providers]]` entry.
type ProviderConfig struct {
	Name            string `toml:"name"`
	Kind            string `toml:"kind"` // default "chat"
	Provider        string `toml:"provider"`
	API             string `toml:"api"`
	BaseURL         string `toml:"base_url"`
	APIKey          string `toml:"api_key"`
	Model           string `toml:"model"`
	Weight          *int   `toml:"weight"` // default 1
	Reasoning       *bool  `toml:"reasoning"`
	ReasoningEffort string `toml:"reasoning_effort"`
	ContextWindow   int    `toml:"context_window"`
	MaxTokens       int    `toml:"max_tokens"`
}

// EffectiveKind returns the provider's kind, defaulting to "chat".
func (p ProviderConfig) EffectiveKind() string {
	if p.Kind == "" {
		return "chat"
	}
	return p.Kind
}

// EffectiveWeight returns the provider's routing weight, defaulting to 1.
func (p ProviderConfig) EffectiveWeight() int {
	if p.Weight == nil {
		return 1
	}
	return *p.Weight
}

// LoadProviderFile parses a pixy.toml file at path. A missing file returns
// an empty ProviderFile, not an error — the resolver falls back to
// overrides and built-in defaults.
func LoadProviderFile(path string) (ProviderFile, error) {
	var pf ProviderFile
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return pf, nil
	}
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return pf, fmt.Errorf("runtimeconfig: parse %s: %w", path, err)
	}
	return pf, nil
}
