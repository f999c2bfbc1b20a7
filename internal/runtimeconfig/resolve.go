package runtimeconfig

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

func envLookup(name string) string {
	return os.Getenv(name)
}

// ModelEntry is one catalog entry in the resolved config's model list.
type ModelEntry struct {
	Provider string
	ID       string
}

// ResolvedRuntimeConfig is the output of Resolve: everything the session
// runtime and backend need to start a generation.
type ResolvedRuntimeConfig struct {
	Provider        string
	ModelID         string
	API             string
	BaseURL         string
	APIKey          string
	ContextWindow   int
	MaxTokens       int
	Reasoning       bool
	ReasoningEffort string
	Models          []ModelEntry
}

// Overrides holds the explicit command-line/caller overrides (layer 1).
type Overrides struct {
	Provider string
	Model    string // may be "provider/model" or a bare model id
	API      string
	BaseURL  string
}

// providerModel splits an override model string of the form
// "provider/model" into its parts. ok is false if there's no "/".
func (o Overrides) providerModel() (provider, model string, ok bool) {
	if o.Model == "" {
		return "", "", false
	}
	idx := strings.Index(o.Model, "/")
	if idx < 0 {
		return "", o.Model, false
	}
	return o.Model[:idx], o.Model[idx+1:], true
}

const (
	defaultContextWindow = 200_000
	defaultMaxTokens     = 8192
)

// apiByProvider infers the protocol dialect from a provider name when
// nothing more specific is configured.
var apiByProvider = map[string]string{
	"openai":    "openai-responses",
	"anthropic": "anthropic-messages",
	"google":    "google-generative-ai",
	"bedrock":   "bedrock-converse-stream",
}

// baseURLByAPI gives the built-in default transport endpoint per resolved
// api dialect.
var baseURLByAPI = map[string]string{
	"openai-responses":        "https://api.openai.com/v1",
	"openai-chat":             "https://api.openai.com/v1",
	"anthropic-messages":      "https://api.anthropic.com/v1",
	"google-generative-ai":    "https://generativelanguage.googleapis.com/v1beta",
	"bedrock-converse-stream": "", // region-resolved by the AWS SDK, not a URL
}

// modelDefaultByProvider gives the built-in default model id per provider
// when nothing else resolves it.
var modelDefaultByProvider = map[string]string{
	"openai":    "gpt-4o",
	"anthropic": "claude-sonnet-4-20250514",
	"google":    "gemini-2.0-flash",
	"bedrock":   "anthropic.claude-3-5-sonnet-20241022-v2:0",
}

// Resolve computes a ResolvedRuntimeConfig from overrides, the parsed
// provider file, and a routing seed (nanoseconds since epoch by default;
// passed explicitly here so Resolve stays a pure, testable function).
func Resolve(ov Overrides, pf ProviderFile, seed uint64) (ResolvedRuntimeConfig, error) {
	provider, err := resolveProvider(ov, pf, seed)
	if err != nil {
		return ResolvedRuntimeConfig{}, err
	}

	providerCfg, hasCfg := findProvider(pf, provider)

	modelID := resolveModelID(ov, providerCfg, hasCfg, provider)
	api := resolveAPI(ov, providerCfg, hasCfg, provider)
	baseURL := resolveBaseURL(ov, providerCfg, hasCfg, api, pf.Env)
	apiKey := resolveAPIKey(providerCfg, hasCfg, provider, pf.Env)
	contextWindow := resolveInt(providerCfg.ContextWindow, hasCfg, defaultContextWindow)
	maxTokens := resolveInt(providerCfg.MaxTokens, hasCfg, defaultMaxTokens)
	reasoning, reasoningEffort := resolveReasoning(providerCfg, hasCfg, api)

	models := buildCatalog(pf, provider, modelID)

	return ResolvedRuntimeConfig{
		Provider:        provider,
		ModelID:         modelID,
		API:             api,
		BaseURL:         baseURL,
		APIKey:          apiKey,
		ContextWindow:   contextWindow,
		MaxTokens:       maxTokens,
		Reasoning:       reasoning,
		ReasoningEffort: reasoningEffort,
		Models:          models,
	}, nil
}

func resolveProvider(ov Overrides, pf ProviderFile, seed uint64) (string, error) {
	if ov.Provider != "" {
		return ov.Provider, nil
	}
	if p, _, ok := ov.providerModel(); ok {
		return p, nil
	}

	chatProviders := chatProviders(pf)

	if pf.LLM.DefaultProvider == "*" {
		return selectWeighted(chatProviders, seed)
	}
	if pf.LLM.DefaultProvider != "" {
		return pf.LLM.DefaultProvider, nil
	}
	if len(chatProviders) == 1 {
		return chatProviders[0].Name, nil
	}
	return "openai", nil
}

func chatProviders(pf ProviderFile) []ProviderConfig {
	var out []ProviderConfig
	for _, p := range pf.LLM.Providers {
		if p.EffectiveKind() == "chat" {
			out = append(out, p)
		}
	}
	return out
}

// selectWeighted implements spec.md §4.6's weighted routing: a slot table
// sorted by name, each carrying its declared weight (must be in [0, 99]);
// the slot whose cumulative weight first covers seed mod total_weight is
// selected.
func selectWeighted(providers []ProviderConfig, seed uint64) (string, error) {
	sorted := append([]ProviderConfig{}, providers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	total := 0
	for _, p := range sorted {
		w := p.EffectiveWeight()
		if w < 0 || w >= 100 {
			return "", fmt.Errorf("runtimeconfig: provider %q weight %d out of range [0, 99]", p.Name, w)
		}
		total += w
	}
	if total == 0 {
		return "", fmt.Errorf("runtimeconfig: default_provider is \"*\" but total routing weight is 0")
	}

	target := int(seed % uint64(total))
	cumulative := 0
	for _, p := range sorted {
		cumulative += p.EffectiveWeight()
		if target < cumulative {
			return p.Name, nil
		}
	}
	// Unreachable given the invariant total > target, but fall back to the
	// last provider defensively.
	return sorted[len(sorted)-1].Name, nil
}

// SelectWeighted is the exported form of selectWeighted, used by tests.
func SelectWeighted(providers []ProviderConfig, seed uint64) (string, error) {
	return selectWeighted(providers, seed)
}

func findProvider(pf ProviderFile, name string) (ProviderConfig, bool) {
	for _, p := range pf.LLM.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

func resolveModelID(ov Overrides, p ProviderConfig, hasCfg bool, provider string) string {
	if ov.Model != "" {
		if _, model, ok := ov.providerModel(); ok {
			return model
		}
		return ov.Model
	}
	if hasCfg && p.Model != "" {
		return p.Model
	}
	if d, ok := modelDefaultByProvider[provider]; ok {
		return d
	}
	return ""
}

func resolveAPI(ov Overrides, p ProviderConfig, hasCfg bool, provider string) string {
	if ov.API != "" {
		return ov.API
	}
	if hasCfg && p.API != "" {
		return p.API
	}
	if a, ok := apiByProvider[provider]; ok {
		return a
	}
	return ""
}

func resolveBaseURL(ov Overrides, p ProviderConfig, hasCfg bool, api string, env map[string]string) string {
	if v := ResolveEnvToken(ov.BaseURL, env); v != "" {
		return v
	}
	if hasCfg {
		if v := ResolveEnvToken(p.BaseURL, env); v != "" {
			return v
		}
	}
	return baseURLByAPI[api]
}

func resolveAPIKey(p ProviderConfig, hasCfg bool, provider string, env map[string]string) string {
	if hasCfg {
		if v := ResolveEnvToken(p.APIKey, env); v != "" {
			return v
		}
	}

	upper := strings.ToUpper(provider)
	candidates := []string{upper + "_API_KEY", upper + "_AUTH_TOKEN"}
	for _, name := range candidates {
		if v, ok := env[name]; ok && v != "" {
			return v
		}
	}
	for _, name := range candidates {
		if v := envLookup(name); v != "" {
			return v
		}
	}

	generic := map[string][]string{
		"openai":    {"OPENAI_API_KEY"},
		"anthropic": {"ANTHROPIC_API_KEY", "ANTHROPIC_AUTH_TOKEN"},
		"google":    {"GOOGLE_API_KEY"},
	}
	for _, name := range generic[provider] {
		if v := envLookup(name); v != "" {
			return v
		}
	}
	return ""
}

func resolveInt(configured int, hasCfg bool, fallback int) int {
	if hasCfg && configured != 0 {
		return configured
	}
	return fallback
}

func resolveReasoning(p ProviderConfig, hasCfg bool, api string) (bool, string) {
	reasoning := strings.Contains(api, "openai-responses")
	if hasCfg && p.Reasoning != nil {
		reasoning = *p.Reasoning
	}
	if !reasoning {
		return false, ""
	}
	effort := "Medium"
	if hasCfg && p.ReasoningEffort != "" {
		effort = p.ReasoningEffort
	}
	return true, effort
}

func buildCatalog(pf ProviderFile, selectedProvider, selectedModel string) []ModelEntry {
	seen := map[ModelEntry]bool{}
	var out []ModelEntry
	for _, p := range pf.LLM.Providers {
		if p.Provider != "" && p.Provider != selectedProvider {
			continue
		}
		if p.Model == "" {
			continue
		}
		e := ModelEntry{Provider: selectedProvider, ID: p.Model}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}

	selected := ModelEntry{Provider: selectedProvider, ID: selectedModel}
	if selectedModel == "" {
		return out
	}
	if !seen[selected] {
		out = append([]ModelEntry{selected}, out...)
		return out
	}
	// promote selected to index 0
	reordered := []ModelEntry{selected}
	for _, e := range out {
		if e != selected {
			reordered = append(reordered, e)
		}
	}
	return reordered
}
