package runtimeconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightPtr(n int) *int { return &n }

func TestWeightedRoutingDistributionExact(t *testing.T) {
	providers := []ProviderConfig{
		{Name: "openai", Weight: weightPtr(80)},
		{Name: "anthropic", Weight: weightPtr(20)},
	}

	counts := map[string]int{}
	for seed := uint64(0); seed < 100; seed++ {
		name, err := SelectWeighted(providers, seed)
		require.NoError(t, err)
		counts[name]++
	}

	assert.Equal(t, 80, counts["openai"])
	assert.Equal(t, 20, counts["anthropic"])
}

func TestWeightedRoutingSeedScenario4(t *testing.T) {
	providers := []ProviderConfig{
		{Name: "openai", Weight: weightPtr(80)},
		{Name: "anthropic", Weight: weightPtr(20)},
	}

	name, err := SelectWeighted(providers, 10)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", name)

	name, err = SelectWeighted(providers, 90)
	require.NoError(t, err)
	assert.Equal(t, "openai", name)
}

func TestWeightedRoutingRejectsWeightOutOfRange(t *testing.T) {
	providers := []ProviderConfig{{Name: "x", Weight: weightPtr(100)}}
	_, err := SelectWeighted(providers, 0)
	assert.Error(t, err)
}

func TestWeightedRoutingRejectsZeroTotal(t *testing.T) {
	providers := []ProviderConfig{{Name: "x", Weight: weightPtr(0)}}
	_, err := SelectWeighted(providers, 0)
	assert.Error(t, err)
}

func TestResolveProviderExplicitOverrideWins(t *testing.T) {
	pf := ProviderFile{LLM: LLMSection{DefaultProvider: "anthropic"}}
	cfg, err := Resolve(Overrides{Provider: "openai"}, pf, 0)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
}

func TestResolveProviderFromOverrideModelString(t *testing.T) {
	cfg, err := Resolve(Overrides{Model: "anthropic/claude-opus"}, ProviderFile{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-opus", cfg.ModelID)
}

func TestResolveProviderSingleChatProvider(t *testing.T) {
	pf := ProviderFile{LLM: LLMSection{Providers: []ProviderConfig{
		{Name: "anthropic", Kind: "chat"},
	}}}
	cfg, err := Resolve(Overrides{}, pf, 0)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
}

func TestResolveProviderLiteralDefault(t *testing.T) {
	cfg, err := Resolve(Overrides{}, ProviderFile{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
}

func TestResolveModelIDProviderDeclaredModel(t *testing.T) {
	pf := ProviderFile{LLM: LLMSection{Providers: []ProviderConfig{
		{Name: "openai", Kind: "chat", Model: "gpt-5"},
	}}}
	cfg, err := Resolve(Overrides{Provider: "openai"}, pf, 0)
	require.NoError(t, err)
	assert.Equal(t, "gpt-5", cfg.ModelID)
}

func TestResolveAPIInferredFromProvider(t *testing.T) {
	cfg, err := Resolve(Overrides{Provider: "anthropic"}, ProviderFile{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "anthropic-messages", cfg.API)
}

func TestResolveBaseURLEnvSubstitution(t *testing.T) {
	t.Setenv("MY_BASE_URL", "https://example.test")
	pf := ProviderFile{LLM: LLMSection{Providers: []ProviderConfig{
		{Name: "openai", Kind: "chat", BaseURL: "$MY_BASE_URL"},
	}}}
	cfg, err := Resolve(Overrides{Provider: "openai"}, pf, 0)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", cfg.BaseURL)
}

func TestResolveAPIKeyProviderDeclared(t *testing.T) {
	pf := ProviderFile{
		Env: map[string]string{"MY_KEY": "sekret"},
		LLM: LLMSection{Providers: []ProviderConfig{
			{Name: "openai", Kind: "chat", APIKey: "$MY_KEY"},
		}},
	}
	cfg, err := Resolve(Overrides{Provider: "openai"}, pf, 0)
	require.NoError(t, err)
	assert.Equal(t, "sekret", cfg.APIKey)
}

func TestResolveAPIKeyFallsBackToProcessEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-process-env")
	cfg, err := Resolve(Overrides{Provider: "openai"}, ProviderFile{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "from-process-env", cfg.APIKey)
}

func TestResolveContextWindowAndMaxTokensDefaults(t *testing.T) {
	cfg, err := Resolve(Overrides{Provider: "openai"}, ProviderFile{}, 0)
	require.NoError(t, err)
	assert.Equal(t, defaultContextWindow, cfg.ContextWindow)
	assert.Equal(t, defaultMaxTokens, cfg.MaxTokens)
}

func TestResolveReasoningDefaultsForOpenAIResponses(t *testing.T) {
	cfg, err := Resolve(Overrides{Provider: "openai"}, ProviderFile{}, 0)
	require.NoError(t, err)
	assert.True(t, cfg.Reasoning)
	assert.Equal(t, "Medium", cfg.ReasoningEffort)
}

func TestResolveReasoningFalseForNonResponsesAPI(t *testing.T) {
	cfg, err := Resolve(Overrides{Provider: "anthropic"}, ProviderFile{}, 0)
	require.NoError(t, err)
	assert.False(t, cfg.Reasoning)
	assert.Empty(t, cfg.ReasoningEffort)
}

func TestModelCatalogPromotesSelectedAndDedupes(t *testing.T) {
	pf := ProviderFile{LLM: LLMSection{Providers: []ProviderConfig{
		{Name: "a", Kind: "chat", Provider: "openai", Model: "gpt-4o"},
		{Name: "b", Kind: "chat", Provider: "openai", Model: "gpt-4o-mini"},
		{Name: "c", Kind: "chat", Provider: "openai", Model: "gpt-4o"}, // dup
	}}}
	cfg, err := Resolve(Overrides{Provider: "openai", Model: "gpt-4o-mini"}, pf, 0)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Models)
	assert.Equal(t, "gpt-4o-mini", cfg.Models[0].ID)

	seen := map[string]int{}
	for _, m := range cfg.Models {
		seen[m.ID]++
	}
	assert.Equal(t, 1, seen["gpt-4o"])
}
