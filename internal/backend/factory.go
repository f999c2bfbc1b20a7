package backend

import (
	"context"
	"fmt"

	"github.com/pixyterm/pixy/internal/runtimeconfig"
)

// NewBackendForConfig picks the live-provider Backend flavor matching
// cfg.API, the api dialect internal/runtimeconfig resolved from the
// provider catalog and overrides. Region for bedrock-converse-stream is
// read from cfg.BaseURL when set (runtimeconfig has no dedicated region
// field; operators pass it via the provider's base_url), falling back to
// the AWS SDK's own default region resolution.
func NewBackendForConfig(cfg runtimeconfig.ResolvedRuntimeConfig) (Backend, error) {
	switch cfg.API {
	case "anthropic-messages":
		return NewAnthropicBackend(cfg.APIKey, cfg.ModelID, cfg.MaxTokens)
	case "openai-responses", "openai-chat":
		return NewOpenAIBackend(cfg.APIKey, cfg.BaseURL, cfg.ModelID)
	case "google-generative-ai":
		return NewGenAIBackend(context.Background(), cfg.APIKey, cfg.ModelID)
	case "bedrock-converse-stream":
		return NewBedrockBackend(context.Background(), cfg.BaseURL, cfg.ModelID)
	default:
		return nil, fmt.Errorf("backend: no live-provider flavor for api dialect %q", cfg.API)
	}
}
