package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixyterm/pixy/internal/runtimeconfig"
)

func TestNewBackendForConfigUnknownAPIDialect(t *testing.T) {
	_, err := NewBackendForConfig(runtimeconfig.ResolvedRuntimeConfig{API: "unknown-dialect"})
	assert.Error(t, err)
}

func TestNewBackendForConfigRoutesMissingCredentialsToAFlavorSpecificError(t *testing.T) {
	_, err := NewBackendForConfig(runtimeconfig.ResolvedRuntimeConfig{API: "anthropic-messages", ModelID: "claude-sonnet-4-20250514"})
	assert.ErrorContains(t, err, "anthropic api key is required")

	_, err = NewBackendForConfig(runtimeconfig.ResolvedRuntimeConfig{API: "openai-responses", ModelID: "gpt-4o"})
	assert.ErrorContains(t, err, "openai api key is required")

	_, err = NewBackendForConfig(runtimeconfig.ResolvedRuntimeConfig{API: "google-generative-ai", ModelID: "gemini-2.0-flash"})
	assert.ErrorContains(t, err, "google api key is required")
}
