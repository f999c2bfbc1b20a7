package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBedrockBackendHasNoLiveCallImplementation(t *testing.T) {
	b := newBedrockBackend(nil, "anthropic.claude-3-5-sonnet-20241022-v2:0")

	_, err := b.PromptStreamWithBlocks(context.Background(), "hi", nil, func(StreamUpdate) {})
	assert.ErrorIs(t, err, errBedrockUnimplemented)

	_, err = b.ContinueRunStream(context.Background(), func(StreamUpdate) {})
	assert.ErrorIs(t, err, errBedrockUnimplemented)

	status, err := b.NewSession(context.Background())
	assert.NoError(t, err)
	assert.Contains(t, status, "started session")
}
