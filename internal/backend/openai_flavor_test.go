package backend

import (
	"context"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatClient returns a canned completion regardless of the request,
// satisfying the narrow chatClient interface.
type fakeChatClient struct {
	reply string
}

func (c *fakeChatClient) New(ctx context.Context, body openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: c.reply}},
		},
	}, nil
}

func TestOpenAIBackendChunksReplyIntoDeltas(t *testing.T) {
	client := &fakeChatClient{reply: "hello there friend"}
	b := newOpenAIBackend(client, "gpt-4o")

	var deltas []string
	msgs, err := b.PromptStreamWithBlocks(context.Background(), "hi", nil, func(u StreamUpdate) {
		deltas = append(deltas, u.Text)
	})

	require.NoError(t, err)
	assert.Len(t, deltas, 3)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello there friend", msgs[0].Text())
}

func TestNewOpenAIBackendRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIBackend("", "", "gpt-4o")
	assert.Error(t, err)
}
