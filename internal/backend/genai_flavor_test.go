package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeGenerateContentClient returns a canned response regardless of the
// request, satisfying the narrow generateContentClient interface.
type fakeGenerateContentClient struct {
	reply string
}

func (c *fakeGenerateContentClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: c.reply}}, Role: "model"}},
		},
	}, nil
}

func TestGenAIBackendChunksReplyIntoDeltas(t *testing.T) {
	client := &fakeGenerateContentClient{reply: "hello there friend"}
	b := newGenAIBackend(client, "gemini-2.0-flash")

	var deltas []string
	msgs, err := b.PromptStreamWithBlocks(context.Background(), "hi", nil, func(u StreamUpdate) {
		deltas = append(deltas, u.Text)
	})

	require.NoError(t, err)
	assert.Len(t, deltas, 3)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello there friend", msgs[0].Text())
}

func TestNewGenAIBackendRequiresAPIKey(t *testing.T) {
	_, err := NewGenAIBackend(context.Background(), "", "gemini-2.0-flash")
	assert.Error(t, err)
}
