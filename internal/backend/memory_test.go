package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackendPromptStreamsDeltas(t *testing.T) {
	b := NewMemoryBackend()
	var deltas []string
	msgs, err := b.PromptStreamWithBlocks(context.Background(), "hello world", nil, func(u StreamUpdate) {
		deltas = append(deltas, u.Text)
	})
	require.NoError(t, err)
	require.NotEmpty(t, deltas)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text(), "hello world")
}

func TestMemoryBackendNewSessionThenResume(t *testing.T) {
	b := NewMemoryBackend()
	status, err := b.NewSession(context.Background())
	require.NoError(t, err)
	assert.Contains(t, status, "started session")

	_, err = b.PromptStreamWithBlocks(context.Background(), "remember this", nil, func(StreamUpdate) {})
	require.NoError(t, err)

	_, err = b.NewSession(context.Background())
	require.NoError(t, err)

	candidates, err := b.RecentResumableSessions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	var target string
	for _, c := range candidates {
		if c.Label != "(empty session)" {
			target = c.SessionRef
		}
	}
	require.NotEmpty(t, target)

	status, err = b.ResumeSession(context.Background(), &target)
	require.NoError(t, err)
	assert.Contains(t, status, "resumed session")

	msgs, err := b.SessionMessages(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, msgs)
}
