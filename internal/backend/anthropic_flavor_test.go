package backend

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDecoder feeds a fixed sequence of events to ssestream.Stream, the same
// fake goa-ai's stream_test.go uses to exercise its anthropicStreamer
// without a live connection.
type testDecoder struct {
	events []ssestream.Event
	i      int
}

func (d *testDecoder) Event() ssestream.Event { return d.events[d.i-1] }

func (d *testDecoder) Next() bool {
	if d.i >= len(d.events) {
		return false
	}
	d.i++
	return true
}

func (d *testDecoder) Close() error { return nil }
func (d *testDecoder) Err() error   { return nil }

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func textDeltaEvent(t *testing.T, index int, text string) ssestream.Event {
	t.Helper()
	var ev sdk.MessageStreamEventUnion
	raw := `{"type":"content_block_delta","index":` + strconv.Itoa(index) + `,"delta":{"type":"text_delta","text":"` + text + `"}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	return ssestream.Event{Type: "content_block_delta", Data: mustJSON(t, ev)}
}

// fakeMessagesClient replays a canned sequence of SSE events regardless of
// the request, satisfying the narrow MessagesClient interface.
type fakeMessagesClient struct {
	events []ssestream.Event
}

func (c *fakeMessagesClient) NewStreaming(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[sdk.MessageStreamEventUnion] {
	dec := &testDecoder{events: c.events}
	return ssestream.NewStream[sdk.MessageStreamEventUnion](dec, nil)
}

func TestAnthropicBackendPromptStreamsDeltasFromSSE(t *testing.T) {
	client := &fakeMessagesClient{events: []ssestream.Event{
		textDeltaEvent(t, 0, "hello"),
		textDeltaEvent(t, 0, " world"),
	}}
	b := newAnthropicBackend(client, "claude-sonnet-4-20250514", 1024)

	var deltas []string
	msgs, err := b.PromptStreamWithBlocks(context.Background(), "hi", nil, func(u StreamUpdate) {
		deltas = append(deltas, u.Text)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"hello", " world"}, deltas)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello world", msgs[0].Text())
}

func TestAnthropicBackendSessionRoundTrip(t *testing.T) {
	client := &fakeMessagesClient{events: []ssestream.Event{textDeltaEvent(t, 0, "ack")}}
	b := newAnthropicBackend(client, "claude-sonnet-4-20250514", 1024)

	status, err := b.NewSession(context.Background())
	require.NoError(t, err)
	assert.Contains(t, status, "started session")

	_, err = b.PromptStreamWithBlocks(context.Background(), "remember this", nil, func(StreamUpdate) {})
	require.NoError(t, err)

	candidates, err := b.RecentResumableSessions(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	status, err = b.ResumeSession(context.Background(), &candidates[0].SessionRef)
	require.NoError(t, err)
	assert.Contains(t, status, "resumed session")

	msgs, err := b.SessionMessages(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, msgs)
}

func TestNewAnthropicBackendRequiresAPIKey(t *testing.T) {
	_, err := NewAnthropicBackend("", "claude-sonnet-4-20250514", 1024)
	assert.Error(t, err)
}
