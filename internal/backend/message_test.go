package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalPartsRoundTrip(t *testing.T) {
	parts := []ContentPart{
		TextContent{Text: "hello"},
		ReasoningContent{Thinking: "pondering", Signature: "sig"},
		ImageContent{MimeType: "image/png", Data: []byte{1, 2, 3}},
		ToolCall{ID: "t1", Name: "search", Input: `{"q":"x"}`},
		ToolResult{ToolCallID: "t1", Content: "result", IsError: false},
		Finish{Reason: "end_turn"},
	}

	data, err := MarshalParts(parts)
	require.NoError(t, err)

	got, err := UnmarshalParts(data)
	require.NoError(t, err)
	require.Len(t, got, len(parts))
	assert.Equal(t, parts, got)
}

func TestMessageTextConcatenatesTextParts(t *testing.T) {
	m := Message{Parts: []ContentPart{
		TextContent{Text: "first"},
		ReasoningContent{Thinking: "ignored"},
		TextContent{Text: "second"},
	}}
	assert.Equal(t, "first\nsecond", m.Text())
}
