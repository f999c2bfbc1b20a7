package streamrender

import (
	"testing"

	"github.com/pixyterm/pixy/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistantTextDeltaAccumulates(t *testing.T) {
	tr := &transcript.Transcript{}
	f := NewFolder(tr)

	f.Apply(Update{Kind: AssistantTextDelta, Text: "Hi"}, true)
	f.Apply(Update{Kind: AssistantTextDelta, Text: " there"}, true)

	require.Len(t, tr.Lines, 1)
	assert.Equal(t, "Hi there", tr.Lines[0].Text)
	assert.Equal(t, LabelStreaming, f.Label())
}

func TestAssistantTextDeltaSplitsOnNewline(t *testing.T) {
	tr := &transcript.Transcript{}
	f := NewFolder(tr)

	f.Apply(Update{Kind: AssistantTextDelta, Text: "line one\nline two"}, true)

	require.Len(t, tr.Lines, 2)
	assert.Equal(t, "line one", tr.Lines[0].Text)
	assert.Equal(t, "line two", tr.Lines[1].Text)
}

func TestThinkingLineReplacedInPlace(t *testing.T) {
	tr := &transcript.Transcript{}
	f := NewFolder(tr)

	f.Apply(Update{Kind: AssistantLine, Text: "[thinking] considering options"}, true)
	f.Apply(Update{Kind: AssistantLine, Text: "[thinking] considering more options"}, true)

	require.Len(t, tr.Lines, 1)
	assert.Equal(t, transcript.Thinking, tr.Lines[0].Kind)
	assert.Equal(t, "[thinking] considering more options", tr.Lines[0].Text)
}

func TestThinkingLineNotReplacedOnceNotWorking(t *testing.T) {
	tr := &transcript.Transcript{}
	f := NewFolder(tr)

	f.Apply(Update{Kind: AssistantLine, Text: "[thinking] first"}, true)
	f.Apply(Update{Kind: AssistantLine, Text: "[thinking] second"}, false)

	require.Len(t, tr.Lines, 2)
}

func TestLegacyToolHeaderNormalized(t *testing.T) {
	tr := &transcript.Transcript{}
	f := NewFolder(tr)

	f.Apply(Update{Kind: ToolLine, Text: "[tool:go_test:running]"}, true)

	require.Len(t, tr.Lines, 1)
	assert.Equal(t, "• Ran go_test", tr.Lines[0].Text)
	assert.True(t, tr.Lines[0].Header)
	assert.Equal(t, LabelInvokingTools, f.Label())
}

func TestToolLineSplitsMultilinePayload(t *testing.T) {
	tr := &transcript.Transcript{}
	f := NewFolder(tr)

	f.Apply(Update{Kind: ToolLine, Text: "line1\nline2\n"}, true)

	require.Len(t, tr.Lines, 2)
	assert.Equal(t, "line1", tr.Lines[0].Text)
	assert.Equal(t, "line2", tr.Lines[1].Text)
}

func TestToolLineDiscardsEmptyPayload(t *testing.T) {
	tr := &transcript.Transcript{}
	f := NewFolder(tr)

	f.Apply(Update{Kind: ToolLine, Text: ""}, true)

	assert.Empty(t, tr.Lines)
}

func TestTranscriptLineCountNeverDecreases(t *testing.T) {
	tr := &transcript.Transcript{}
	f := NewFolder(tr)

	updates := []Update{
		{Kind: AssistantTextDelta, Text: "partial"},
		{Kind: AssistantLine, Text: "[thinking] x"},
		{Kind: ToolLine, Text: "[tool:build:running]"},
		{Kind: ToolLine, Text: "output"},
		{Kind: AssistantLine, Text: "done"},
	}

	prevLen := 0
	for _, u := range updates {
		f.Apply(u, true)
		assert.GreaterOrEqual(t, len(tr.Lines), prevLen)
		prevLen = len(tr.Lines)
	}
}
