package transcript

import (
	"strings"
	"testing"

	"github.com/pixyterm/pixy/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseInput(lines []Line) ProjectionInput {
	return ProjectionInput{
		Lines:           lines,
		ViewportRows:    24,
		ViewportCols:    80,
		ShowToolResults: true,
		ShowThinking:    true,
		Theme:           theme.Get("dark"),
	}
}

func TestVisibleTranscriptLinesNeverExceedsViewportRows(t *testing.T) {
	var lines []Line
	for i := 0; i < 100; i++ {
		lines = append(lines, Line{Kind: Normal, Text: "line"})
	}
	in := baseInput(lines)
	in.ViewportRows = 10
	out := VisibleTranscriptLines(in)
	assert.LessOrEqual(t, len(out), 10)
}

func TestFilteringHidesToolAndThinkingLines(t *testing.T) {
	lines := []Line{
		{Kind: Normal, Text: "hello"},
		{Kind: Tool, Text: "tool output", Header: true},
		{Kind: Thinking, Text: "pondering"},
	}
	in := baseInput(lines)
	in.ShowToolResults = false
	in.ShowThinking = false
	in.ViewportRows = 0
	out := VisibleTranscriptLines(in)
	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "hello")
	assert.NotContains(t, joined, "tool output")
	assert.NotContains(t, joined, "pondering")
}

func TestWorkingLineAppendedWithBlankSeparator(t *testing.T) {
	lines := []Line{{Kind: Normal, Text: "hi"}}
	in := baseInput(lines)
	in.ViewportRows = 0
	in.WorkingLine = "WORKING"
	out := VisibleTranscriptLines(in)
	require.GreaterOrEqual(t, len(out), 3)
	assert.Equal(t, "", out[len(out)-2])
	assert.Equal(t, "WORKING", out[len(out)-1])
}

func TestToolBlockCompactionKeepsFirstAndLast(t *testing.T) {
	var lines []Line
	lines = append(lines, Line{Kind: Tool, Text: "Ran go test ./...", Header: true})
	for i := 0; i < 20; i++ {
		lines = append(lines, Line{Kind: Tool, Text: "output line"})
	}
	in := baseInput(lines)
	in.ViewportRows = 0
	out := VisibleTranscriptLines(in)
	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "+18 lines")
	// total rendered count should be much less than the 21 source lines.
	assert.Less(t, len(out), 21)
}

func TestScrollClampedToValidRange(t *testing.T) {
	var lines []Line
	for i := 0; i < 50; i++ {
		lines = append(lines, Line{Kind: Normal, Text: "line"})
	}
	in := baseInput(lines)
	in.ViewportRows = 10
	in.ScrollFromBottom = 1000 // far beyond max_scroll
	out := VisibleTranscriptLines(in)
	assert.Len(t, out, 10)
}

func TestPaddingTopOnlyWithoutOverlay(t *testing.T) {
	lines := []Line{{Kind: Normal, Text: "only line"}}
	in := baseInput(lines)
	in.ViewportRows = 5
	in.HasOverlay = false
	out := VisibleTranscriptLines(in)
	require.Len(t, out, 5)
	assert.Equal(t, "", out[0])
	assert.Contains(t, out[len(out)-1], "only line")
}

func TestPaddingCentersWithOverlay(t *testing.T) {
	lines := []Line{{Kind: Overlay, Text: "overlay content"}}
	in := baseInput(lines)
	in.ViewportRows = 5
	in.HasOverlay = true
	out := VisibleTranscriptLines(in)
	require.Len(t, out, 5)
	assert.Equal(t, "", out[0])
	assert.Equal(t, "", out[len(out)-1])
}

func TestWrapDisplayWidthRespectsColumns(t *testing.T) {
	out := WrapDisplayWidth(strings.Repeat("a", 200), 80)
	for _, line := range out {
		assert.LessOrEqual(t, len([]rune(line)), 80)
	}
	assert.Equal(t, 200, sumLens(out))
}

func sumLens(lines []string) int {
	total := 0
	for _, l := range lines {
		total += len([]rune(l))
	}
	return total
}

func TestRenderTableLineCount(t *testing.T) {
	header := []string{"Name", "Age"}
	rows := [][]string{{"Alice", "30"}, {"Bob", "7"}}
	out := RenderTable(header, rows, theme.Get("dark"))
	require.Len(t, out, 6) // top, header, separator, 2 rows, bottom
}
