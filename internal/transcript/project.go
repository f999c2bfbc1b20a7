package transcript

import (
	"strconv"
	"strings"
)

// toolCompactionThreshold is the number of output lines a Ran-header Tool
// block must exceed before compaction keeps only the header, the first and
// last output lines, and a "… +N lines" marker.
const toolCompactionThreshold = 8

// VisibleTranscriptLines is the pure projection function described in
// spec.md §4.2: (lines, viewport, flags, working line, scroll, theme) →
// styled output lines. It never mutates the source Transcript.
func VisibleTranscriptLines(in ProjectionInput) []string {
	filtered := filterLines(in.Lines, in.ShowToolResults, in.ShowThinking)
	blocks := groupBlocks(filtered)
	blocks = compactToolBlocks(blocks)

	var rendered []string
	var prevKind Kind
	havePrev := false
	for _, blk := range blocks {
		if havePrev && needsBlankSeparator(prevKind, blk.kind, rendered) {
			rendered = append(rendered, "")
		}
		for _, line := range blk.lines {
			rendered = append(rendered, wrapAndStyle(line, blk.kind, in)...)
		}
		prevKind = blk.kind
		havePrev = true
	}

	if in.WorkingLine != "" {
		if len(rendered) > 0 && rendered[len(rendered)-1] != "" {
			rendered = append(rendered, "")
		}
		rendered = append(rendered, in.WorkingLine)
	}

	rendered = applyScroll(rendered, in.ScrollFromBottom, in.ViewportRows)
	rendered = applyPadding(rendered, in.ViewportRows, in.HasOverlay)
	return rendered
}

func filterLines(lines []Line, showTool, showThinking bool) []Line {
	var out []Line
	for _, l := range lines {
		if l.Kind == Tool && !showTool {
			continue
		}
		if l.Kind == Thinking && !showThinking {
			continue
		}
		out = append(out, l)
	}
	return out
}

// block is a maximal run of consecutive lines sharing the same Kind.
type block struct {
	kind    Kind
	lines   []Line
	headers []bool
}

func groupBlocks(lines []Line) []block {
	var out []block
	for _, l := range lines {
		if len(out) > 0 && out[len(out)-1].kind == l.Kind {
			out[len(out)-1].lines = append(out[len(out)-1].lines, l)
			continue
		}
		out = append(out, block{kind: l.Kind, lines: []Line{l}})
	}
	return out
}

// compactToolBlocks keeps the "Ran ..." header, the first and last body
// lines, and a "… +N lines" marker for the N body lines between them, for
// any Tool block whose body exceeds toolCompactionThreshold lines. Compaction is applied only to the
// projected copy; the caller's Transcript.Lines is never touched.
func compactToolBlocks(blocks []block) []block {
	out := make([]block, len(blocks))
	copy(out, blocks)
	for i, blk := range out {
		if blk.kind != Tool || len(blk.lines) == 0 || !blk.lines[0].Header {
			continue
		}
		body := blk.lines[1:]
		if len(body) <= toolCompactionThreshold {
			continue
		}
		compacted := []Line{blk.lines[0], body[0]}
		hidden := len(body) - 2
		compacted = append(compacted, Line{Kind: Tool, Text: strings.TrimSpace(
			"… +" + strconv.Itoa(hidden) + " lines")})
		compacted = append(compacted, body[len(body)-1])
		out[i].lines = compacted
	}
	return out
}

// needsBlankSeparator decides whether a blank line must precede a new
// block: exactly one blank line between a Normal/Assistant block and a
// following Tool block, unless the rendered tail is already blank.
func needsBlankSeparator(prev, next Kind, renderedSoFar []string) bool {
	if len(renderedSoFar) > 0 && renderedSoFar[len(renderedSoFar)-1] == "" {
		return false
	}
	isProseKind := func(k Kind) bool { return k == Normal || k == Assistant }
	return isProseKind(prev) && next == Tool
}

// wrapAndStyle renders one source Line into zero or more output lines:
// diff/diffstat styling for Tool lines, otherwise section-header or inline
// markdown, path-token and key-token styling, then width-aware wrapping.
// Each line is styled on its own: GFM tables and fenced code blocks are not
// detected here, and RenderTable/RenderCodeBlock are not called.
func wrapAndStyle(l Line, kind Kind, in ProjectionInput) []string {
	text := l.Text

	switch {
	case kind == Tool && IsDiffstatLine(text):
		text = RenderDiffstatLine(text, in.Theme)
	case kind == Tool && IsDiffLine(text):
		text = RenderDiffLine(text, in.Theme)
	default:
		if styled, ok := RenderSectionHeader(text, in.Theme); ok {
			text = styled
		} else {
			text = RenderInlineMarkdown(text, in.Theme)
			text = StylePathTokens(text, in.Theme)
			text = StyleKeybindingTokens(text, in.Theme)
		}
	}

	return WrapDisplayWidth(text, in.ViewportCols)
}

// applyScroll clamps the visible window so its bottom sits scrollFromBottom
// lines above the end of rendered, never scrolling past the top.
func applyScroll(rendered []string, scrollFromBottom, viewportRows int) []string {
	n := len(rendered)
	if n == 0 {
		return rendered
	}
	maxScroll := n
	if viewportRows > 0 && n > viewportRows {
		maxScroll = n - viewportRows
	} else {
		maxScroll = 0
	}
	if scrollFromBottom < 0 {
		scrollFromBottom = 0
	}
	if scrollFromBottom > maxScroll {
		scrollFromBottom = maxScroll
	}

	end := n - scrollFromBottom
	if end < 0 {
		end = 0
	}
	start := 0
	if viewportRows > 0 && end-viewportRows > 0 {
		start = end - viewportRows
	}
	return rendered[start:end]
}

// applyPadding pads rendered to viewportRows: top-and-bottom (centering)
// when an overlay is present, top-only otherwise.
func applyPadding(rendered []string, viewportRows int, hasOverlay bool) []string {
	if viewportRows <= 0 || len(rendered) >= viewportRows {
		return rendered
	}
	deficit := viewportRows - len(rendered)
	if !hasOverlay {
		return append(make([]string, deficit), rendered...)
	}
	top := deficit / 2
	bottom := deficit - top
	out := make([]string, 0, viewportRows)
	out = append(out, make([]string, top)...)
	out = append(out, rendered...)
	out = append(out, make([]string, bottom)...)
	return out
}
