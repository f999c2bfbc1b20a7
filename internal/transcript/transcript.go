// Package transcript implements the append-only transcript log and the pure
// visible-window projector described in spec.md §4.2: wrapping, scrolling,
// tool-output compaction, and the inline markdown/table/code renderer that
// styles each line before it reaches the terminal.
package transcript

import "github.com/pixyterm/pixy/internal/theme"

// Kind classifies a transcript Line for filtering and styling purposes.
type Kind int

const (
	Normal Kind = iota
	Assistant
	Thinking
	Tool
	UserInput
	Working
	Overlay
)

// Line is one entry in the append-only transcript log. Text is the raw,
// unstyled source text for the line; styling is applied at projection time
// so the same Line can be re-rendered under a different theme or width.
type Line struct {
	Kind Kind
	Text string

	// Header is true for lines like "Ran <command>" that begin a
	// compactable Tool block.
	Header bool
}

// Transcript is the ordered append-only log.
type Transcript struct {
	Lines []Line
}

// Append adds a line to the end of the transcript.
func (t *Transcript) Append(kind Kind, text string) {
	t.Lines = append(t.Lines, Line{Kind: kind, Text: text})
}

// AppendHeader adds a Tool-block header line (e.g. "Ran go test ./...").
func (t *Transcript) AppendHeader(text string) {
	t.Lines = append(t.Lines, Line{Kind: Tool, Text: text, Header: true})
}

// ReplaceLastThinking rewrites the most recent Thinking line in place, or
// appends a new one if the last line isn't Thinking. internal/streamrender's
// Folder applies its own "[thinking]" rewrite inline and does not call it.
func (t *Transcript) ReplaceLastThinking(text string) {
	if n := len(t.Lines); n > 0 && t.Lines[n-1].Kind == Thinking {
		t.Lines[n-1].Text = text
		return
	}
	t.Append(Thinking, text)
}

// ProjectionInput bundles the pure inputs to VisibleTranscriptLines.
type ProjectionInput struct {
	Lines             []Line
	ViewportRows      int
	ViewportCols      int
	ShowToolResults   bool
	ShowThinking      bool
	WorkingLine       string // empty means no working line
	ScrollFromBottom  int
	Theme             theme.Theme
	HasOverlay        bool
}

// StyledLine is one line of final, theme-styled output ready to print.
type StyledLine struct {
	Text string
	Kind Kind
}
