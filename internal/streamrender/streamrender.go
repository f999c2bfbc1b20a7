// Package streamrender folds incremental backend.StreamUpdate events into a
// transcript.Transcript, per spec.md §4.4. It also provides a CLI-alternate
// sink for when no TUI is active, grounded on the teacher's
// internal/ui/stream.go KITT-animation/spinner idiom.
package streamrender

import (
	"regexp"
	"strings"

	"github.com/pixyterm/pixy/internal/transcript"
)

// UpdateKind classifies a StreamUpdate. Mirrors internal/backend.StreamUpdate
// without importing it, so this package stays a leaf in the dependency
// order declared in SPEC_FULL.md.
type UpdateKind int

const (
	AssistantTextDelta UpdateKind = iota
	AssistantLine
	ToolLine
)

// Update is one incremental event emitted by a backend during a generation.
type Update struct {
	Kind UpdateKind
	Text string
}

// WorkingLabel tracks the working-line status message. Folder.Apply sets it
// on every update: assistant deltas and lines select LabelStreaming, a tool
// run header selects LabelInvokingTools, and other tool output selects
// LabelThinking, so it can move between all three states mid-stream.
type WorkingLabel int

const (
	LabelThinking WorkingLabel = iota
	LabelStreaming
	LabelInvokingTools
)

// Folder applies Update events to a transcript.Transcript, tracking the
// open assistant-delta line and the working label.
type Folder struct {
	t *transcript.Transcript

	deltaOpen bool
	label     WorkingLabel
}

// NewFolder creates a Folder writing into t.
func NewFolder(t *transcript.Transcript) *Folder {
	return &Folder{t: t, label: LabelThinking}
}

// Label returns the current working-line label.
func (f *Folder) Label() WorkingLabel {
	return f.label
}

var legacyToolHeaderRe = regexp.MustCompile(`^\[tool:([^:]+):([^\]]+)\]$`)

// Apply folds one Update into the transcript.
func (f *Folder) Apply(u Update, stillWorking bool) {
	switch u.Kind {
	case AssistantTextDelta:
		f.label = LabelStreaming
		f.applyDelta(u.Text)

	case AssistantLine:
		f.deltaOpen = false
		f.label = LabelStreaming
		f.applyLine(u.Text, stillWorking)

	case ToolLine:
		f.deltaOpen = false
		f.applyToolLine(u.Text)
	}
}

func (f *Folder) applyDelta(s string) {
	segments := strings.Split(s, "\n")
	for i, seg := range segments {
		if i == 0 && f.deltaOpen && len(f.t.Lines) > 0 {
			last := &f.t.Lines[len(f.t.Lines)-1]
			if last.Kind == transcript.Assistant {
				last.Text += seg
				continue
			}
		}
		f.t.Append(transcript.Assistant, seg)
		f.deltaOpen = true
	}
}

func (f *Folder) applyLine(s string, stillWorking bool) {
	if strings.HasPrefix(s, "[thinking]") && stillWorking {
		if n := len(f.t.Lines); n > 0 && f.t.Lines[n-1].Kind == transcript.Thinking {
			f.t.Lines[n-1].Text = s
			return
		}
		f.t.Append(transcript.Thinking, s)
		return
	}
	f.t.Append(transcript.Assistant, s)
}

func (f *Folder) applyToolLine(payload string) {
	if payload == "" {
		return
	}

	normalized := payload
	isHeader := false
	if m := legacyToolHeaderRe.FindStringSubmatch(payload); m != nil {
		normalized = "• Ran " + m[1]
		isHeader = true
		f.label = LabelInvokingTools
	} else {
		f.label = LabelThinking
	}

	for _, line := range strings.Split(normalized, "\n") {
		if line == "" {
			continue
		}
		if isHeader {
			f.t.AppendHeader(line)
		} else {
			f.t.Append(transcript.Tool, line)
		}
	}
}
