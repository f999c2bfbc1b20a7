package session

import (
	"strconv"
	"strings"

	"github.com/pixyterm/pixy/internal/backend"
	"github.com/pixyterm/pixy/internal/editor"
	"github.com/pixyterm/pixy/internal/keybind"
	"github.com/pixyterm/pixy/internal/transcript"
)

// RuntimeState is the mutable state handle_streaming_event (and its idle
// counterpart) act on. It bundles exactly the pieces spec.md §4.1 names:
// the input editor, the transcript, the follow-up queue, and status/scroll.
// Keeping it as an explicit struct rather than methods on Runtime lets the
// dispatch functions stay pure in the spec's sense — no hidden state beyond
// what is passed in.
type RuntimeState struct {
	Editor      *editor.Buffer
	Transcript  *transcript.Transcript
	Followups   *editor.FollowupQueue
	ImageLookup editor.ImageLookup
	Status      string

	// ScrollFromBottom is the transcript scroll offset; 0 means pinned to
	// the tail.
	ScrollFromBottom int
}

// StreamingEventOutcome reports what handle_streaming_event decided.
type StreamingEventOutcome struct {
	Interrupted bool
	UIChanged   bool
	ForceExit   bool
}

const maxTranscriptScroll = 1 << 20 // clamped again by the projector; this just prevents unbounded growth

// HandleStreamingEvent implements spec.md §4.1's numbered precedence list
// for events observed while a generation is in flight. abort may be nil
// only in tests that don't exercise the interrupt branch.
func HandleStreamingEvent(ev Event, bindings keybind.Bindings, abort *backend.AbortController, st *RuntimeState) StreamingEventOutcome {
	switch ev.Kind {
	case EventMouseScrollUp:
		if !navigateHistory(st, true) {
			scrollTranscript(st, 1)
		}
		return StreamingEventOutcome{UIChanged: true}

	case EventMouseScrollDown:
		if !navigateHistory(st, false) {
			scrollTranscript(st, -1)
		}
		return StreamingEventOutcome{UIChanged: true}

	case EventPaste:
		outcome := st.Editor.HandlePasteEvent(ev.PastePayload, st.ImageLookup)
		if outcome.Err != nil {
			st.Status = "paste failed: " + outcome.Err.Error()
		}
		return StreamingEventOutcome{UIChanged: true}
	}

	if ev.Kind != EventKey {
		return StreamingEventOutcome{}
	}
	if ev.Key.IsRelease {
		return StreamingEventOutcome{}
	}

	label := ev.Key.Label

	if bindings.Matches(keybind.Exit, label) {
		st.Status = "force exiting..."
		return StreamingEventOutcome{ForceExit: true, UIChanged: true}
	}

	if bindings.Matches(keybind.Interrupt, label) {
		if st.Status == "interrupting..." || st.Status == "interrupted" {
			return StreamingEventOutcome{}
		}
		if abort != nil {
			abort.Abort()
		}
		st.Status = "interrupting..."
		return StreamingEventOutcome{Interrupted: true, UIChanged: true}
	}

	if bindings.Matches(keybind.FollowUp, label) || label == "enter" {
		if st.Editor.Len() > 0 {
			payload := st.Editor.TakeInputPayload()
			text := strings.TrimSpace(payload.Display)
			if text == "" {
				return StreamingEventOutcome{}
			}
			st.Editor.RecordInputHistory(text)
			st.Followups.Enqueue(text)
			st.Status = queuedFollowUpStatus(st.Followups.Len())
			return StreamingEventOutcome{UIChanged: true}
		}
		return StreamingEventOutcome{}
	}

	if bindings.Matches(keybind.Dequeue, label) {
		if joined, ok := st.Followups.Dequeue(); ok {
			st.Editor.SetValue(joined)
			st.Status = editingQueuedStatus(strings.Count(joined, "\n") + 1)
			return StreamingEventOutcome{UIChanged: true}
		}
		return StreamingEventOutcome{}
	}

	if label == "ctrl+j" || bindings.Matches(keybind.Newline, label) {
		st.Editor.InsertChar('\n')
		return StreamingEventOutcome{UIChanged: true}
	}

	if (label == "up" || label == "down") && editorAtHistoryBoundary(st.Editor, label == "up") {
		return StreamingEventOutcome{UIChanged: navigateHistory(st, label == "up")}
	}

	switch label {
	case "up":
		scrollTranscript(st, 1)
		return StreamingEventOutcome{UIChanged: true}
	case "down":
		scrollTranscript(st, -1)
		return StreamingEventOutcome{UIChanged: true}
	case "pageup":
		scrollTranscript(st, 10)
		return StreamingEventOutcome{UIChanged: true}
	case "pagedown":
		scrollTranscript(st, -10)
		return StreamingEventOutcome{UIChanged: true}
	}

	return applyEditorKey(ev.Key, st)
}

// HandleIdleEvent applies the same precedence minus the interrupt branch,
// per spec.md §4.1 ("idle-time dispatch uses the same precedence minus the
// abort branch"). Slash commands are parsed by the caller before input
// reaches here.
func HandleIdleEvent(ev Event, bindings keybind.Bindings, st *RuntimeState) StreamingEventOutcome {
	switch ev.Kind {
	case EventMouseScrollUp:
		if !navigateHistory(st, true) {
			scrollTranscript(st, 1)
		}
		return StreamingEventOutcome{UIChanged: true}
	case EventMouseScrollDown:
		if !navigateHistory(st, false) {
			scrollTranscript(st, -1)
		}
		return StreamingEventOutcome{UIChanged: true}
	case EventPaste:
		outcome := st.Editor.HandlePasteEvent(ev.PastePayload, st.ImageLookup)
		if outcome.Err != nil {
			st.Status = "paste failed: " + outcome.Err.Error()
		}
		return StreamingEventOutcome{UIChanged: true}
	}

	if ev.Kind != EventKey || ev.Key.IsRelease {
		return StreamingEventOutcome{}
	}

	label := ev.Key.Label

	if bindings.Matches(keybind.Exit, label) {
		if st.Editor.Len() > 0 {
			st.Status = "input not empty; clear first"
			return StreamingEventOutcome{UIChanged: true}
		}
		st.Status = "force exiting..."
		return StreamingEventOutcome{ForceExit: true, UIChanged: true}
	}

	if label == "ctrl+j" || bindings.Matches(keybind.Newline, label) {
		st.Editor.InsertChar('\n')
		return StreamingEventOutcome{UIChanged: true}
	}

	if (label == "up" || label == "down") && editorAtHistoryBoundary(st.Editor, label == "up") {
		return StreamingEventOutcome{UIChanged: navigateHistory(st, label == "up")}
	}

	switch label {
	case "up":
		scrollTranscript(st, 1)
		return StreamingEventOutcome{UIChanged: true}
	case "down":
		scrollTranscript(st, -1)
		return StreamingEventOutcome{UIChanged: true}
	case "pageup":
		scrollTranscript(st, 10)
		return StreamingEventOutcome{UIChanged: true}
	case "pagedown":
		scrollTranscript(st, -10)
		return StreamingEventOutcome{UIChanged: true}
	}

	return applyEditorKey(ev.Key, st)
}

func queuedFollowUpStatus(n int) string {
	return "queued follow-up (" + strconv.Itoa(n) + ")"
}

func editingQueuedStatus(n int) string {
	return "editing " + strconv.Itoa(n) + " queued message(s)"
}

func editorAtHistoryBoundary(e *editor.Buffer, up bool) bool {
	if e.Len() == 0 {
		return true
	}
	if up {
		return e.CursorPos() == 0
	}
	return e.CursorPos() == e.Len()
}

func navigateHistory(st *RuntimeState, up bool) bool {
	if up {
		return st.Editor.NavigateHistoryUp()
	}
	return st.Editor.NavigateHistoryDown()
}

func scrollTranscript(st *RuntimeState, delta int) {
	st.ScrollFromBottom += delta
	if st.ScrollFromBottom < 0 {
		st.ScrollFromBottom = 0
	}
	if st.ScrollFromBottom > maxTranscriptScroll {
		st.ScrollFromBottom = maxTranscriptScroll
	}
}

func applyEditorKey(k KeyEvent, st *RuntimeState) StreamingEventOutcome {
	switch k.Label {
	case "left":
		st.Editor.MoveLeft()
	case "right":
		st.Editor.MoveRight()
	case "home":
		st.Editor.MoveHome()
	case "end":
		st.Editor.MoveEnd()
	case "backspace":
		if st.Editor.CursorPos() == 0 {
			return StreamingEventOutcome{}
		}
		st.Editor.DeleteCharBeforeCursor()
	case "ctrl+u":
		st.Editor.DeleteToStart()
	case "ctrl+k":
		st.Editor.DeleteToEnd()
	case "ctrl+w":
		st.Editor.DeleteWordBackward()
	case "ctrl+a":
		st.Editor.MoveHome()
	case "ctrl+e":
		st.Editor.MoveEnd()
	default:
		if k.HasRune && k.Rune != 0 {
			st.Editor.InsertChar(k.Rune)
			return StreamingEventOutcome{UIChanged: true}
		}
		return StreamingEventOutcome{}
	}
	return StreamingEventOutcome{UIChanged: true}
}
