package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixyterm/pixy/internal/backend"
	"github.com/pixyterm/pixy/internal/editor"
	"github.com/pixyterm/pixy/internal/keybind"
	"github.com/pixyterm/pixy/internal/transcript"
)

func newState() *RuntimeState {
	return &RuntimeState{
		Editor:     editor.New(editor.NewHistoryRing(10)),
		Transcript: &transcript.Transcript{},
		Followups:  &editor.FollowupQueue{},
		Status:     "ok",
	}
}

func key(label string) Event {
	return Event{Kind: EventKey, Key: KeyEvent{Label: label}}
}

func runeKey(r rune) Event {
	return Event{Kind: EventKey, Key: KeyEvent{Label: string(r), Rune: r, HasRune: true}}
}

func TestHandleIdleEventBackspaceAtCursorZeroIsNoOp(t *testing.T) {
	st := newState()
	out := HandleIdleEvent(key("backspace"), keybind.Default(), st)
	assert.False(t, out.UIChanged)
	assert.Equal(t, "", st.Editor.Value())
}

func TestHandleIdleEventUpArrowEmptyHistoryIsNoOp(t *testing.T) {
	st := newState()
	out := HandleIdleEvent(key("up"), keybind.Default(), st)
	assert.False(t, out.UIChanged)
}

func TestHandleStreamingEventEnterAtEndQueuesFollowUp(t *testing.T) {
	st := newState()
	st.Editor.InsertText("do the next thing")

	out := HandleStreamingEvent(key("enter"), keybind.Default(), nil, st)

	require.True(t, out.UIChanged)
	assert.Equal(t, 1, st.Followups.Len())
	assert.Equal(t, "", st.Editor.Value())
	assert.Contains(t, st.Status, "queued follow-up")
}

func TestHandleStreamingEventEnterWithEmptyInputIsNoOp(t *testing.T) {
	st := newState()
	out := HandleStreamingEvent(key("enter"), keybind.Default(), nil, st)
	assert.False(t, out.UIChanged)
	assert.Equal(t, 0, st.Followups.Len())
}

func TestHandleIdleEventCtrlDWithNonEmptyInputSetsStatusWithoutExiting(t *testing.T) {
	st := newState()
	st.Editor.InsertText("not finished yet")

	out := HandleIdleEvent(key("ctrl+d"), keybind.Default(), st)

	assert.False(t, out.ForceExit)
	assert.Equal(t, "input not empty; clear first", st.Status)
}

func TestHandleIdleEventCtrlDWithEmptyInputForceExits(t *testing.T) {
	st := newState()
	out := HandleIdleEvent(key("ctrl+d"), keybind.Default(), st)
	assert.True(t, out.ForceExit)
}

func TestHandleStreamingEventInterruptIsIdempotent(t *testing.T) {
	st := newState()
	abort := backend.NewAbortController(context.Background())

	first := HandleStreamingEvent(key("escape"), keybind.Default(), abort, st)
	require.True(t, first.Interrupted)
	assert.Equal(t, "interrupting...", st.Status)

	second := HandleStreamingEvent(key("escape"), keybind.Default(), abort, st)
	assert.False(t, second.Interrupted)
}

func TestHandleStreamingEventQuitForceExitsFromAnyState(t *testing.T) {
	st := newState()
	out := HandleStreamingEvent(key("ctrl+c"), keybind.Default(), nil, st)
	assert.True(t, out.ForceExit)
}

func TestHandleStreamingEventDequeueRestoresQueueIntoEditor(t *testing.T) {
	st := newState()
	st.Followups.Enqueue("first queued message")

	out := HandleStreamingEvent(key("ctrl+u"), keybind.Default(), nil, st)

	require.True(t, out.UIChanged)
	assert.Equal(t, "first queued message", st.Editor.Value())
	assert.Equal(t, 0, st.Followups.Len())
}

func TestHandleStreamingEventNewlineBindingInsertsNewline(t *testing.T) {
	st := newState()
	st.Editor.InsertText("line one")

	out := HandleStreamingEvent(key("shift+enter"), keybind.Default(), nil, st)

	require.True(t, out.UIChanged)
	assert.Equal(t, "line one\n", st.Editor.Value())
}

func TestHandleIdleEventPlainRuneInsertsCharacter(t *testing.T) {
	st := newState()
	out := HandleIdleEvent(runeKey('x'), keybind.Default(), st)
	assert.True(t, out.UIChanged)
	assert.Equal(t, "x", st.Editor.Value())
}

func TestHandleStreamingEventKeyReleaseIsIgnored(t *testing.T) {
	st := newState()
	ev := Event{Kind: EventKey, Key: KeyEvent{Label: "a", Rune: 'a', HasRune: true, IsRelease: true}}
	out := HandleStreamingEvent(ev, keybind.Default(), nil, st)
	assert.False(t, out.UIChanged)
	assert.Equal(t, "", st.Editor.Value())
}

func TestHandleStreamingEventMouseScrollFallsBackToTranscriptScroll(t *testing.T) {
	st := newState()
	out := HandleStreamingEvent(Event{Kind: EventMouseScrollUp}, keybind.Default(), nil, st)
	assert.True(t, out.UIChanged)
	assert.Equal(t, 1, st.ScrollFromBottom)
}

func TestHandleIdleEventHistoryNavAtInputBoundary(t *testing.T) {
	st := newState()
	st.Editor.RecordInputHistory("previous prompt")

	out := HandleIdleEvent(key("up"), keybind.Default(), st)

	assert.True(t, out.UIChanged)
	assert.Equal(t, "previous prompt", st.Editor.Value())
}
