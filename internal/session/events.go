package session

import "github.com/pixyterm/pixy/internal/backend"

// EventKind classifies the inputs the runtime's event loop reconciles,
// mirroring spec.md §4.1's event taxonomy (key/mouse/paste/tick/stream).
type EventKind int

const (
	EventKey EventKind = iota
	EventMouseScrollUp
	EventMouseScrollDown
	EventPaste
	EventTick
	EventStreamUpdate
	EventStreamDone
	EventOther
)

// Scroll direction is carried by EventMouseScrollUp/EventMouseScrollDown;
// there is no separate direction type.

// KeyEvent carries the label the keybind grammar expects (e.g. "ctrl+c",
// "enter", "a") plus the printable rune, if any, for plain-character input.
type KeyEvent struct {
	Label     string
	Rune      rune
	HasRune   bool
	IsRelease bool
}

// Event is the single envelope type handle_streaming_event and its idle
// counterpart dispatch over. Exactly one of the typed fields is meaningful,
// selected by Kind.
type Event struct {
	Kind        EventKind
	Key         KeyEvent
	PastePayload string
	Update      backend.StreamUpdate
}
