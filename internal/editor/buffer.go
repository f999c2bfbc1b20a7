// Package editor implements the input editor described in spec.md §4.3: a
// character-indexed text buffer with cursor motion, region deletion, a
// history ring, paste/attachment placeholder tables, and a follow-up queue.
package editor

import (
	"fmt"
	"strings"
	"unicode"
)

// ImageBlock is the non-text content produced by take_input_payload when
// pending image attachments are consumed. It mirrors the image content-part
// shape internal/backend expects on submission.
type ImageBlock struct {
	Placeholder string
	Path        string
	MimeType    string
	Data        []byte
}

// Buffer is the editable input: a rune sequence plus a character-index
// cursor, per spec.md's explicit "not a byte index" requirement.
type Buffer struct {
	runes  []rune
	cursor int

	pendingText  map[string]string     // placeholder -> original text
	pendingImage map[string]ImageBlock // placeholder -> image block
	nextTextID   int
	nextImageID  int

	history        *HistoryRing
	historyCursor  int    // -1 when not navigating
	navigationStash string

	// ScrollReset is flipped to true by the character-editing operations
	// (SetValue and TakeInputPayload do not set it); callers
	// should check and clear it to reset transcript_scroll_from_bottom, per
	// spec.md's "editing any input character resets ... to 0" invariant.
	ScrollReset bool
}

// New creates an empty Buffer backed by the given history ring.
func New(history *HistoryRing) *Buffer {
	return &Buffer{
		pendingText:   map[string]string{},
		pendingImage:  map[string]ImageBlock{},
		history:       history,
		historyCursor: -1,
	}
}

// Value returns the current buffer contents as a string.
func (b *Buffer) Value() string {
	return string(b.runes)
}

// CursorPos returns the current character-index cursor position.
func (b *Buffer) CursorPos() int {
	return b.cursor
}

// Len returns the number of characters (runes) in the buffer.
func (b *Buffer) Len() int {
	return len(b.runes)
}

func (b *Buffer) touch() {
	b.ScrollReset = true
}

// InsertChar inserts a single rune at the cursor and advances it.
func (b *Buffer) InsertChar(c rune) {
	b.InsertText(string(c))
}

// InsertText inserts s at the cursor, advances the cursor by its rune count,
// resets history navigation, and marks the buffer touched.
func (b *Buffer) InsertText(s string) {
	in := []rune(s)
	if len(in) == 0 {
		return
	}
	b.runes = append(b.runes[:b.cursor:b.cursor], append(append([]rune{}, in...), b.runes[b.cursor:]...)...)
	b.cursor += len(in)
	b.resetHistoryNav()
	b.touch()
}

// DeleteCharBeforeCursor is backspace; a no-op at column 0.
func (b *Buffer) DeleteCharBeforeCursor() {
	if b.cursor == 0 {
		return
	}
	b.runes = append(b.runes[:b.cursor-1], b.runes[b.cursor:]...)
	b.cursor--
	b.resetHistoryNav()
	b.touch()
}

// MoveLeft moves the cursor left, bounded at 0.
func (b *Buffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// MoveRight moves the cursor right, bounded at buffer length.
func (b *Buffer) MoveRight() {
	if b.cursor < len(b.runes) {
		b.cursor++
	}
}

// MoveHome moves the cursor to the start of the buffer.
func (b *Buffer) MoveHome() {
	b.cursor = 0
}

// MoveEnd moves the cursor to the end of the buffer.
func (b *Buffer) MoveEnd() {
	b.cursor = len(b.runes)
}

// DeleteToStart deletes from the buffer start through the cursor (Ctrl+U).
func (b *Buffer) DeleteToStart() {
	if b.cursor == 0 {
		return
	}
	b.runes = append([]rune{}, b.runes[b.cursor:]...)
	b.cursor = 0
	b.touch()
}

// DeleteToEnd deletes from the cursor through the buffer end (Ctrl+K).
func (b *Buffer) DeleteToEnd() {
	if b.cursor == len(b.runes) {
		return
	}
	b.runes = append([]rune{}, b.runes[:b.cursor]...)
	b.touch()
}

// DeleteWordBackward deletes the whitespace-delimited word before the cursor
// (Ctrl+W).
func (b *Buffer) DeleteWordBackward() {
	if b.cursor == 0 {
		return
	}
	i := b.cursor
	for i > 0 && unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(b.runes[i-1]) {
		i--
	}
	b.runes = append(b.runes[:i], b.runes[b.cursor:]...)
	b.cursor = i
	b.touch()
}

// SetValue replaces the buffer contents outright, placing the cursor at the
// end. Used when restoring a history entry or a navigation stash.
func (b *Buffer) SetValue(s string) {
	b.runes = []rune(s)
	b.cursor = len(b.runes)
}

func (b *Buffer) resetHistoryNav() {
	b.historyCursor = -1
	b.navigationStash = ""
}

// RecordInputHistory appends s to the history ring if it differs from the
// most recent entry.
func (b *Buffer) RecordInputHistory(s string) {
	if b.history != nil {
		b.history.Record(s)
	}
	b.resetHistoryNav()
}

// HistoryEntries returns the current contents of the backing history ring,
// for persistence by internal/historystore. Returns nil if the buffer has
// no history ring attached.
func (b *Buffer) HistoryEntries() []string {
	if b.history == nil {
		return nil
	}
	return b.history.Entries()
}

// NavigateHistoryUp walks the ring backward, stashing the in-progress edit
// on first invocation. Returns false (a no-op) if history is empty or
// already at the oldest entry.
func (b *Buffer) NavigateHistoryUp() bool {
	if b.history == nil || b.history.Len() == 0 {
		return false
	}
	if b.historyCursor == -1 {
		b.navigationStash = b.Value()
		b.historyCursor = b.history.Len() - 1
	} else if b.historyCursor > 0 {
		b.historyCursor--
	} else {
		return false
	}
	b.SetValue(b.history.At(b.historyCursor))
	return true
}

// NavigateHistoryDown walks the ring forward, restoring the navigation
// stash once the newest entry is passed. Returns false if not currently
// navigating history.
func (b *Buffer) NavigateHistoryDown() bool {
	if b.historyCursor == -1 {
		return false
	}
	if b.historyCursor < b.history.Len()-1 {
		b.historyCursor++
		b.SetValue(b.history.At(b.historyCursor))
		return true
	}
	b.historyCursor = -1
	b.SetValue(b.navigationStash)
	b.navigationStash = ""
	return true
}

// Payload is the atomic result of TakeInputPayload.
type Payload struct {
	Display  string // buffer text trimmed of surrounding whitespace, placeholders intact
	Expanded string // placeholders resolved to their full text content
	Images   []ImageBlock
}

// TakeInputPayload atomically consumes the buffer: it returns the display
// string (placeholders intact), the expanded string (text placeholders
// substituted with their original content), and any image blocks referenced
// by image placeholders, stripped from the expanded text. The buffer and
// every registered attachment placeholder are cleared.
func (b *Buffer) TakeInputPayload() Payload {
	display := b.Value()

	expanded := display
	for placeholder, text := range b.pendingText {
		expanded = strings.ReplaceAll(expanded, placeholder, text)
	}

	var images []ImageBlock
	for placeholder, img := range b.pendingImage {
		expanded = strings.ReplaceAll(expanded, placeholder, "")
		images = append(images, img)
	}

	b.runes = nil
	b.cursor = 0
	b.pendingText = map[string]string{}
	b.pendingImage = map[string]ImageBlock{}
	b.resetHistoryNav()

	return Payload{
		Display:  strings.TrimSpace(display),
		Expanded: strings.TrimSpace(expanded),
		Images:   images,
	}
}

// PasteOutcome describes the result of HandlePasteEvent, for status-line
// display.
type PasteOutcome struct {
	Status string
	Err    error
}

// HandlePasteEvent classifies an incoming paste per spec.md §4.3: an exact
// "[imageN]" payload attempts an image candidate-directory lookup; payloads
// over 100 characters or containing a newline are coalesced into a text
// placeholder; everything else is inserted verbatim.
func (b *Buffer) HandlePasteEvent(payload string, lookup ImageLookup) PasteOutcome {
	trimmed := strings.TrimSpace(payload)
	if isImagePlaceholder(trimmed) {
		img, err := lookup.Resolve(trimmed)
		if err != nil {
			return PasteOutcome{Status: err.Error(), Err: err}
		}
		placeholder := b.nextImagePlaceholder()
		img.Placeholder = placeholder
		b.pendingImage[placeholder] = img
		b.InsertText(placeholder)
		return PasteOutcome{Status: fmt.Sprintf("attached %s", placeholder)}
	}

	if len([]rune(payload)) > 100 || strings.Contains(payload, "\n") {
		placeholder := b.nextTextPlaceholder(len([]rune(payload)))
		b.pendingText[placeholder] = payload
		b.InsertText(placeholder)
		return PasteOutcome{Status: fmt.Sprintf("pasted %s", placeholder)}
	}

	b.InsertText(payload)
	return PasteOutcome{}
}

func isImagePlaceholder(s string) bool {
	if !strings.HasPrefix(s, "[image") || !strings.HasSuffix(s, "]") {
		return false
	}
	inner := s[len("[image") : len(s)-1]
	if inner == "" {
		return false
	}
	for _, r := range inner {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (b *Buffer) nextTextPlaceholder(charCount int) string {
	b.nextTextID++
	return fmt.Sprintf("[Pasted Content %d chars]", charCount)
}

func (b *Buffer) nextImagePlaceholder() string {
	b.nextImageID++
	return fmt.Sprintf("[image%d]", b.nextImageID)
}
