package session

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pixyterm/pixy/internal/theme"
)

// TerminalMultiplexer identifies a terminal multiplexer wrapping the real
// terminal, which changes how OSC escape sequences must be framed to reach
// it (spec.md §5's "tmux-wrapped variants are emitted when running inside
// tmux").
type TerminalMultiplexer int

const (
	MultiplexerNone TerminalMultiplexer = iota
	MultiplexerTmux
)

// TerminalCapabilities describes the host terminal environment the scoped
// resource holder needs to know about beyond raw-mode/alt-screen support.
type TerminalCapabilities struct {
	Multiplexer TerminalMultiplexer
}

// DetectCapabilities inspects the process environment for a running
// multiplexer, the same check the original implementation performs via
// $TMUX.
func DetectCapabilities() TerminalCapabilities {
	if os.Getenv("TMUX") != "" {
		return TerminalCapabilities{Multiplexer: MultiplexerTmux}
	}
	return TerminalCapabilities{}
}

// kittyKeyboardPush/Pop negotiate the keyboard-enhancement protocol
// (progressive enhancement flags 1 = disambiguate escape codes), ignored by
// terminals that don't support it. Alt-screen entry and mouse reporting are
// bubbletea's to own (tea.WithAltScreen/tea.WithMouseCellMotion), not
// duplicated here.
const (
	kittyKeyboardPush = "\x1b[>1u"
	kittyKeyboardPop  = "\x1b[<u"
)

// selectionOSCSetSequence returns a single BEL-terminated OSC 17/19 pair
// setting the terminal's text selection background/foreground colors to the
// theme's selection colors.
func selectionOSCSetSequence(th theme.Theme) string {
	return fmt.Sprintf("\x1b]17;%s\a\x1b]19;%s\a", th.SelectionBackground, th.SelectionForeground)
}

// selectionOSCResetSequence resets both selection colors via OSC 117/119.
func selectionOSCResetSequence() string {
	return "\x1b]117;\a\x1b]119;\a"
}

// selectionOSCSetSequences returns every representation of the selection-set
// sequence worth emitting (the hex/BEL pair, plus rgb/BEL and rgb/ST
// variants, for broader terminal compatibility), wrapped for the detected
// multiplexer.
func selectionOSCSetSequences(th theme.Theme, caps TerminalCapabilities) []string {
	bg := hexToRGBColon(string(th.SelectionBackground))
	fg := hexToRGBColon(string(th.SelectionForeground))
	seqs := []string{
		selectionOSCSetSequence(th),
		fmt.Sprintf("\x1b]17;rgb:%s\a\x1b]19;rgb:%s\a", bg, fg),
		fmt.Sprintf("\x1b]17;rgb:%s\x1b\\\x1b]19;rgb:%s\x1b\\", bg, fg),
	}
	return wrapAllForMultiplexer(seqs, caps)
}

// selectionOSCResetSequences mirrors selectionOSCSetSequences for the reset
// case.
func selectionOSCResetSequences(caps TerminalCapabilities) []string {
	return wrapAllForMultiplexer([]string{selectionOSCResetSequence()}, caps)
}

func wrapAllForMultiplexer(seqs []string, caps TerminalCapabilities) []string {
	if caps.Multiplexer != MultiplexerTmux {
		return seqs
	}
	out := make([]string, len(seqs))
	for i, s := range seqs {
		out[i] = wrapForTmux(s)
	}
	return out
}

// wrapForTmux wraps an escape sequence in a tmux DCS passthrough so it
// reaches the real terminal instead of being swallowed by tmux. Embedded ESC
// bytes must be doubled per the DCS passthrough escaping rule.
func wrapForTmux(seq string) string {
	escaped := strings.ReplaceAll(seq, "\x1b", "\x1b\x1b")
	return "\x1bPtmux;" + escaped + "\x1b\\"
}

// hexToRGBColon converts "#rrggbb" to "rr/gg/bb" for the rgb: OSC color
// syntax. Malformed input is returned unchanged.
func hexToRGBColon(hex string) string {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return hex
	}
	return hex[0:2] + "/" + hex[2:4] + "/" + hex[4:6]
}

// TerminalHandle is a scope-bound holder for the terminal resources bubbletea
// itself has no concept of: keyboard-enhancement flags and selection OSC
// colors. Raw mode and the alternate screen are owned entirely by
// tea.Program (started with tea.WithAltScreen()); this handle only layers
// the extra sequences around that lifecycle: cmd/pixy acquires them before
// tea.Program starts and releases them (deferred) after it exits.
// Release restores every acquired sequence, in reverse order, and is safe to
// call more than once.
type TerminalHandle struct {
	w        io.Writer
	caps     TerminalCapabilities
	released bool
}

// SetupTerminal pushes the keyboard-enhancement flags (without probing for
// support) and writes the selection-color OSC sequences. It never touches raw mode or the alternate screen — the
// caller is expected to run tea.Program with tea.WithAltScreen() around this
// handle's lifetime.
func SetupTerminal(w io.Writer, th theme.Theme) *TerminalHandle {
	caps := DetectCapabilities()
	h := &TerminalHandle{w: w, caps: caps}

	fmt.Fprint(w, kittyKeyboardPush)
	for _, seq := range selectionOSCSetSequences(th, caps) {
		fmt.Fprint(w, seq)
	}

	return h
}

// Release restores every acquired sequence. Safe to call multiple times and
// on every exit path (normal return, error return, or panic via a deferred
// call), per spec.md §5's "scope-bound restorer" requirement.
func (h *TerminalHandle) Release() {
	if h.released {
		return
	}
	h.released = true

	for _, seq := range selectionOSCResetSequences(h.caps) {
		fmt.Fprint(h.w, seq)
	}
	fmt.Fprint(h.w, kittyKeyboardPop)
}
