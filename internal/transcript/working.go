package transcript

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/pixyterm/pixy/internal/theme"
)

// brailleFrames is the ten-frame braille spinner sequence named in
// spec.md §4.2.
var brailleFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Phase is the session state driving the working-line status message.
type Phase int

const (
	PhaseThinking Phase = iota
	PhaseStreaming
	PhaseInvokingTools
	PhaseInterrupting
)

func (p Phase) label() string {
	switch p {
	case PhaseThinking:
		return "Thinking..."
	case PhaseStreaming:
		return "Streaming..."
	case PhaseInvokingTools:
		return "Invoking tools..."
	case PhaseInterrupting:
		return "interrupting..."
	default:
		return ""
	}
}

const marqueeWidth = 4

// WorkingLine renders one frame of the working-line animation: a braille
// spinner frame, the phase's status message with a moving 4-character
// marquee highlight, and a right-side interrupt-key hint.
//
// tick is a monotonically increasing frame counter; callers pass the same
// counter driving the ~120ms session tick (spec.md §5).
func WorkingLine(phase Phase, tick int, interruptKey string, th theme.Theme) string {
	spinner := brailleFrames[tick%len(brailleFrames)]
	spinnerStyled := lipgloss.NewStyle().Foreground(th.Primary).Render(spinner)

	message := phase.label()
	highlighted := marqueeHighlight(message, tick, th)

	hint := lipgloss.NewStyle().Foreground(th.Muted).Render("[" + interruptKey + " to interrupt]")

	return spinnerStyled + " " + highlighted + "  " + hint
}

// marqueeHighlight advances a marqueeWidth-character highlight window across
// message, one character per tick, wrapping modulo the message length.
func marqueeHighlight(message string, tick int, th theme.Theme) string {
	runes := []rune(message)
	n := len(runes)
	if n == 0 {
		return message
	}

	start := tick % n
	end := start + marqueeWidth

	base := lipgloss.NewStyle().Foreground(th.Text)
	highlight := lipgloss.NewStyle().Foreground(th.WorkingHighlight).Bold(true)

	var b strings.Builder
	for i := 0; i < n; i++ {
		inWindow := i >= start && i < end
		if end > n && i < end-n {
			inWindow = true // wraparound segment
		}
		if inWindow {
			b.WriteString(highlight.Render(string(runes[i])))
		} else {
			b.WriteString(base.Render(string(runes[i])))
		}
	}
	return b.String()
}
