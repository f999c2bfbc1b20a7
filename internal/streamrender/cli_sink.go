package streamrender

import (
	"fmt"
	"io"
	"strings"

	"github.com/pixyterm/pixy/internal/theme"
	"github.com/pixyterm/pixy/internal/transcript"
)

// CLISink folds Update events directly to a writer when no TUI is active,
// per spec.md §4.4's "CLI-alternate renderer". Assistant deltas stream
// character-wise; "[thinking]" lines are rewritten in place using ANSI
// cursor-up/clear-line sequences; tool lines are optionally suppressed.
type CLISink struct {
	w              io.Writer
	theme          theme.Theme
	suppressTools  bool
	thinkingLines  int // rows occupied by the most recently written thinking block
}

// NewCLISink creates a sink writing to w.
func NewCLISink(w io.Writer, th theme.Theme, suppressTools bool) *CLISink {
	return &CLISink{w: w, theme: th, suppressTools: suppressTools}
}

// Apply writes one Update to the sink's writer.
func (s *CLISink) Apply(u Update, stillWorking bool) {
	switch u.Kind {
	case AssistantTextDelta:
		for _, r := range u.Text {
			fmt.Fprint(s.w, string(r))
		}

	case AssistantLine:
		if strings.HasPrefix(u.Text, "[thinking]") && stillWorking {
			s.rewriteThinking(u.Text)
			return
		}
		s.clearThinking()
		fmt.Fprintln(s.w, transcript.RenderInlineMarkdown(u.Text, s.theme))

	case ToolLine:
		if s.suppressTools {
			return
		}
		s.clearThinking()
		for _, line := range strings.Split(u.Text, "\n") {
			if line == "" {
				continue
			}
			fmt.Fprintln(s.w, line)
		}
	}
}

// rewriteThinking erases the previously written thinking block (however
// many rows it occupied) and writes the new one in its place.
func (s *CLISink) rewriteThinking(text string) {
	s.clearThinking()
	lines := strings.Split(text, "\n")
	for _, l := range lines {
		fmt.Fprintln(s.w, l)
	}
	s.thinkingLines = len(lines)
}

// clearThinking moves the cursor up and clears the previously written
// thinking rows, if any, using ANSI cursor-up ("\x1b[%dA") and clear-line
// ("\x1b[2K") sequences.
func (s *CLISink) clearThinking() {
	if s.thinkingLines == 0 {
		return
	}
	fmt.Fprintf(s.w, "\x1b[%dA", s.thinkingLines)
	for i := 0; i < s.thinkingLines; i++ {
		fmt.Fprint(s.w, "\x1b[2K")
		if i < s.thinkingLines-1 {
			fmt.Fprint(s.w, "\x1b[1B")
		}
	}
	if s.thinkingLines > 1 {
		fmt.Fprintf(s.w, "\x1b[%dA", s.thinkingLines-1)
	}
	s.thinkingLines = 0
}

// RenderFencedCode writes a fenced code block's interior with 256-color SGR
// styling, resetting at the block boundary, using the same chroma-backed
// renderer the TUI transcript uses.
func (s *CLISink) RenderFencedCode(source, language string) {
	for _, line := range transcript.RenderCodeBlock(source, language, 0, s.theme) {
		fmt.Fprintln(s.w, line)
	}
	fmt.Fprint(s.w, "\x1b[0m")
}
