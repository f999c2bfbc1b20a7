package session

import (
	"github.com/pixyterm/pixy/internal/backend"
	"github.com/pixyterm/pixy/internal/transcript"
)

// RenderMessages converts a snapshot of backend messages into transcript
// lines, per spec.md §4.1 ("if no updates were seen but the backend
// returned messages, the messages are converted to transcript lines via
// render_messages") and §4.5 (resume rebuilds the transcript from a
// session_messages snapshot the same way). Tool results and reasoning
// content are rendered as their own kinds so the projector's filtering and
// compaction rules apply identically to a rebuilt transcript and a freshly
// streamed one.
func RenderMessages(msgs []backend.Message) []transcript.Line {
	var lines []transcript.Line
	for _, m := range msgs {
		for _, part := range m.Parts {
			switch p := part.(type) {
			case backend.TextContent:
				if p.Text == "" {
					continue
				}
				lines = append(lines, textLines(p.Text, kindForRole(m.Role))...)
			case backend.ReasoningContent:
				if p.Thinking == "" {
					continue
				}
				lines = append(lines, textLines(p.Thinking, transcript.Thinking)...)
			case backend.ToolResult:
				if p.Content == "" {
					continue
				}
				lines = append(lines, transcript.Line{Kind: transcript.Tool, Text: "• Ran " + p.ToolCallID, Header: true})
				lines = append(lines, textLines(p.Content, transcript.Tool)...)
			}
		}
	}
	return lines
}

func kindForRole(r backend.Role) transcript.Kind {
	switch r {
	case backend.RoleUser:
		return transcript.UserInput
	case backend.RoleAssistant:
		return transcript.Assistant
	default:
		return transcript.Normal
	}
}

func textLines(text string, kind transcript.Kind) []transcript.Line {
	var out []transcript.Line
	start := 0
	for i, r := range text {
		if r == '\n' {
			out = append(out, transcript.Line{Kind: kind, Text: text[start:i]})
			start = i + 1
		}
	}
	out = append(out, transcript.Line{Kind: kind, Text: text[start:]})
	return out
}
