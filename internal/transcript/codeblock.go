package transcript

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/pixyterm/pixy/internal/theme"
)

// RenderCodeBlock tokenizes source with chroma/v2's lexer for language and
// returns each line styled with the theme's code colors, background-filled
// to at least minWidth columns. Unknown languages fall back to a plain
// monospace block with the same background.
func RenderCodeBlock(source, language string, minWidth int, th theme.Theme) []string {
	bg := lipgloss.NewStyle().Background(th.CodeBackground)

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return padLines(strings.Split(source, "\n"), minWidth, bg)
	}

	lineBuilders := []strings.Builder{{}}
	for _, tok := range iterator.Tokens() {
		style := styleForTokenType(tok.Type, th)
		segments := strings.Split(tok.Value, "\n")
		for i, seg := range segments {
			if i > 0 {
				lineBuilders = append(lineBuilders, strings.Builder{})
			}
			if seg == "" {
				continue
			}
			cur := &lineBuilders[len(lineBuilders)-1]
			cur.WriteString(style.Render(seg))
		}
	}

	lines := make([]string, len(lineBuilders))
	for i := range lineBuilders {
		lines[i] = lineBuilders[i].String()
	}
	// Tokenise leaves a trailing empty line when source ends with \n.
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return padLines(lines, minWidth, bg)
}

func styleForTokenType(t chroma.TokenType, th theme.Theme) lipgloss.Style {
	base := lipgloss.NewStyle().Background(th.CodeBackground)
	switch {
	case t.InCategory(chroma.Keyword):
		return base.Foreground(th.CodeKeyword)
	case t.InCategory(chroma.LiteralString):
		return base.Foreground(th.CodeString)
	case t.InCategory(chroma.LiteralNumber):
		return base.Foreground(th.CodeNumber)
	case t.InCategory(chroma.Comment):
		return base.Foreground(th.CodeComment)
	case t.InCategory(chroma.Name):
		return base.Foreground(th.Text)
	default:
		return base.Foreground(th.Text)
	}
}

func padLines(lines []string, minWidth int, bg lipgloss.Style) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		width := lipgloss.Width(l)
		if pad := minWidth - width; pad > 0 {
			l = l + strings.Repeat(" ", pad)
		}
		out[i] = bg.Render(l)
	}
	return out
}
