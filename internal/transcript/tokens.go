package transcript

import (
	"regexp"

	"charm.land/lipgloss/v2"
	"github.com/pixyterm/pixy/internal/theme"
)

var (
	pathTokenRe = regexp.MustCompile(`\b([\w.\-]+(?:/[\w.\-]+)+)(:\d+)?\b`)

	// keybindingTokenRe matches the bare keys escape, enter and tab, and
	// modifier-combined or compound forms like "ctrl+p/ctrl+shift+p". A bare
	// "/" is not matched.
	keybindingTokenRe = regexp.MustCompile(`\b((?:ctrl|shift|alt|meta)(?:\+(?:ctrl|shift|alt|meta))*\+[a-zA-Z0-9]+(?:/(?:ctrl|shift|alt|meta)(?:\+(?:ctrl|shift|alt|meta))*\+[a-zA-Z0-9]+)*|escape|enter|tab)\b`)

	sectionHeaderRe = regexp.MustCompile(`^\[([^\]]+)\]$`)
	groupLabelRe    = regexp.MustCompile(`\b(user|project|path)\b`)
)

// StylePathTokens colors file-path-shaped tokens ("a/b/c.go", "a/b.go:42")
// within text using the theme's path-token color.
func StylePathTokens(text string, th theme.Theme) string {
	style := lipgloss.NewStyle().Foreground(th.PathToken)
	return pathTokenRe.ReplaceAllStringFunc(text, func(m string) string {
		return style.Render(m)
	})
}

// StyleKeybindingTokens colors keybinding-shaped tokens within text using
// the theme's key-token color.
func StyleKeybindingTokens(text string, th theme.Theme) string {
	style := lipgloss.NewStyle().Foreground(th.KeyToken)
	return keybindingTokenRe.ReplaceAllStringFunc(text, func(m string) string {
		return style.Render(m)
	})
}

// RenderSectionHeader styles a "[Section]" header line with the theme's
// accent color, or returns ok=false if line isn't of that shape.
func RenderSectionHeader(line string, th theme.Theme) (string, bool) {
	m := sectionHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return lipgloss.NewStyle().Bold(true).Foreground(th.Accent).Render(line), true
}

// StyleGroupLabels colors the bare words "user"/"project"/"path" with the
// theme's secondary accent, used inside section bodies.
func StyleGroupLabels(text string, th theme.Theme) string {
	style := lipgloss.NewStyle().Foreground(th.AccentAlt)
	return groupLabelRe.ReplaceAllStringFunc(text, func(m string) string {
		return style.Render(m)
	})
}
