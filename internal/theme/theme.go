// Package theme holds named color palettes and the style helpers the
// transcript, editor, and session packages use to render the terminal UI.
// Concrete RGB values are an implementation choice (spec.md ยง1); this
// package only fixes the semantic roles every other package depends on.
package theme

import "charm.land/lipgloss/v2"

// Theme is a named collection of colors used across the TUI. All fields are
// lipgloss.Color values so callers can apply them directly to lipgloss
// styles without further conversion.
type Theme struct {
	Name string

	// Text roles.
	Text       lipgloss.Color
	Muted      lipgloss.Color
	VeryMuted  lipgloss.Color
	Accent     lipgloss.Color
	AccentAlt  lipgloss.Color
	Error      lipgloss.Color

	// Borders and chrome.
	Border      lipgloss.Color
	MutedBorder lipgloss.Color

	// Working line / spinner.
	Primary          lipgloss.Color
	WorkingHighlight lipgloss.Color

	// Diff styling.
	DiffAdd lipgloss.Color
	DiffDel lipgloss.Color

	// Inline token styling.
	PathToken lipgloss.Color
	KeyToken  lipgloss.Color

	// Markdown inline code / fenced code background.
	CodeBackground lipgloss.Color
	CodeKeyword    lipgloss.Color
	CodeString     lipgloss.Color
	CodeNumber     lipgloss.Color
	CodeComment    lipgloss.Color

	// Terminal text-selection colors, applied via OSC 17/19 on startup and
	// reset via OSC 117/119 on teardown (spec.md §5).
	SelectionBackground lipgloss.Color
	SelectionForeground lipgloss.Color
}

var registry = map[string]Theme{
	"dark": {
		Name:             "dark",
		Text:             lipgloss.Color("#F9FAFB"),
		Muted:            lipgloss.Color("#9CA3AF"),
		VeryMuted:        lipgloss.Color("#6B7280"),
		Accent:           lipgloss.Color("#22D3EE"),
		AccentAlt:        lipgloss.Color("#C084FC"),
		Error:            lipgloss.Color("#F87171"),
		Border:           lipgloss.Color("#374151"),
		MutedBorder:      lipgloss.Color("#1F2937"),
		Primary:          lipgloss.Color("#60A5FA"),
		WorkingHighlight: lipgloss.Color("#FDE047"),
		DiffAdd:          lipgloss.Color("#34D399"),
		DiffDel:          lipgloss.Color("#F87171"),
		PathToken:        lipgloss.Color("#60A5FA"),
		KeyToken:         lipgloss.Color("#FBBF24"),
		CodeBackground:   lipgloss.Color("#111827"),
		CodeKeyword:      lipgloss.Color("#C084FC"),
		CodeString:       lipgloss.Color("#34D399"),
		CodeNumber:       lipgloss.Color("#FBBF24"),
		CodeComment:      lipgloss.Color("#6B7280"),
		SelectionBackground: lipgloss.Color("#3b4261"),
		SelectionForeground: lipgloss.Color("#c0caf5"),
	},
	"light": {
		Name:             "light",
		Text:             lipgloss.Color("#1F2937"),
		Muted:            lipgloss.Color("#6B7280"),
		VeryMuted:        lipgloss.Color("#9CA3AF"),
		Accent:           lipgloss.Color("#0891B2"),
		AccentAlt:        lipgloss.Color("#7C3AED"),
		Error:            lipgloss.Color("#DC2626"),
		Border:           lipgloss.Color("#D1D5DB"),
		MutedBorder:      lipgloss.Color("#E5E7EB"),
		Primary:          lipgloss.Color("#2563EB"),
		WorkingHighlight: lipgloss.Color("#D97706"),
		DiffAdd:          lipgloss.Color("#059669"),
		DiffDel:          lipgloss.Color("#DC2626"),
		PathToken:        lipgloss.Color("#2563EB"),
		KeyToken:         lipgloss.Color("#D97706"),
		CodeBackground:   lipgloss.Color("#F3F4F6"),
		CodeKeyword:      lipgloss.Color("#7C3AED"),
		CodeString:       lipgloss.Color("#059669"),
		CodeNumber:       lipgloss.Color("#D97706"),
		CodeComment:      lipgloss.Color("#6B7280"),
		SelectionBackground: lipgloss.Color("#D1D5DB"),
		SelectionForeground: lipgloss.Color("#1F2937"),
	},
}

var current = registry["dark"]

// Get returns the theme registered under name, or the currently active theme
// if name is empty or unknown.
func Get(name string) Theme {
	if t, ok := registry[name]; ok {
		return t
	}
	return current
}

// Current returns the process-wide active theme.
func Current() Theme {
	return current
}

// SetCurrent sets the process-wide active theme by name. Unknown names are
// silently ignored, leaving the previous theme active.
func SetCurrent(name string) {
	if t, ok := registry[name]; ok {
		current = t
	}
}

// Names returns the registered theme names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}

// Register installs a custom theme under its Name field, allowing callers to
// add palettes beyond the built-in "dark"/"light" pair.
func Register(t Theme) {
	registry[t.Name] = t
}
