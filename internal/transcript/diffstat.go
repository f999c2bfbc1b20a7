package transcript

import (
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/pixyterm/pixy/internal/theme"
)

// diffstatRe matches a line like "internal/foo.go | 12 +++---" per
// spec.md §4.2's "<path> | N +++---" rule.
var diffstatRe = regexp.MustCompile(`^(\S.*?)\s+\|\s+(\d+)\s+([+\-]+)\s*$`)

// IsDiffstatLine reports whether line matches the diffstat pattern.
func IsDiffstatLine(line string) bool {
	return diffstatRe.MatchString(line)
}

// RenderDiffstatLine splits a diffstat line into its path, count, and a bar
// of contiguous '+'/'-' colored spans, rather than styling each character
// independently (grounded on the original's span-based renderer — see
// SPEC_FULL.md's SUPPLEMENTED FEATURES).
func RenderDiffstatLine(line string, th theme.Theme) string {
	m := diffstatRe.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	path, count, bar := m[1], m[2], m[3]

	pathStyled := lipgloss.NewStyle().Foreground(th.PathToken).Render(path)

	var b strings.Builder
	runStart := 0
	for i := 1; i <= len(bar); i++ {
		if i == len(bar) || bar[i] != bar[runStart] {
			b.WriteString(renderDiffRun(bar[runStart:i], th))
			runStart = i
		}
	}

	return pathStyled + " | " + count + " " + b.String()
}

func renderDiffRun(run string, th theme.Theme) string {
	if len(run) == 0 {
		return run
	}
	if run[0] == '+' {
		return lipgloss.NewStyle().Foreground(th.DiffAdd).Render(run)
	}
	return lipgloss.NewStyle().Foreground(th.DiffDel).Render(run)
}

// IsDiffLine reports whether a Tool-block line is a unified-diff add/remove
// line (begins with '+' or '-', excluding diff header lines "+++"/"---").
func IsDiffLine(line string) bool {
	if strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---") {
		return false
	}
	return strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-")
}

// RenderDiffLine colors a unified-diff line red (removed) or green (added).
func RenderDiffLine(line string, th theme.Theme) string {
	if strings.HasPrefix(line, "+") {
		return lipgloss.NewStyle().Foreground(th.DiffAdd).Render(line)
	}
	return lipgloss.NewStyle().Foreground(th.DiffDel).Render(line)
}
