package transcript

import (
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/pixyterm/pixy/internal/theme"
)

var tableSeparatorRe = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?\s*$`)

// IsTableRow reports whether line looks like a GFM table row: a line
// containing at least one pipe; escaped pipes are not distinguished.
func IsTableRow(line string) bool {
	return strings.Contains(strings.TrimSpace(line), "|")
}

// IsTableSeparator reports whether line is a GFM header separator row, e.g.
// "| --- | :---: |".
func IsTableSeparator(line string) bool {
	return tableSeparatorRe.MatchString(line)
}

// splitRow splits a GFM table row into trimmed cells, dropping leading and
// trailing empty cells produced by a line's outer pipes.
func splitRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// RenderTable renders a contiguous run of GFM table rows (header row,
// separator row, body rows — separator already identified and excluded by
// the caller) using Unicode box-drawing borders, per spec.md §4.2.
func RenderTable(header []string, rows [][]string, th theme.Theme) []string {
	cols := len(header)
	widths := make([]int, cols)
	for i, cell := range header {
		widths[i] = runewidth.StringWidth(renderPlain(cell, th))
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			w := runewidth.StringWidth(renderPlain(row[i], th))
			if w > widths[i] {
				widths[i] = w
			}
		}
	}

	border := lipgloss.NewStyle().Foreground(th.Border)

	top := buildBorderLine(widths, "┌", "┬", "┐", border)
	mid := buildBorderLine(widths, "├", "┼", "┤", border)
	bottom := buildBorderLine(widths, "└", "┴", "┘", border)

	var out []string
	out = append(out, top)
	out = append(out, buildRowLine(header, widths, th, border))
	out = append(out, mid)
	for _, row := range rows {
		out = append(out, buildRowLine(row, widths, th, border))
	}
	out = append(out, bottom)
	return out
}

func buildBorderLine(widths []int, left, mid, right string, style lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(left)
	for i, w := range widths {
		b.WriteString(strings.Repeat("─", w+2))
		if i < len(widths)-1 {
			b.WriteString(mid)
		}
	}
	b.WriteString(right)
	return style.Render(b.String())
}

func buildRowLine(cells []string, widths []int, th theme.Theme, border lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(border.Render("│"))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		rendered := RenderInlineMarkdown(cell, th)
		pad := w - runewidth.StringWidth(cell)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(" " + rendered + strings.Repeat(" ", pad) + " ")
		b.WriteString(border.Render("│"))
	}
	return b.String()
}

// renderPlain returns the cell's raw text for column sizing. Cells are
// measured before inline markdown styling, so markdown markers such as "**"
// count toward the width.
func renderPlain(cell string, th theme.Theme) string {
	return cell
}
