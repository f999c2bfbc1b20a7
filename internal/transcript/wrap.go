package transcript

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// WrapDisplayWidth splits text into lines no wider than cols display
// columns, breaking on grapheme-cluster boundaries so combining marks and
// zero-width joiners are never split, and counting CJK wide characters as
// two columns (spec.md §9's width-awareness requirement).
func WrapDisplayWidth(text string, cols int) []string {
	if cols <= 0 {
		return []string{text}
	}
	if runewidth.StringWidth(text) <= cols {
		return []string{text}
	}

	var lines []string
	var current []string
	width := 0

	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		cluster := gr.Str()
		cw := runewidth.StringWidth(cluster)
		if width+cw > cols && len(current) > 0 {
			lines = append(lines, joinClusters(current))
			current = nil
			width = 0
		}
		current = append(current, cluster)
		width += cw
	}
	if len(current) > 0 {
		lines = append(lines, joinClusters(current))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func joinClusters(clusters []string) string {
	out := ""
	for _, c := range clusters {
		out += c
	}
	return out
}
