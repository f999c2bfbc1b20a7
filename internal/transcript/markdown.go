package transcript

import (
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/pixyterm/pixy/internal/theme"
)

var (
	boldRe          = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	strikeRe        = regexp.MustCompile(`~~([^~]+)~~`)
	inlineCodeRe    = regexp.MustCompile("`([^`]+)`")
	linkRe          = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	headingRe       = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	quoteRe         = regexp.MustCompile(`^>\s?(.*)$`)
	hrRe            = regexp.MustCompile(`^(---+|\*\*\*+)\s*$`)
	unorderedTaskRe = regexp.MustCompile(`^(\s*)-\s+\[x\]\s+(.*)$`)
	unorderedRe     = regexp.MustCompile(`^(\s*)-\s+(.*)$`)
	// italicStarRe matches *x*; italicUnderRe matches _x_ only when the
	// underscores sit at word boundaries, so snake_case identifiers aren't
	// touched (spec.md §4.2).
	italicStarRe = regexp.MustCompile(`\*([^*\s][^*]*?)\*`)
	italicUnderRe = regexp.MustCompile(`(^|[\s([])_([^_\s][^_]*?)_(\b|[\s)\].,!?:;])`)
)

// RenderInlineMarkdown applies spec.md §4.2's inline markdown rules to a
// single line of text, returning a styled string ready to print. Block-level
// constructs (tables, fenced code, headings-as-own-line) are handled by
// their own renderers; this function only transforms inline spans plus the
// line-leading heading/quote/list/hr forms.
func RenderInlineMarkdown(line string, th theme.Theme) string {
	if m := hrRe.FindStringSubmatch(line); m != nil {
		return lipgloss.NewStyle().Foreground(th.MutedBorder).Render(strings.Repeat("─", 40))
	}

	if m := headingRe.FindStringSubmatch(line); m != nil {
		text := renderInlineSpans(m[2], th)
		return lipgloss.NewStyle().Bold(true).Foreground(th.Accent).Render(text)
	}

	if m := quoteRe.FindStringSubmatch(line); m != nil {
		text := renderInlineSpans(m[1], th)
		return lipgloss.NewStyle().Foreground(th.Muted).Render("│ ") + text
	}

	if m := unorderedTaskRe.FindStringSubmatch(line); m != nil {
		return m[1] + "☑ " + renderInlineSpans(m[2], th)
	}

	if m := unorderedRe.FindStringSubmatch(line); m != nil {
		return m[1] + "• " + renderInlineSpans(m[2], th)
	}

	return renderInlineSpans(line, th)
}

// renderInlineSpans applies bold/italic/strikethrough/link/code-span
// transforms within a line of text, in an order chosen so code spans are
// protected from further substitution (code content is never re-styled for
// markdown).
func renderInlineSpans(text string, th theme.Theme) string {
	// Protect inline code spans first: replace with placeholders, style
	// them, and restore after the rest of the pass so `*` inside code isn't
	// treated as emphasis.
	var codeSpans []string
	protected := inlineCodeRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := inlineCodeRe.FindStringSubmatch(m)[1]
		styled := lipgloss.NewStyle().Foreground(th.CodeString).Background(th.CodeBackground).Render(inner)
		codeSpans = append(codeSpans, styled)
		return "\x00CODE\x00"
	})

	protected = linkRe.ReplaceAllStringFunc(protected, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		label := lipgloss.NewStyle().Underline(true).Render(sub[1])
		return label + " (" + sub[2] + ")"
	})

	protected = boldRe.ReplaceAllStringFunc(protected, func(m string) string {
		sub := boldRe.FindStringSubmatch(m)
		inner := sub[1]
		if inner == "" {
			inner = sub[2]
		}
		return lipgloss.NewStyle().Bold(true).Render(inner)
	})

	protected = strikeRe.ReplaceAllStringFunc(protected, func(m string) string {
		inner := strikeRe.FindStringSubmatch(m)[1]
		return lipgloss.NewStyle().Strikethrough(true).Render(inner)
	})

	protected = italicStarRe.ReplaceAllStringFunc(protected, func(m string) string {
		inner := italicStarRe.FindStringSubmatch(m)[1]
		return lipgloss.NewStyle().Italic(true).Render(inner)
	})

	protected = italicUnderRe.ReplaceAllStringFunc(protected, func(m string) string {
		sub := italicUnderRe.FindStringSubmatch(m)
		return sub[1] + lipgloss.NewStyle().Italic(true).Render(sub[2]) + sub[3]
	})

	for _, styled := range codeSpans {
		protected = strings.Replace(protected, "\x00CODE\x00", styled, 1)
	}
	return protected
}
