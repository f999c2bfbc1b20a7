// Package resume implements the /resume picker: turning a bare /resume
// invocation into an overlay list of recent sessions, or a numeric/path
// argument into a direct selection, per spec.md §4.5.
package resume

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pixyterm/pixy/internal/backend"
)

// DefaultListLimit is the number of candidates requested from the backend
// when /resume is invoked with no argument.
const DefaultListLimit = 10

// NoCandidatesMessage is shown in the picker overlay when the backend
// returns zero resumable sessions, matching the original implementation's
// specific empty-state line rather than an empty list.
const NoCandidatesMessage = "no resumable sessions"

// Outcome describes what should happen after parsing a /resume argument.
type Outcome int

const (
	// OutcomeOverlay means an overlay picker should be opened with Picker's
	// current Candidates.
	OutcomeOverlay Outcome = iota
	// OutcomeResolved means a session ref was determined without needing
	// an overlay (numeric index or literal path/id argument).
	OutcomeResolved
	// OutcomeError means the argument failed to resolve to a candidate.
	OutcomeError
)

// ParseResult is the result of parsing a /resume command argument.
type ParseResult struct {
	Outcome    Outcome
	SessionRef string // valid when Outcome == OutcomeResolved
	Err        string // valid when Outcome == OutcomeError, pre-formatted per spec.md §7
}

// ParseArg interprets the text following "/resume " (already trimmed of the
// command word). candidates is the newest-first list already fetched from
// the backend, used to resolve a numeric index; it may be nil when arg is a
// literal path/id that doesn't need it.
func ParseArg(arg string, candidates []backend.ResumeCandidate) ParseResult {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return ParseResult{Outcome: OutcomeOverlay}
	}

	if n, err := strconv.Atoi(arg); err == nil {
		return resolveIndex(n, candidates)
	}

	// Literal path or session id: pass through untouched.
	return ParseResult{Outcome: OutcomeResolved, SessionRef: arg}
}

func resolveIndex(n int, candidates []backend.ResumeCandidate) ParseResult {
	if n == 0 {
		if len(candidates) == 0 {
			return ParseResult{Outcome: OutcomeError, Err: "[resume_error] selection out of range"}
		}
		return ParseResult{Outcome: OutcomeResolved, SessionRef: candidates[0].SessionRef}
	}
	if n < 1 || n > len(candidates) {
		return ParseResult{Outcome: OutcomeError, Err: "[resume_error] selection out of range"}
	}
	return ParseResult{Outcome: OutcomeResolved, SessionRef: candidates[n-1].SessionRef}
}

// Picker is the overlay state machine for /resume with no argument: list,
// move selection, confirm, or cancel.
type Picker struct {
	Candidates []backend.ResumeCandidate
	cursor     int
	active     bool
}

// NewPicker fetches up to limit candidates from b and opens the overlay.
// A limit <= 0 uses DefaultListLimit.
func NewPicker(ctx context.Context, b backend.Backend, limit int) (*Picker, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	candidates, err := b.RecentResumableSessions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("resume: listing sessions: %w", err)
	}
	return &Picker{Candidates: candidates, active: true}, nil
}

// Active reports whether the overlay is still accepting input.
func (p *Picker) Active() bool {
	return p.active
}

// Empty reports whether there are no candidates to choose from.
func (p *Picker) Empty() bool {
	return len(p.Candidates) == 0
}

// MoveUp moves the selection cursor up, clamped at the first entry.
func (p *Picker) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// MoveDown moves the selection cursor down, clamped at the last entry.
func (p *Picker) MoveDown() {
	if p.cursor < len(p.Candidates)-1 {
		p.cursor++
	}
}

// Cursor returns the current selection index.
func (p *Picker) Cursor() int {
	return p.cursor
}

// Confirm closes the overlay and returns the selected candidate's session
// ref. Confirm on an empty picker is a no-op that returns ok=false.
func (p *Picker) Confirm() (sessionRef string, ok bool) {
	if p.Empty() || p.cursor < 0 || p.cursor >= len(p.Candidates) {
		return "", false
	}
	p.active = false
	return p.Candidates[p.cursor].SessionRef, true
}

// Cancel closes the overlay without a selection.
func (p *Picker) Cancel() {
	p.active = false
}

// Lines renders the picker overlay body as plain text lines, newest first.
// Styling is layered on by the caller (internal/session owns theme access);
// this keeps the picker itself UI-toolkit agnostic, matching spec.md's
// framing of the picker as a state machine rather than a render routine.
func (p *Picker) Lines() []string {
	if p.Empty() {
		return []string{NoCandidatesMessage}
	}
	lines := make([]string, len(p.Candidates))
	for i, c := range p.Candidates {
		marker := "  "
		if i == p.cursor {
			marker = "> "
		}
		label := c.Label
		if label == "" {
			label = c.SessionRef
		}
		lines[i] = fmt.Sprintf("%s%d. %s", marker, i+1, label)
	}
	return lines
}
