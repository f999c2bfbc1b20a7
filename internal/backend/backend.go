package backend

import "context"

// StreamUpdateKind mirrors streamrender.UpdateKind; kept as a separate type
// so this package has no dependency on internal/streamrender (backend is a
// leaf per SPEC_FULL.md's dependency order).
type StreamUpdateKind int

const (
	AssistantTextDelta StreamUpdateKind = iota
	AssistantLine
	ToolLine
)

// StreamUpdate is the fundamental unit produced by a Backend during a
// generation, per spec.md's GLOSSARY.
type StreamUpdate struct {
	Kind StreamUpdateKind
	Text string
}

// OnUpdate is called for each StreamUpdate as it is produced. Implementations
// must not block the caller for long; the session runtime polls without
// blocking the cooperative event loop (spec.md §9).
type OnUpdate func(StreamUpdate)

// ResumeCandidate describes a previously stored session the user may
// re-enter, newest-first per spec.md §4.5.
type ResumeCandidate struct {
	SessionRef string
	Label      string
	ModifiedAt string
}

// Backend is the sole LLM seam the session runtime depends on (spec.md §6).
// Transport, tool execution, and persistent session storage format are the
// implementor's concern; the core only calls these seven operations.
type Backend interface {
	// PromptStreamWithBlocks starts a generation from text plus optional
	// non-text content blocks (images), emitting StreamUpdates via onUpdate,
	// and resolves with the complete message list.
	PromptStreamWithBlocks(ctx context.Context, text string, blocks []ContentPart, onUpdate OnUpdate) ([]Message, error)

	// ContinueRunStream continues the current conversation without adding a
	// new user message.
	ContinueRunStream(ctx context.Context, onUpdate OnUpdate) ([]Message, error)

	// ResumeSession loads a historical session by ref (nil selects the
	// latest) and returns a user-visible status line.
	ResumeSession(ctx context.Context, sessionRef *string) (string, error)

	// NewSession starts a fresh session and returns a status line.
	NewSession(ctx context.Context) (string, error)

	// SessionMessages returns a snapshot of the current session's messages,
	// for re-render after resume. Returns nil if no session is active.
	SessionMessages(ctx context.Context) ([]Message, error)

	// RecentResumableSessions returns up to limit candidates, newest-first.
	RecentResumableSessions(ctx context.Context, limit int) ([]ResumeCandidate, error)

	// SessionFile returns the current session file path, for status
	// display. Returns "" if no file-backed session is active.
	SessionFile() string
}
