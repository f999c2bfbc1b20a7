package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MemoryBackend is a reference in-memory Backend implementation used by
// tests and cmd/pixy's --demo mode. It echoes the prompt back as a
// streamed response, split into a few deltas, so the session runtime's
// event loop can be exercised without a live provider.
type MemoryBackend struct {
	messages []Message
	sessions map[string][]Message
	current  string
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: map[string][]Message{}}
}

// PromptStreamWithBlocks implements Backend.
func (b *MemoryBackend) PromptStreamWithBlocks(ctx context.Context, text string, blocks []ContentPart, onUpdate OnUpdate) ([]Message, error) {
	userMsg := Message{ID: uuid.NewString(), Role: RoleUser, Parts: []ContentPart{TextContent{Text: text}}, CreatedAt: time.Now()}
	for _, blk := range blocks {
		userMsg.Parts = append(userMsg.Parts, blk)
	}
	b.messages = append(b.messages, userMsg)

	reply := "echo: " + text
	words := strings.Fields(reply)
	for i, w := range words {
		select {
		case <-ctx.Done():
			return b.messages, fmt.Errorf("backend: aborted: %w", ctx.Err())
		default:
		}
		chunk := w
		if i < len(words)-1 {
			chunk += " "
		}
		onUpdate(StreamUpdate{Kind: AssistantTextDelta, Text: chunk})
	}

	assistantMsg := Message{ID: uuid.NewString(), Role: RoleAssistant, Parts: []ContentPart{TextContent{Text: reply}, Finish{Reason: "end_turn"}}, CreatedAt: time.Now()}
	b.messages = append(b.messages, assistantMsg)

	if b.current != "" {
		b.sessions[b.current] = append([]Message{}, b.messages...)
	}

	return []Message{assistantMsg}, nil
}

// ContinueRunStream implements Backend.
func (b *MemoryBackend) ContinueRunStream(ctx context.Context, onUpdate OnUpdate) ([]Message, error) {
	return b.PromptStreamWithBlocks(ctx, "(continue)", nil, onUpdate)
}

// ResumeSession implements Backend.
func (b *MemoryBackend) ResumeSession(ctx context.Context, sessionRef *string) (string, error) {
	ref := ""
	if sessionRef != nil {
		ref = *sessionRef
	}
	if ref == "" {
		for id := range b.sessions {
			ref = id
			break
		}
	}
	msgs, ok := b.sessions[ref]
	if !ok {
		return "", fmt.Errorf("backend: no such session %q", ref)
	}
	b.current = ref
	b.messages = append([]Message{}, msgs...)
	return fmt.Sprintf("resumed session %s (%d messages)", ref, len(msgs)), nil
}

// NewSession implements Backend.
func (b *MemoryBackend) NewSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	b.current = id
	b.messages = nil
	b.sessions[id] = nil
	return fmt.Sprintf("started session %s", id), nil
}

// SessionMessages implements Backend.
func (b *MemoryBackend) SessionMessages(ctx context.Context) ([]Message, error) {
	if len(b.messages) == 0 {
		return nil, nil
	}
	return append([]Message{}, b.messages...), nil
}

// RecentResumableSessions implements Backend.
func (b *MemoryBackend) RecentResumableSessions(ctx context.Context, limit int) ([]ResumeCandidate, error) {
	var out []ResumeCandidate
	for id, msgs := range b.sessions {
		label := "(empty session)"
		if len(msgs) > 0 {
			label = msgs[0].Text()
		}
		out = append(out, ResumeCandidate{SessionRef: id, Label: label})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SessionFile implements Backend.
func (b *MemoryBackend) SessionFile() string {
	return ""
}
