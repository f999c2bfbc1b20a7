package backend

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// sessionState is the in-memory conversation/session bookkeeping shared by
// every live-provider Backend flavor (anthropic_flavor.go, openai_flavor.go,
// genai_flavor.go), factored out of MemoryBackend's inline fields so each
// flavor only has to hold a request-encoding/transport concern on top of
// it. None of these flavors persist sessions to disk (spec.md's file-backed
// resume store is out of this core's scope, per SessionFile always
// returning "").
type sessionState struct {
	mu       sync.Mutex
	messages []Message
	sessions map[string][]Message
	current  string
}

func newSessionState() *sessionState {
	return &sessionState{sessions: map[string][]Message{}}
}

func (s *sessionState) appendMessages(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msgs...)
	if s.current != "" {
		s.sessions[s.current] = append([]Message{}, s.messages...)
	}
}

func (s *sessionState) snapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message{}, s.messages...)
}

func (s *sessionState) resume(sessionRef *string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := ""
	if sessionRef != nil {
		ref = *sessionRef
	}
	if ref == "" {
		for id := range s.sessions {
			ref = id
			break
		}
	}
	msgs, ok := s.sessions[ref]
	if !ok {
		return "", fmt.Errorf("backend: no such session %q", ref)
	}
	s.current = ref
	s.messages = append([]Message{}, msgs...)
	return fmt.Sprintf("resumed session %s (%d messages)", ref, len(msgs)), nil
}

func (s *sessionState) newSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.current = id
	s.messages = nil
	s.sessions[id] = nil
	return id
}

func (s *sessionState) recent(limit int) []ResumeCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []ResumeCandidate
	for id, msgs := range s.sessions {
		label := "(empty session)"
		if len(msgs) > 0 {
			label = msgs[0].Text()
		}
		out = append(out, ResumeCandidate{SessionRef: id, Label: label})
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// chunkIntoDeltas splits a complete, non-streamed response into a handful of
// AssistantTextDelta updates on word boundaries, so flavors built on a
// non-streaming SDK call (openai-go's Chat.Completions.New, genai's
// GenerateContent) still drive the session runtime's incremental-render
// path the same way a true SSE flavor does, rather than delivering the
// whole reply as one update.
func chunkIntoDeltas(text string, onUpdate OnUpdate) {
	var word []rune
	flush := func() {
		if len(word) > 0 {
			onUpdate(StreamUpdate{Kind: AssistantTextDelta, Text: string(word)})
			word = word[:0]
		}
	}
	for _, r := range text {
		word = append(word, r)
		if r == ' ' || r == '\n' {
			flush()
		}
	}
	flush()
}
