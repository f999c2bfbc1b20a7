package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

// generateContentClient captures the subset of the genai client this flavor
// uses, satisfied by a real client's Models service.
type generateContentClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIBackend is the reference Backend flavor for the google-generative-ai
// api dialect named in SPEC_FULL.md's DOMAIN STACK table (google.golang.org/genai,
// "exercised by the reference backend's Gemini flavor"). Like OpenAIBackend
// it issues one non-streaming call per turn and locally chunks the reply.
type GenAIBackend struct {
	client generateContentClient
	model  string
	state  *sessionState
}

// NewGenAIBackend constructs a GenAIBackend against the real
// google.golang.org/genai client, scoped to apiKey, targeting the Gemini
// Developer API backend.
func NewGenAIBackend(ctx context.Context, apiKey, model string) (*GenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("backend: google api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("backend: google model id is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("backend: constructing genai client: %w", err)
	}
	return newGenAIBackend(client.Models, model), nil
}

func newGenAIBackend(client generateContentClient, model string) *GenAIBackend {
	return &GenAIBackend{client: client, model: model, state: newSessionState()}
}

// PromptStreamWithBlocks implements Backend.
func (b *GenAIBackend) PromptStreamWithBlocks(ctx context.Context, text string, blocks []ContentPart, onUpdate OnUpdate) ([]Message, error) {
	userMsg := Message{ID: uuid.NewString(), Role: RoleUser, Parts: append([]ContentPart{TextContent{Text: text}}, blocks...), CreatedAt: time.Now()}
	b.state.appendMessages(userMsg)
	return b.generate(ctx, onUpdate)
}

// ContinueRunStream implements Backend.
func (b *GenAIBackend) ContinueRunStream(ctx context.Context, onUpdate OnUpdate) ([]Message, error) {
	return b.generate(ctx, onUpdate)
}

func (b *GenAIBackend) generate(ctx context.Context, onUpdate OnUpdate) ([]Message, error) {
	resp, err := b.client.GenerateContent(ctx, b.model, encodeGenAIContents(b.state.snapshot()), nil)
	if err != nil {
		return nil, fmt.Errorf("backend: genai generate content: %w", err)
	}

	reply := resp.Text()
	chunkIntoDeltas(reply, onUpdate)

	assistantMsg := Message{ID: uuid.NewString(), Role: RoleAssistant, Parts: []ContentPart{TextContent{Text: reply}, Finish{Reason: "end_turn"}}, CreatedAt: time.Now()}
	b.state.appendMessages(assistantMsg)
	return []Message{assistantMsg}, nil
}

// encodeGenAIContents translates the conversation so far into *genai.Content
// values. Gemini calls the assistant role "model" rather than "assistant".
func encodeGenAIContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		text := m.Text()
		if text == "" {
			continue
		}
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		out = append(out, genai.NewContentFromText(text, genai.Role(role)))
	}
	return out
}

// ResumeSession implements Backend.
func (b *GenAIBackend) ResumeSession(ctx context.Context, sessionRef *string) (string, error) {
	return b.state.resume(sessionRef)
}

// NewSession implements Backend.
func (b *GenAIBackend) NewSession(ctx context.Context) (string, error) {
	return fmt.Sprintf("started session %s", b.state.newSession()), nil
}

// SessionMessages implements Backend.
func (b *GenAIBackend) SessionMessages(ctx context.Context) ([]Message, error) {
	msgs := b.state.snapshot()
	if len(msgs) == 0 {
		return nil, nil
	}
	return msgs, nil
}

// RecentResumableSessions implements Backend.
func (b *GenAIBackend) RecentResumableSessions(ctx context.Context, limit int) ([]ResumeCandidate, error) {
	return b.state.recent(limit), nil
}

// SessionFile implements Backend.
func (b *GenAIBackend) SessionFile() string {
	return ""
}
