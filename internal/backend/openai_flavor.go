package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
)

// chatClient captures the subset of the openai-go client this flavor uses,
// satisfied by *openai.Client's Chat.Completions service, narrowed the same
// way AnthropicBackend narrows MessagesClient so tests can fake it.
type chatClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OpenAIBackend is the reference Backend flavor for the openai-responses and
// openai-chat api dialects named in SPEC_FULL.md's DOMAIN STACK table. It
// issues a non-streaming Chat Completions call and locally chunks the
// reply into StreamUpdates via chunkIntoDeltas, since this core's streaming
// contract (incremental AssistantTextDelta) doesn't require true SSE to be
// satisfied.
type OpenAIBackend struct {
	client chatClient
	model  string
	state  *sessionState
}

// NewOpenAIBackend constructs an OpenAIBackend against the real openai-go
// client, scoped to apiKey and, if non-empty, a custom baseURL (for
// openai-compatible gateways resolved by internal/runtimeconfig).
func NewOpenAIBackend(apiKey, baseURL, model string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("backend: openai api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("backend: openai model id is required")
	}
	opts := []openai.RequestOption{openai.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	return newOpenAIBackend(&client.Chat.Completions, model), nil
}

func newOpenAIBackend(client chatClient, model string) *OpenAIBackend {
	return &OpenAIBackend{client: client, model: model, state: newSessionState()}
}

// PromptStreamWithBlocks implements Backend.
func (b *OpenAIBackend) PromptStreamWithBlocks(ctx context.Context, text string, blocks []ContentPart, onUpdate OnUpdate) ([]Message, error) {
	userMsg := Message{ID: uuid.NewString(), Role: RoleUser, Parts: append([]ContentPart{TextContent{Text: text}}, blocks...), CreatedAt: time.Now()}
	b.state.appendMessages(userMsg)
	return b.complete(ctx, onUpdate)
}

// ContinueRunStream implements Backend.
func (b *OpenAIBackend) ContinueRunStream(ctx context.Context, onUpdate OnUpdate) ([]Message, error) {
	return b.complete(ctx, onUpdate)
}

func (b *OpenAIBackend) complete(ctx context.Context, onUpdate OnUpdate) ([]Message, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(b.model),
		Messages: encodeOpenAIMessages(b.state.snapshot()),
	}

	resp, err := b.client.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("backend: openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("backend: openai chat completion returned no choices")
	}

	reply := resp.Choices[0].Message.Content
	chunkIntoDeltas(reply, onUpdate)

	assistantMsg := Message{ID: uuid.NewString(), Role: RoleAssistant, Parts: []ContentPart{TextContent{Text: reply}, Finish{Reason: "end_turn"}}, CreatedAt: time.Now()}
	b.state.appendMessages(assistantMsg)
	return []Message{assistantMsg}, nil
}

// encodeOpenAIMessages translates the conversation so far into
// ChatCompletionMessageParamUnion values via openai-go's role-constructor
// helpers.
func encodeOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		text := m.Text()
		if text == "" {
			continue
		}
		switch m.Role {
		case RoleUser:
			out = append(out, openai.UserMessage(text))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(text))
		case RoleSystem:
			out = append(out, openai.SystemMessage(text))
		}
	}
	return out
}

// ResumeSession implements Backend.
func (b *OpenAIBackend) ResumeSession(ctx context.Context, sessionRef *string) (string, error) {
	return b.state.resume(sessionRef)
}

// NewSession implements Backend.
func (b *OpenAIBackend) NewSession(ctx context.Context) (string, error) {
	return fmt.Sprintf("started session %s", b.state.newSession()), nil
}

// SessionMessages implements Backend.
func (b *OpenAIBackend) SessionMessages(ctx context.Context) ([]Message, error) {
	msgs := b.state.snapshot()
	if len(msgs) == 0 {
		return nil, nil
	}
	return msgs, nil
}

// RecentResumableSessions implements Backend.
func (b *OpenAIBackend) RecentResumableSessions(ctx context.Context, limit int) ([]ResumeCandidate, error) {
	return b.state.recent(limit), nil
}

// SessionFile implements Backend.
func (b *OpenAIBackend) SessionFile() string {
	return ""
}
