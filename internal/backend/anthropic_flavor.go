package backend

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/google/uuid"
)

// MessagesClient captures the subset of the Anthropic SDK client an
// anthropic-messages Backend uses, satisfied by *sdk.MessageService. Mirrors
// the narrow-interface pattern goa-ai's anthropic adapter uses so tests can
// substitute a fake without depending on the full SDK surface.
type MessagesClient interface {
	NewStreaming(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[sdk.MessageStreamEventUnion]
}

// AnthropicBackend is the reference anthropic-messages Backend flavor named
// in SPEC_FULL.md's DOMAIN STACK table. It drives a real SSE stream through
// the anthropic-sdk-go client, folding ContentBlockDeltaEvent text deltas
// into StreamUpdates the same way goa-ai's anthropicStreamer folds them into
// model.Chunks.
type AnthropicBackend struct {
	client    MessagesClient
	model     string
	maxTokens int64
	state     *sessionState
}

// NewAnthropicBackend constructs an AnthropicBackend against the real
// anthropic-sdk-go client, scoped to apiKey.
func NewAnthropicBackend(apiKey, model string, maxTokens int) (*AnthropicBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("backend: anthropic api key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("backend: anthropic model id is required")
	}
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return newAnthropicBackend(&client.Messages, model, maxTokens), nil
}

func newAnthropicBackend(client MessagesClient, model string, maxTokens int) *AnthropicBackend {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &AnthropicBackend{client: client, model: model, maxTokens: int64(maxTokens), state: newSessionState()}
}

// PromptStreamWithBlocks implements Backend.
func (b *AnthropicBackend) PromptStreamWithBlocks(ctx context.Context, text string, blocks []ContentPart, onUpdate OnUpdate) ([]Message, error) {
	userMsg := Message{ID: uuid.NewString(), Role: RoleUser, Parts: append([]ContentPart{TextContent{Text: text}}, blocks...), CreatedAt: time.Now()}
	b.state.appendMessages(userMsg)

	params := sdk.MessageNewParams{
		Model:     sdk.Model(b.model),
		MaxTokens: b.maxTokens,
		Messages:  encodeAnthropicMessages(b.state.snapshot()),
	}

	reply, err := b.runStream(ctx, params, onUpdate)
	if err != nil {
		return nil, err
	}

	assistantMsg := Message{ID: uuid.NewString(), Role: RoleAssistant, Parts: []ContentPart{TextContent{Text: reply}, Finish{Reason: "end_turn"}}, CreatedAt: time.Now()}
	b.state.appendMessages(assistantMsg)
	return []Message{assistantMsg}, nil
}

// ContinueRunStream implements Backend.
func (b *AnthropicBackend) ContinueRunStream(ctx context.Context, onUpdate OnUpdate) ([]Message, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(b.model),
		MaxTokens: b.maxTokens,
		Messages:  encodeAnthropicMessages(b.state.snapshot()),
	}
	reply, err := b.runStream(ctx, params, onUpdate)
	if err != nil {
		return nil, err
	}
	assistantMsg := Message{ID: uuid.NewString(), Role: RoleAssistant, Parts: []ContentPart{TextContent{Text: reply}, Finish{Reason: "end_turn"}}, CreatedAt: time.Now()}
	b.state.appendMessages(assistantMsg)
	return []Message{assistantMsg}, nil
}

// runStream drives the SSE stream to completion, emitting an AssistantTextDelta
// per ContentBlockDeltaEvent text delta, and returns the joined text.
func (b *AnthropicBackend) runStream(ctx context.Context, params sdk.MessageNewParams, onUpdate OnUpdate) (string, error) {
	stream := b.client.NewStreaming(ctx, params)
	defer stream.Close()

	var reply string
	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case sdk.ContentBlockDeltaEvent:
			if delta, ok := ev.Delta.AsAny().(sdk.TextDelta); ok && delta.Text != "" {
				reply += delta.Text
				onUpdate(StreamUpdate{Kind: AssistantTextDelta, Text: delta.Text})
			}
		}
	}
	if err := stream.Err(); err != nil {
		return reply, fmt.Errorf("backend: anthropic stream: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return reply, fmt.Errorf("backend: aborted: %w", err)
	}
	return reply, nil
}

// encodeAnthropicMessages translates the conversation so far into Anthropic
// MessageParams, dropping roles the Messages API has no slot for (system
// messages belong in params.System, which this reference flavor leaves
// unset; tool round-trips are out of this core's scope per spec.md §1).
func encodeAnthropicMessages(msgs []Message) []sdk.MessageParam {
	out := make([]sdk.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		text := m.Text()
		if text == "" {
			continue
		}
		switch m.Role {
		case RoleUser:
			out = append(out, sdk.NewUserMessage(sdk.NewTextBlock(text)))
		case RoleAssistant:
			out = append(out, sdk.NewAssistantMessage(sdk.NewTextBlock(text)))
		}
	}
	return out
}

// ResumeSession implements Backend.
func (b *AnthropicBackend) ResumeSession(ctx context.Context, sessionRef *string) (string, error) {
	return b.state.resume(sessionRef)
}

// NewSession implements Backend.
func (b *AnthropicBackend) NewSession(ctx context.Context) (string, error) {
	return fmt.Sprintf("started session %s", b.state.newSession()), nil
}

// SessionMessages implements Backend.
func (b *AnthropicBackend) SessionMessages(ctx context.Context) ([]Message, error) {
	msgs := b.state.snapshot()
	if len(msgs) == 0 {
		return nil, nil
	}
	return msgs, nil
}

// RecentResumableSessions implements Backend.
func (b *AnthropicBackend) RecentResumableSessions(ctx context.Context, limit int) ([]ResumeCandidate, error) {
	return b.state.recent(limit), nil
}

// SessionFile implements Backend.
func (b *AnthropicBackend) SessionFile() string {
	return ""
}
