// Package backend defines the Backend interface described in spec.md §6 —
// the sole LLM seam the session runtime depends on — along with the
// Message/ContentPart model, StreamUpdate, and AbortController. Content
// parts and JSON tagging are adapted from the teacher's
// internal/message/content.go, dropping its fantasy-framework bridge (no
// tool-execution loop exists in this core).
package backend

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContentPart is the marker interface for message content blocks.
type ContentPart interface {
	isPart()
}

// TextContent holds plain text.
type TextContent struct {
	Text string `json:"text"`
}

func (TextContent) isPart() {}

// ReasoningContent holds extended-thinking output, preserved for round-trip
// fidelity when resubmitted to the provider.
type ReasoningContent struct {
	Thinking  string `json:"thinking"`
	Signature string `json:"signature,omitempty"`
}

func (ReasoningContent) isPart() {}

// ImageContent holds an image attachment, produced from editor.ImageBlock
// at submission time.
type ImageContent struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

func (ImageContent) isPart() {}

// ToolCall represents a tool invocation initiated by the backend. The core
// never executes tools itself (spec.md §1 Non-goals); this part exists so a
// resumed session's historical messages round-trip without losing
// information the backend needs.
type ToolCall struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Input string `json:"input"`
}

func (ToolCall) isPart() {}

// ToolResult is the result of a previously-issued ToolCall.
type ToolResult struct {
	ToolCallID string `json:"tool_call_id"`
	Content    string `json:"content"`
	IsError    bool   `json:"is_error"`
}

func (ToolResult) isPart() {}

// Finish marks the end of an assistant turn.
type Finish struct {
	Reason string `json:"reason"`
}

func (Finish) isPart() {}

// Role identifies the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// Message is a single conversation message containing a heterogeneous
// slice of ContentPart blocks.
type Message struct {
	ID        string        `json:"id"`
	Role      Role          `json:"role"`
	Parts     []ContentPart `json:"parts"`
	CreatedAt time.Time     `json:"created_at"`
}

// Text concatenates every TextContent part's text, newline-joined.
func (m *Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if tc, ok := p.(TextContent); ok {
			if out != "" {
				out += "\n"
			}
			out += tc.Text
		}
	}
	return out
}

type partType string

const (
	textType      partType = "text"
	reasoningType partType = "reasoning"
	imageType     partType = "image"
	toolCallType  partType = "tool_call"
	toolResult    partType = "tool_result"
	finishType    partType = "finish"
)

type partWrapper struct {
	Type partType        `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalParts serializes content parts using type-tagged wrappers, per the
// teacher's {"type": "...", "data": {...}} convention.
func MarshalParts(parts []ContentPart) ([]byte, error) {
	wrappers := make([]partWrapper, 0, len(parts))
	for _, part := range parts {
		var pt partType
		switch part.(type) {
		case TextContent:
			pt = textType
		case ReasoningContent:
			pt = reasoningType
		case ImageContent:
			pt = imageType
		case ToolCall:
			pt = toolCallType
		case ToolResult:
			pt = toolResult
		case Finish:
			pt = finishType
		default:
			return nil, fmt.Errorf("backend: unknown content part type %T", part)
		}
		data, err := json.Marshal(part)
		if err != nil {
			return nil, fmt.Errorf("backend: marshal %s part: %w", pt, err)
		}
		wrappers = append(wrappers, partWrapper{Type: pt, Data: data})
	}
	return json.Marshal(wrappers)
}

// UnmarshalParts deserializes type-tagged JSON back into content parts.
func UnmarshalParts(data []byte) ([]ContentPart, error) {
	var wrappers []partWrapper
	if err := json.Unmarshal(data, &wrappers); err != nil {
		return nil, fmt.Errorf("backend: unmarshal parts: %w", err)
	}
	parts := make([]ContentPart, 0, len(wrappers))
	for _, w := range wrappers {
		var part ContentPart
		switch w.Type {
		case textType:
			var p TextContent
			if err := json.Unmarshal(w.Data, &p); err != nil {
				return nil, err
			}
			part = p
		case reasoningType:
			var p ReasoningContent
			if err := json.Unmarshal(w.Data, &p); err != nil {
				return nil, err
			}
			part = p
		case imageType:
			var p ImageContent
			if err := json.Unmarshal(w.Data, &p); err != nil {
				return nil, err
			}
			part = p
		case toolCallType:
			var p ToolCall
			if err := json.Unmarshal(w.Data, &p); err != nil {
				return nil, err
			}
			part = p
		case toolResult:
			var p ToolResult
			if err := json.Unmarshal(w.Data, &p); err != nil {
				return nil, err
			}
			part = p
		case finishType:
			var p Finish
			if err := json.Unmarshal(w.Data, &p); err != nil {
				return nil, err
			}
			part = p
		default:
			return nil, fmt.Errorf("backend: unknown part type %q", w.Type)
		}
		parts = append(parts, part)
	}
	return parts, nil
}
