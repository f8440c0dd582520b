package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"storepilot/internal/tools"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one conversation turn in the OpenAI chat wire shape.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // For tool response messages
}

// MarshalJSON writes a null content for assistant messages that only carry
// tool calls, as the chat completions API does.
func (m Message) MarshalJSON() ([]byte, error) {
	type plain Message
	if m.Content == "" && len(m.ToolCalls) > 0 {
		return json.Marshal(struct {
			plain
			Content *string `json:"content"`
		}{plain: plain(m)})
	}
	return json.Marshal(plain(m))
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON text, not validated
}

// NewToolCall builds a function tool call.
func NewToolCall(id, name, arguments string) ToolCall {
	return ToolCall{ID: id, Type: "function", Function: FunctionCall{Name: name, Arguments: arguments}}
}

// ToolChoice says whether the model may call the declared tools.
type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone forbids new calls. Declarations may still be needed to
	// describe the calls already in the transcript.
	ToolChoiceNone ToolChoice = "none"
)

// Provider is a chat model. With ToolChoiceNone, or with no tools, the
// model answers in text. Providers that can leave the declarations out
// of such a request do so.
type Provider interface {
	Name() string
	Chat(ctx context.Context, messages []Message) (string, error)
	ChatWithTools(ctx context.Context, messages []Message, tools []tools.Tool, choice ToolChoice) (*Message, error)
}

// APIError is a failed model call.
type APIError struct {
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s API error: %v", e.Provider, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

func chatText(ctx context.Context, p Provider, messages []Message) (string, error) {
	msg, err := p.ChatWithTools(ctx, messages, nil, ToolChoiceNone)
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
