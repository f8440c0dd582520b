// Package session holds the per-request conversation transcript.
package session

import (
	"errors"
	"fmt"

	"storepilot/internal/llm"
)

var (
	ErrInvalidRole       = errors.New("invalid message role")
	ErrUnknownToolCall   = errors.New("tool message does not answer a pending tool call")
	ErrDuplicateToolCall = errors.New("duplicate tool call id")
	ErrMissingToolCallID = errors.New("tool call has no id")
	ErrPendingToolCalls  = errors.New("tool calls are still pending")
)

// Transcript is an append-only conversation. Every tool message must answer
// exactly one pending tool call, and nothing but tool messages may be
// appended while calls are pending. It is not safe for concurrent use.
type Transcript struct {
	system   string
	messages []llm.Message
	pending  []string
}

// New starts a transcript. An empty system prompt is left out.
func New(systemPrompt string) *Transcript {
	return &Transcript{system: systemPrompt}
}

// Append adds messages in order and stops at the first one that breaks the
// tool call correlation. Messages before it stay appended.
func (t *Transcript) Append(msgs ...llm.Message) error {
	for i, m := range msgs {
		if err := t.append(m); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return nil
}

func (t *Transcript) append(m llm.Message) error {
	switch m.Role {
	case llm.RoleTool:
		idx := t.pendingIndex(m.ToolCallID)
		if idx < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownToolCall, m.ToolCallID)
		}
		t.pending = append(t.pending[:idx], t.pending[idx+1:]...)
	case llm.RoleUser, llm.RoleAssistant:
		if len(t.pending) > 0 {
			return fmt.Errorf("%w: %v", ErrPendingToolCalls, t.pending)
		}
		if m.Role == llm.RoleUser && len(m.ToolCalls) > 0 {
			return fmt.Errorf("%w: user message carries tool calls", ErrInvalidRole)
		}
		// Ids are unique within one round only. A later round may reuse them.
		ids := make(map[string]struct{}, len(m.ToolCalls))
		for _, tc := range m.ToolCalls {
			if tc.ID == "" {
				return fmt.Errorf("%w: %s", ErrMissingToolCallID, tc.Function.Name)
			}
			if _, dup := ids[tc.ID]; dup {
				return fmt.Errorf("%w: %q", ErrDuplicateToolCall, tc.ID)
			}
			ids[tc.ID] = struct{}{}
		}
		for _, tc := range m.ToolCalls {
			t.pending = append(t.pending, tc.ID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, m.Role)
	}
	t.messages = append(t.messages, m)
	return nil
}

func (t *Transcript) pendingIndex(id string) int {
	for i, p := range t.pending {
		if p == id {
			return i
		}
	}
	return -1
}

// Messages returns the full transcript, system prompt first.
func (t *Transcript) Messages() []llm.Message {
	out := make([]llm.Message, 0, len(t.messages)+1)
	if t.system != "" {
		out = append(out, llm.Message{Role: llm.RoleSystem, Content: t.system})
	}
	return append(out, t.messages...)
}

// History returns the transcript without the system prompt.
func (t *Transcript) History() []llm.Message {
	return append([]llm.Message(nil), t.messages...)
}

// Pending returns the unanswered tool call ids in request order.
func (t *Transcript) Pending() []string {
	return append([]string(nil), t.pending...)
}

func (t *Transcript) Resolved() bool { return len(t.pending) == 0 }

func (t *Transcript) Len() int { return len(t.messages) }
