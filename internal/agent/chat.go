package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"storepilot/internal/core"
	"storepilot/internal/llm"
	"storepilot/internal/model"
	"storepilot/internal/session"
	"storepilot/internal/tools"
)

// ErrMalformedArguments is returned when the model sends tool arguments that
// are not a JSON object.
var ErrMalformedArguments = errors.New("malformed tool arguments")

const SystemPrompt = `You are a helpful AI assistant for a Shopify store. You can help users manage their store by:
- Getting product information
- Retrieving order details
- Managing customer data
- Creating new products
- Getting store information

When users ask about their store, use the available functions to get real-time data from their Shopify store.
Always provide helpful, accurate responses based on the actual store data.

If you need to perform any Shopify operations, use the appropriate function calls.
Be conversational and helpful in your responses.`

// ToolExecutor runs one tool call. *core.Dispatcher implements it.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, args map[string]any) core.ToolResult
}

// ChatAgent runs the function-calling exchange. It makes one model call
// that may request tools, runs the requested tools in the order the model
// emitted them, then makes one model call with tool use disabled for the
// final answer.
type ChatAgent struct {
	LLM          llm.Provider
	Tools        *tools.Registry
	Executor     ToolExecutor
	Logger       *zap.Logger
	SystemPrompt string
}

func NewChatAgent(p llm.Provider, reg *tools.Registry, exec ToolExecutor, logger *zap.Logger) *ChatAgent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatAgent{
		LLM:          p,
		Tools:        reg,
		Executor:     exec,
		Logger:       logger,
		SystemPrompt: SystemPrompt,
	}
}

func (a *ChatAgent) Name() string {
	return "ChatAgent"
}

func (a *ChatAgent) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatReply, error) {
	if req.Message == nil {
		return nil, model.Invalid("Message is required")
	}

	// 1. Build the transcript from the caller's history
	transcript := session.New(a.SystemPrompt)
	if err := transcript.Append(req.History...); err != nil {
		return nil, model.Invalid("invalid history: %v", err)
	}
	if !transcript.Resolved() {
		return nil, model.Invalid("invalid history: unanswered tool calls %v", transcript.Pending())
	}
	if err := transcript.Append(llm.Message{Role: llm.RoleUser, Content: *req.Message}); err != nil {
		return nil, model.Invalid("%v", err)
	}

	// 2. First model call, tools offered
	first, err := a.LLM.ChatWithTools(ctx, transcript.Messages(), a.Tools.List(), llm.ToolChoiceAuto)
	if err != nil {
		return nil, fmt.Errorf("first model call: %w", err)
	}
	first.Role = llm.RoleAssistant
	if err := transcript.Append(*first); err != nil {
		return nil, fmt.Errorf("model response: %w", err)
	}

	if len(first.ToolCalls) == 0 {
		a.Logger.Info("Chat answered without tools", zap.String("provider", a.LLM.Name()))
		return &model.ChatReply{Response: first.Content, ConversationHistory: transcript.History()}, nil
	}

	// 3. Run the requested tools in order
	for _, call := range first.ToolCalls {
		args, err := parseArguments(call.Function.Arguments)
		if err != nil {
			return nil, fmt.Errorf("tool call %s (%s): %w", call.ID, call.Function.Name, err)
		}
		result := a.Executor.Execute(ctx, call.Function.Name, args)
		if err := transcript.Append(llm.Message{
			Role:       llm.RoleTool,
			Content:    result.String(),
			ToolCallID: call.ID,
		}); err != nil {
			return nil, fmt.Errorf("tool result: %w", err)
		}
	}

	// 4. Final model call, tool use disabled
	final, err := a.LLM.ChatWithTools(ctx, transcript.Messages(), a.Tools.List(), llm.ToolChoiceNone)
	if err != nil {
		return nil, fmt.Errorf("final model call: %w", err)
	}
	if len(final.ToolCalls) > 0 {
		a.Logger.Warn("Ignoring tool calls in final response", zap.Int("count", len(final.ToolCalls)))
	}
	if err := transcript.Append(llm.Message{Role: llm.RoleAssistant, Content: final.Content}); err != nil {
		return nil, fmt.Errorf("model response: %w", err)
	}

	a.Logger.Info("Chat answered with tools",
		zap.String("provider", a.LLM.Name()),
		zap.Int("tool_calls", len(first.ToolCalls)),
	)
	return &model.ChatReply{Response: final.Content, ConversationHistory: transcript.History()}, nil
}

// parseArguments decodes a tool call's argument text. An empty string or a
// JSON null means no arguments.
func parseArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArguments, err)
	}
	if args == nil {
		args = map[string]any{}
	}
	return args, nil
}
