package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"storepilot/config"
	"storepilot/internal/tools"
)

const anthropicMaxTokens = 4096

// AnthropicProvider adapts the OpenAI-shaped transcript to the Messages API.
// The system prompt moves to the request, tool calls become tool_use blocks,
// and consecutive tool messages are grouped into one user turn.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

func NewAnthropicProvider(cfg config.LLMConfig) *AnthropicProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.APIURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  cfg.ModelName,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	return chatText(ctx, p, messages)
}

func (p *AnthropicProvider) ChatWithTools(ctx context.Context, messages []Message, decls []tools.Tool, choice ToolChoice) (*Message, error) {
	system, rest := splitSystem(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: anthropicMaxTokens,
		Messages:  toAnthropicMessages(rest),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	// The Messages API rejects tool_use and tool_result blocks unless tools
	// are declared, so the declarations go out even when calls are disabled.
	if len(decls) > 0 {
		params.Tools = toAnthropicTools(decls)
		if choice == ToolChoiceNone {
			params.ToolChoice = anthropic.ToolChoiceUnionParam{OfNone: &anthropic.ToolChoiceNoneParam{}}
		} else {
			params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return nil, &APIError{Provider: p.Name(), StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return nil, &APIError{Provider: p.Name(), Err: err}
	}

	var text strings.Builder
	out := &Message{Role: RoleAssistant}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, NewToolCall(block.ID, block.Name, string(block.Input)))
		}
	}
	out.Content = text.String()
	return out, nil
}

func splitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}

func toAnthropicMessages(messages []Message) []anthropic.MessageParam {
	var result []anthropic.MessageParam
	i := 0
	for i < len(messages) {
		m := messages[i]
		switch m.Role {
		case RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, rawArguments(tc.Function.Arguments), tc.Function.Name))
			}
			result = append(result, anthropic.NewAssistantMessage(blocks...))
			i++
		case RoleTool:
			var toolBlocks []anthropic.ContentBlockParamUnion
			for i < len(messages) && messages[i].Role == RoleTool {
				toolBlocks = append(toolBlocks,
					anthropic.NewToolResultBlock(messages[i].ToolCallID, messages[i].Content, isErrorResult(messages[i].Content)),
				)
				i++
			}
			result = append(result, anthropic.NewUserMessage(toolBlocks...))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
			i++
		}
	}
	return result
}

func toAnthropicTools(decls []tools.Tool) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, 0, len(decls))
	for _, t := range decls {
		props := make(map[string]any, len(t.Parameters.Properties))
		for name, prop := range t.Parameters.Properties {
			props[name] = prop.Map()
		}
		tp := anthropic.ToolUnionParamOfTool(
			anthropic.ToolInputSchemaParam{
				Properties: props,
				Required:   t.Parameters.Required,
			},
			string(t.Name),
		)
		tp.OfTool.Description = param.NewOpt(t.Description)
		result = append(result, tp)
	}
	return result
}

// rawArguments keeps tool_use input valid JSON even when the model sent an
// empty argument string.
func rawArguments(args string) json.RawMessage {
	if strings.TrimSpace(args) == "" || !json.Valid([]byte(args)) {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(args)
}

func isErrorResult(content string) bool {
	var body struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &body); err != nil {
		return false
	}
	return body.Error != nil
}
