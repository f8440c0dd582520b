package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"storepilot/config"
	"storepilot/internal/tools"
)

// OpenAIProvider uses the official OpenAI Go SDK.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

func NewOpenAIProvider(cfg config.LLMConfig) *OpenAIProvider {
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
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  cfg.ModelName,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	return chatText(ctx, p, messages)
}

func (p *OpenAIProvider) ChatWithTools(ctx context.Context, messages []Message, decls []tools.Tool, choice ToolChoice) (*Message, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: toOpenAIMessages(messages),
	}
	if len(decls) > 0 && choice != ToolChoiceNone {
		params.Tools = toOpenAITools(decls)
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String("auto"),
		}
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &APIError{Provider: p.Name(), StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return nil, &APIError{Provider: p.Name(), Err: err}
	}
	if len(completion.Choices) == 0 {
		return nil, &APIError{Provider: p.Name(), Message: "empty response from LLM"}
	}
	return fromOpenAIMessage(completion.Choices[0].Message), nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			asst := openai.ChatCompletionAssistantMessageParam{}
			if msg.Content != "" {
				asst.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				}
			}
			for _, tc := range msg.ToolCalls {
				asst.ToolCalls = append(asst.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      tc.Function.Name,
							Arguments: tc.Function.Arguments,
						},
					},
				})
			}
			result = append(result, openai.ChatCompletionMessageParamUnion{OfAssistant: &asst})
		case RoleTool:
			result = append(result, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

func toOpenAITools(decls []tools.Tool) []openai.ChatCompletionToolUnionParam {
	result := make([]openai.ChatCompletionToolUnionParam, len(decls))
	for i, t := range decls {
		result[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        string(t.Name),
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.Parameters.Map()),
		})
	}
	return result
}

func fromOpenAIMessage(m openai.ChatCompletionMessage) *Message {
	out := &Message{Role: RoleAssistant, Content: m.Content}
	for _, tc := range m.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, NewToolCall(tc.ID, tc.Function.Name, tc.Function.Arguments))
	}
	return out
}
