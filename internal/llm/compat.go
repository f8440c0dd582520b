package llm

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"

	"storepilot/config"
	"storepilot/internal/tools"
)

// CompatProvider talks to any OpenAI-compatible /chat/completions endpoint
// (DeepSeek, vLLM, a proxy) over plain HTTP.
type CompatProvider struct {
	client *resty.Client
	config config.LLMConfig
}

type compatTool struct {
	Type     string         `json:"type"`
	Function compatFunction `json:"function"`
}

type compatFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type compatRequest struct {
	Model      string       `json:"model"`
	Messages   []Message    `json:"messages"`
	Tools      []compatTool `json:"tools,omitempty"`
	ToolChoice string       `json:"tool_choice,omitempty"`
}

type compatResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

type compatErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewCompatProvider(cfg config.LLMConfig) *CompatProvider {
	c := resty.New().SetBaseURL(strings.TrimRight(cfg.APIURL, "/"))
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	return &CompatProvider{
		client: c,
		config: cfg,
	}
}

func (p *CompatProvider) Name() string { return "compat" }

func (p *CompatProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	return chatText(ctx, p, messages)
}

func (p *CompatProvider) ChatWithTools(ctx context.Context, messages []Message, decls []tools.Tool, choice ToolChoice) (*Message, error) {
	reqBody := compatRequest{
		Model:    p.config.ModelName,
		Messages: messages,
	}
	if len(decls) > 0 && choice != ToolChoiceNone {
		reqBody.ToolChoice = string(choice)
		for _, t := range decls {
			reqBody.Tools = append(reqBody.Tools, compatTool{
				Type: "function",
				Function: compatFunction{
					Name:        string(t.Name),
					Description: t.Description,
					Parameters:  t.Parameters.Map(),
				},
			})
		}
	}

	var respBody compatResponse
	var errBody compatErrorBody

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.config.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&errBody).
		Post("/chat/completions")
	if err != nil {
		return nil, &APIError{Provider: p.Name(), Err: err}
	}

	if resp.IsError() {
		msg := errBody.Error.Message
		if msg == "" {
			msg = resp.String()
		}
		return nil, &APIError{Provider: p.Name(), StatusCode: resp.StatusCode(), Message: msg}
	}

	if len(respBody.Choices) == 0 {
		return nil, &APIError{Provider: p.Name(), Message: "empty response from LLM"}
	}

	msg := respBody.Choices[0].Message
	if msg.Role == "" {
		msg.Role = RoleAssistant
	}
	return &msg, nil
}
