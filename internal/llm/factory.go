package llm

import (
	"fmt"

	"storepilot/config"
)

// New picks the provider named by cfg.Provider.
func New(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIProvider(cfg), nil
	case "compat", "deepseek":
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("provider %q needs LLM_API_URL", cfg.Provider)
		}
		return NewCompatProvider(cfg), nil
	case "anthropic":
		return NewAnthropicProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
