package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:",squash"`
	Shopify ShopifyConfig `mapstructure:",squash"`
	LLM     LLMConfig     `mapstructure:",squash"`
}

type ServerConfig struct {
	Port     string `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"`   // "development" or "production"
	LogLevel string `mapstructure:"LOG_LEVEL"` // overrides the preset level when set
}

type ShopifyConfig struct {
	AccessToken string        `mapstructure:"SHOPIFY_ACCESS_TOKEN"`
	Domain      string        `mapstructure:"MYSHOPIFY_DOMAIN"`
	APIVersion  string        `mapstructure:"SHOPIFY_API_VERSION"`
	Endpoint    string        `mapstructure:"SHOPIFY_ENDPOINT"` // full GraphQL URL, wins over Domain/APIVersion
	Timeout     time.Duration `mapstructure:"SHOPIFY_TIMEOUT"`
}

type LLMConfig struct {
	Provider  string        `mapstructure:"LLM_PROVIDER"` // "openai", "compat" (alias "deepseek"), "anthropic"
	APIKey    string        `mapstructure:"LLM_API_KEY"`
	APIURL    string        `mapstructure:"LLM_API_URL"`
	ModelName string        `mapstructure:"LLM_MODEL_NAME"` // e.g. "gpt-4", "deepseek-chat"
	Timeout   time.Duration `mapstructure:"LLM_TIMEOUT"`
}

// GraphQLURL is the Admin API endpoint the backend client posts to.
func (c ShopifyConfig) GraphQLURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.Domain, c.APIVersion)
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Env, "development")
}

// Validate reports every missing setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Shopify.AccessToken == "" {
		errs = append(errs, errors.New("SHOPIFY_ACCESS_TOKEN is not set"))
	}
	if c.Shopify.Domain == "" && c.Shopify.Endpoint == "" {
		errs = append(errs, errors.New("MYSHOPIFY_DOMAIN is not set"))
	}
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("LLM_API_KEY (or OPENAI_API_KEY) is not set"))
	}
	switch c.LLM.Provider {
	case "openai", "compat", "deepseek", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider))
	}
	if (c.LLM.Provider == "compat" || c.LLM.Provider == "deepseek") && c.LLM.APIURL == "" {
		errs = append(errs, errors.New("LLM_API_URL is required for the compat provider"))
	}
	return errors.Join(errs...)
}

// Load reads envFile (if it exists) and the process environment. Values in
// the environment win over the file.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
	}
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("SHOPIFY_API_VERSION", "2023-07")
	v.SetDefault("SHOPIFY_TIMEOUT", 30*time.Second)
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_MODEL_NAME", "gpt-4")
	v.SetDefault("LLM_TIMEOUT", 60*time.Second)

	// Keys without a default must be bound so Unmarshal sees them.
	_ = v.BindEnv("SHOPIFY_ACCESS_TOKEN")
	_ = v.BindEnv("MYSHOPIFY_DOMAIN")
	_ = v.BindEnv("SHOPIFY_ENDPOINT")
	_ = v.BindEnv("LLM_API_KEY")
	_ = v.BindEnv("LLM_API_URL")

	if envFile != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read %s: %w", envFile, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	// Legacy OpenAI names, from the environment or the file, fill in
	// whatever the LLM_ keys left empty.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v.GetString("OPENAI_API_KEY")
	}
	if cfg.LLM.APIURL == "" {
		cfg.LLM.APIURL = v.GetString("OPENAI_API_BASE")
	}
	return cfg, nil
}
