package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout bounds a single request including retries.
	Timeout time.Duration `yaml:"timeout"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns the built-in defaults. API keys are never defaulted.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	name string
	dst  func(*Config) *string
}

var envBindings = []envBinding{
	{"DRILLZ_LLM_PROVIDER", func(c *Config) *string { return &c.Provider }},
	{"DRILLZ_ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"DRILLZ_ANTHROPIC_MODEL", func(c *Config) *string { return &c.Anthropic.Model }},
	{"DRILLZ_OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"DRILLZ_OPENAI_MODEL", func(c *Config) *string { return &c.OpenAI.Model }},
	{"DRILLZ_OPENAI_BASE_URL", func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{"DRILLZ_GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"DRILLZ_GEMINI_MODEL", func(c *Config) *string { return &c.Gemini.Model }},
	{"DRILLZ_OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{"DRILLZ_OPENROUTER_MODEL", func(c *Config) *string { return &c.OpenRouter.Model }},
}

// ApplyEnv overrides fields of c from DRILLZ_* environment variables.
// Unset or empty variables leave the field alone.
func (c *Config) ApplyEnv() {
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			*b.dst(c) = v
		}
	}
}

// ConfigFromEnv returns the defaults overridden from the environment.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg
}

// discoveryOrder lists the conventional vendor key variables checked by
// DiscoverConfig, in priority order.
var discoveryOrder = []struct {
	env      string
	provider string
	dst      func(*Config) *string
}{
	{"ANTHROPIC_API_KEY", ProviderAnthropic, func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"OPENAI_API_KEY", ProviderOpenAI, func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"GEMINI_API_KEY", ProviderGemini, func(c *Config) *string { return &c.Gemini.APIKey }},
	{"OPENROUTER_API_KEY", ProviderOpenRouter, func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// DiscoverConfig selects the first provider whose conventional API key
// variable is set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg := DefaultConfig()
			cfg.Provider = d.provider
			*d.dst(&cfg) = k
			return cfg, true
		}
	}
	return Config{}, false
}

// HasKey reports whether the selected provider has credentials. The mock
// provider never needs any.
func (c Config) HasKey() bool {
	return c.Validate() == nil
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "DRILLZ_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "DRILLZ_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "DRILLZ_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "DRILLZ_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
