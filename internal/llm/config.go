package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures one provider.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the API endpoint of OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds one Generate call, retries included. Zero disables it.
	Timeout time.Duration
}

// RetryConfig controls exponential backoff.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

type providerDefaults struct {
	model  string
	keyEnv string
}

var defaults = map[string]providerDefaults{
	ProviderAnthropic:  {model: "claude-haiku", keyEnv: "ANTHROPIC_API_KEY"},
	ProviderOpenAI:     {model: "gpt-4o-mini", keyEnv: "OPENAI_API_KEY"},
	ProviderGemini:     {model: "gemini-flash", keyEnv: "GEMINI_API_KEY"},
	ProviderOpenRouter: {model: "google/gemini-2.5-flash", keyEnv: "OPENROUTER_API_KEY"},
	ProviderMock:       {model: "mock"},
}

// discoveryOrder is the order standard API key variables are probed in
// when no provider is named.
var discoveryOrder = []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter}

// DefaultConfig returns retry and timeout defaults with no provider.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// ConfigFromEnv reads QUIZBANK_LLM_PROVIDER, QUIZBANK_LLM_MODEL,
// QUIZBANK_LLM_API_KEY and QUIZBANK_LLM_BASE_URL. Without a provider it
// picks the first one whose standard key variable (GEMINI_API_KEY,
// OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY) is set. It returns
// ErrNotConfigured when nothing is found.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	cfg.Provider = os.Getenv("QUIZBANK_LLM_PROVIDER")
	if cfg.Provider == "" {
		for _, name := range discoveryOrder {
			if k := os.Getenv(defaults[name].keyEnv); k != "" {
				cfg.Provider = name
				cfg.APIKey = k
				break
			}
		}
	}
	if cfg.Provider == "" {
		return cfg, ErrNotConfigured
	}

	d, ok := defaults[cfg.Provider]
	if !ok {
		return cfg, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if k := os.Getenv("QUIZBANK_LLM_API_KEY"); k != "" {
		cfg.APIKey = k
	} else if cfg.APIKey == "" && d.keyEnv != "" {
		cfg.APIKey = os.Getenv(d.keyEnv)
	}
	cfg.Model = os.Getenv("QUIZBANK_LLM_MODEL")
	cfg.BaseURL = os.Getenv("QUIZBANK_LLM_BASE_URL")
	cfg = cfg.withDefaults()
	return cfg, cfg.Validate()
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = defaults[c.Provider].model
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = DefaultConfig().Retry
	}
	return c
}

// Validate checks the provider name and that an API key is present.
func (c Config) Validate() error {
	d, ok := defaults[c.Provider]
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if c.Provider != ProviderMock && c.APIKey == "" {
		return fmt.Errorf("%s provider needs QUIZBANK_LLM_API_KEY or %s", c.Provider, d.keyEnv)
	}
	return nil
}
