package llm

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewProvider builds the provider cfg names, wrapped so that each call is
// recorded, retried on transient failures and bounded by cfg.Timeout.
func NewProvider(ctx context.Context, cfg Config, events EventAppender, log logrus.FieldLogger) (Provider, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	p := WithRetry(WithRecording(base, cfg.Provider, events, log), cfg.Retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}

// NewProviderFromEnv is NewProvider with ConfigFromEnv.
func NewProviderFromEnv(ctx context.Context, events EventAppender, log logrus.FieldLogger) (Provider, Config, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, cfg, err
	}
	p, err := NewProvider(ctx, cfg, events, log)
	return p, cfg, err
}
