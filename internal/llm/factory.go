package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/drillz/internal/logger"
)

// NewProvider builds the configured provider. Calls flow
// caller → retry → recording → provider, so every attempt is recorded.
// A nil recorder skips event recording.
func NewProvider(ctx context.Context, cfg Config, rec Recorder, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if rec != nil {
		base = WithRecording(base, cfg.Provider, rec, log)
	}
	return WithRetry(base, cfg.Retry, log), nil
}
