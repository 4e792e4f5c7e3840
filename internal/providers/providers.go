// Package providers implements pipeline.GenerationClient for hosted
// text-generation APIs.
package providers

import (
	"context"
	"errors"
	"fmt"

	"namegen-api/internal/pipeline"
	"namegen-api/internal/shared"
)

// Provider is a GenerationClient with a stable name for logs and metrics.
type Provider interface {
	pipeline.GenerationClient
	Name() string
}

type Config struct {
	Provider string
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
}

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case shared.ProviderGemini, "":
		return NewGemini(ctx, cfg.Gemini)
	case shared.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAI), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// contextFailure reports whether err came from the call's own deadline or
// cancellation and wraps it as unavailable.
func contextFailure(ctx context.Context, name string, err error) *pipeline.Error {
	if ctx.Err() == nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil
	}
	return pipeline.Unavailable(name+" call did not complete", errors.Join(shared.ErrProviderContext, err))
}

func notConfigured(name, missing string) *pipeline.Error {
	return pipeline.Unavailable(fmt.Sprintf("%s provider not configured: missing %s", name, missing), shared.ErrProviderConfig)
}
