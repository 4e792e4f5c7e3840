package providers

import (
	"context"
	"errors"
	"fmt"

	"namegen-api/internal/pipeline"
	"namegen-api/internal/shared"

	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, used in tests.
	BaseURL string
}

// Gemini calls the Gemini API through the genai SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini never fails on a missing API key; the returned client reports
// ProviderUnavailable on every call instead.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	model := cfg.Model
	if model == "" {
		model = shared.DefaultGeminiModel
	}
	if cfg.APIKey == "" {
		return &Gemini{model: model}, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string {
	return shared.ProviderGemini
}

func (g *Gemini) Generate(ctx context.Context, req pipeline.GenerationRequest) (pipeline.GenerationReply, error) {
	if g.client == nil {
		return "", notConfigured(g.Name(), shared.GeminiAPIKeyEnvName)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(string(req), genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](shared.DefaultTemperature),
		MaxOutputTokens: shared.DefaultMaxTokens,
	})
	if err != nil {
		return "", g.classify(ctx, err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", pipeline.ProviderFailure(
			fmt.Sprintf("gemini blocked the prompt: %s", resp.PromptFeedback.BlockReason),
			shared.ErrProviderBlocked,
		)
	}
	return pipeline.GenerationReply(resp.Text()), nil
}

func (g *Gemini) classify(ctx context.Context, err error) *pipeline.Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return pipeline.ProviderFailure(fmt.Sprintf("gemini responded %d %s", apiErr.Code, apiErr.Status), errors.Join(shared.ErrProviderStatus, err))
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return pipeline.ProviderFailure(fmt.Sprintf("gemini responded %d %s", apiErrPtr.Code, apiErrPtr.Status), errors.Join(shared.ErrProviderStatus, err))
	}
	if perr := contextFailure(ctx, g.Name(), err); perr != nil {
		return perr
	}
	return pipeline.Unavailable("gemini unreachable", errors.Join(shared.ErrProviderHTTP, err))
}
