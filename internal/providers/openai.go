package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"namegen-api/internal/pipeline"
	"namegen-api/internal/shared"
)

type OpenAIConfig struct {
	// Endpoint is the full chat completions URL.
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// OpenAI talks to any OpenAI compatible chat completions endpoint.
type OpenAI struct {
	cfg    OpenAIConfig
	client *http.Client
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = shared.DefaultHTTPTimeout
	}
	tr := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: shared.DefaultDialTimeout,
		}).DialContext,
		TLSHandshakeTimeout: shared.DefaultTLSHandshakeTimeout,
		DisableKeepAlives:   false,
	}
	return &OpenAI{
		cfg:    cfg,
		client: &http.Client{Transport: tr, Timeout: timeout},
	}
}

func (o *OpenAI) Name() string {
	return shared.ProviderOpenAI
}

func (o *OpenAI) Generate(ctx context.Context, req pipeline.GenerationRequest) (pipeline.GenerationReply, error) {
	switch {
	case o.cfg.Endpoint == "":
		return "", notConfigured(o.Name(), "endpoint")
	case o.cfg.APIKey == "":
		return "", notConfigured(o.Name(), "api key")
	}

	body, err := json.Marshal(shared.InferenceBody{
		Messages:    []shared.ChatMessage{{Role: "user", Content: string(req)}},
		Temperature: shared.DefaultTemperature,
		Model:       o.cfg.Model,
		MaxTokens:   shared.DefaultMaxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", pipeline.ProviderFailure("failed to encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", pipeline.Unavailable("invalid provider endpoint", errors.Join(shared.ErrProviderConfig, err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	res, err := o.client.Do(httpReq)
	if err != nil {
		if perr := contextFailure(ctx, o.Name(), err); perr != nil {
			return "", perr
		}
		return "", pipeline.Unavailable("openai unreachable", errors.Join(shared.ErrProviderHTTP, err))
	}
	defer func() {
		_ = res.Body.Close()
	}()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		if perr := contextFailure(ctx, o.Name(), err); perr != nil {
			return "", perr
		}
		return "", pipeline.ProviderFailure("failed reading provider response", errors.Join(shared.ErrProviderResponse, err))
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", pipeline.ProviderFailure(
			fmt.Sprintf("openai responded %d: %s", res.StatusCode, truncate(string(raw), 256)),
			shared.ErrProviderStatus,
		)
	}

	var completion shared.ChatCompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return "", pipeline.ProviderFailure("malformed provider response", errors.Join(shared.ErrProviderResponse, err))
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return pipeline.GenerationReply(completion.Choices[0].Message.Content), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
