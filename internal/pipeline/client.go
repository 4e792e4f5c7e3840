package pipeline

import "context"

// GenerationReply is the provider's raw text, before sanitizing.
type GenerationReply string

// GenerationClient is implemented by provider adapters. Implementations must
// not retry, and should return *Error with KindProviderUnavailable when the
// provider cannot be reached or is not configured, and KindProviderError when
// it answered with a failure.
type GenerationClient interface {
	Generate(ctx context.Context, req GenerationRequest) (GenerationReply, error)
}

// ClientFunc adapts a function to GenerationClient.
type ClientFunc func(ctx context.Context, req GenerationRequest) (GenerationReply, error)

func (f ClientFunc) Generate(ctx context.Context, req GenerationRequest) (GenerationReply, error) {
	return f(ctx, req)
}
