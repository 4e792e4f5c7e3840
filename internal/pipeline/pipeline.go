package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const DefaultTimeout = 30 * time.Second

// Pipeline holds only immutable configuration and is safe for concurrent use.
type Pipeline struct {
	client  GenerationClient
	timeout time.Duration
}

type Option func(*Pipeline)

// WithTimeout bounds each provider call. A non-positive value leaves the
// caller's context as the only bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.timeout = d
	}
}

func New(client GenerationClient, opts ...Option) *Pipeline {
	p := &Pipeline{client: client, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate runs validate, build, generate and sanitize in order and stops at
// the first failure. Every returned error is a *Error.
func (p *Pipeline) Generate(ctx context.Context, raw RawRequest) (Identifier, error) {
	prompt, err := Validate(raw)
	if err != nil {
		return "", err
	}

	reply, err := p.call(ctx, Build(prompt))
	if err != nil {
		return "", err
	}

	return Sanitize(reply)
}

func (p *Pipeline) call(ctx context.Context, req GenerationRequest) (reply GenerationReply, err error) {
	if p.client == nil {
		return "", Unavailable("provider not configured", nil)
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			reply = ""
			err = ProviderFailure("provider panicked", fmt.Errorf("%v", r))
		}
	}()

	reply, err = p.client.Generate(ctx, req)
	if err == nil {
		return reply, nil
	}
	var perr *Error
	if errors.As(err, &perr) {
		return "", perr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", Unavailable("provider call did not complete", errors.Join(ctxErr, err))
	}
	return "", ProviderFailure("unexpected provider failure", err)
}
