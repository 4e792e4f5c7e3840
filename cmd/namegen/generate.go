package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"namegen-api/internal/credentials"
	"namegen-api/internal/pipeline"
	"namegen-api/internal/providers"
	"namegen-api/internal/shared"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type generateOptions struct {
	count     int
	provider  string
	model     string
	secret    string
	endpoint  string
	timeout   time.Duration
	parallel  int
	debug     bool
	apiKeyEnv string
}

func newGenerateCmd() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [theme words...]",
		Short: "Generate one or more usernames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.debug, _ = cmd.Flags().GetBool("debug")
			return runGenerateCmd(cmd.Context(), cmd, opts, strings.Join(args, " "))
		},
	}
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "Number of usernames to generate")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 4, "Maximum concurrent provider calls")
	cmd.Flags().StringVar(&opts.provider, "provider", shared.ProviderGemini, "Generation provider (gemini, openai)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model override")
	cmd.Flags().StringVar(&opts.secret, "api-key-secret", "", "Secret Manager version holding the API key")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "OpenAI compatible chat completions URL")
	cmd.Flags().StringVar(&opts.apiKeyEnv, "api-key-env", shared.GeminiAPIKeyEnvName, "Environment variable holding the API key")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", shared.DefaultGenerationTimeout, "Bound on each provider call")
	return cmd
}

func runGenerateCmd(ctx context.Context, cmd *cobra.Command, opts generateOptions, prompt string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zap.NewNop()
	if opts.debug {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
	}
	log := logger.Sugar()
	defer func() {
		_ = log.Sync()
	}()

	apiKey, err := credentials.Resolve(ctx, credentials.Source{
		Value:      shared.GetEnv(opts.apiKeyEnv, ""),
		SecretName: opts.secret,
	})
	if err != nil {
		return err
	}

	client, err := providers.New(ctx, providers.Config{
		Provider: opts.provider,
		Gemini:   providers.GeminiConfig{APIKey: apiKey, Model: opts.model},
		OpenAI:   providers.OpenAIConfig{Endpoint: opts.endpoint, APIKey: apiKey, Model: opts.model},
	})
	if err != nil {
		return err
	}

	p := pipeline.New(client, pipeline.WithTimeout(opts.timeout))
	ids, err := generateMany(ctx, p, prompt, opts.count, opts.parallel)
	if err != nil {
		var perr *pipeline.Error
		if errors.As(err, &perr) {
			log.Debugw("Generation failed", "kind", perr.Kind, "detail", perr.Detail, "error", perr.Err)
			fmt.Fprintln(cmd.ErrOrStderr(), perr.UserMessage())
		}
		return err
	}
	return printIdentifiers(cmd.OutOrStdout(), ids)
}

// generateMany runs count independent pipeline invocations. Results keep
// their invocation order; the first failure cancels the rest.
func generateMany(ctx context.Context, p *pipeline.Pipeline, prompt string, count, parallel int) ([]pipeline.Identifier, error) {
	if count < 1 {
		return nil, pipeline.InvalidInput("count must be at least 1")
	}
	raw := pipeline.RawRequest{"prompt": prompt}
	ids := make([]pipeline.Identifier, count)

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := range count {
		g.Go(func() error {
			id, err := p.Generate(gctx, raw)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

func printIdentifiers(w io.Writer, ids []pipeline.Identifier) error {
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}
