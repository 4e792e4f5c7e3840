// Package generate adapts the username pipeline to HTTP.
package generate

import (
	"errors"
	"io"
	"net/http"
	"time"

	"namegen-api/internal/ctx"
	"namegen-api/internal/metrics"
	"namegen-api/internal/pipeline"
	"namegen-api/internal/shared"

	"github.com/labstack/echo/v4"
)

const outcomeSuccess = "success"

type Recorder interface {
	Record(rec shared.GenerationRecord)
}

type HandlerConfig struct {
	Pipeline   *pipeline.Pipeline
	Provider   string
	InstanceID string
	// Recorder is optional.
	Recorder Recorder
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

// Generate answers with the identifier as text/plain, or with the error's
// user message and status.
func (h *Handler) Generate(cc echo.Context) error {
	c := cc.(*ctx.Context)
	c.LogValues.Provider = h.cfg.Provider

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		c.LogValues.AddError(err)
		return c.String(http.StatusBadRequest, "failed to read request body")
	}

	start := time.Now()
	raw, err := pipeline.DecodeRawRequest(body)
	var id pipeline.Identifier
	if err == nil {
		id, err = h.cfg.Pipeline.Generate(c.Request().Context(), raw)
	}
	duration := time.Since(start)

	outcome := outcomeSuccess
	if err != nil {
		outcome = string(pipeline.KindOf(err))
	}
	c.LogValues.Outcome = outcome
	h.observe(outcome, duration, err)
	h.record(c, raw, id, outcome, duration)

	if err != nil {
		var perr *pipeline.Error
		if !errors.As(err, &perr) {
			perr = pipeline.ProviderFailure("unexpected pipeline failure", err)
		}
		c.LogValues.AddError(err)
		if perr.Kind != pipeline.KindInvalidInput {
			c.Log.Warnw("Generation failed", "kind", perr.Kind, "detail", perr.Detail)
		}
		return c.String(perr.StatusCode(), perr.UserMessage())
	}

	c.LogValues.Identifier = string(id)
	return c.String(http.StatusOK, string(id))
}

func (h *Handler) MethodNotAllowed(c echo.Context) error {
	return c.String(shared.ErrMethodNotAllowed.StatusCode, shared.ErrMethodNotAllowed.Err.Error())
}

func (h *Handler) observe(outcome string, duration time.Duration, err error) {
	metrics.GenerationCount.WithLabelValues(h.cfg.Provider, outcome).Inc()
	if outcome == string(pipeline.KindInvalidInput) {
		return
	}
	metrics.GenerationDuration.WithLabelValues(h.cfg.Provider, outcome).Observe(duration.Seconds())
	if err == nil || outcome == string(pipeline.KindEmptyResult) {
		return
	}
	from := outcome
	var merr *shared.MetricsError
	if errors.As(err, &merr) {
		from = merr.Code
	}
	metrics.ErrorCount.WithLabelValues(h.cfg.Provider, from).Inc()
}

// record skips requests that never reached the provider.
func (h *Handler) record(c *ctx.Context, raw pipeline.RawRequest, id pipeline.Identifier, outcome string, duration time.Duration) {
	if h.cfg.Recorder == nil || outcome == string(pipeline.KindInvalidInput) {
		return
	}
	prompt, err := pipeline.Validate(raw)
	if err != nil {
		return
	}
	h.cfg.Recorder.Record(shared.GenerationRecord{
		RequestID:  c.Reqid,
		InstanceID: h.cfg.InstanceID,
		Provider:   h.cfg.Provider,
		Prompt:     string(prompt),
		Identifier: string(id),
		Outcome:    outcome,
		Duration:   duration,
		CreatedAt:  time.Now(),
	})
}
