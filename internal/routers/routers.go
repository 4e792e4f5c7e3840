// Package routers wires handlers and middleware onto echo.
package routers

import (
	"namegen-api/internal/handlers/generate"
	"namegen-api/internal/middleware"
	"namegen-api/internal/pipeline"
	"namegen-api/internal/ratelimit"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GeneratePaths also serves the endpoint at the root, for clients that call
// the bare function URL.
var GeneratePaths = []string{"/", "/generate"}

type GenerateRouterConfig struct {
	Pipeline   *pipeline.Pipeline
	Provider   string
	InstanceID string
	// Recorder and Limiter are optional.
	Recorder generate.Recorder
	Limiter  ratelimit.Limiter
}

// NewEcho builds an echo instance with the base middleware. It is applied at
// the root so that preflight and unmatched requests get CORS headers too.
// Recover sits inside Track so panics still end with a logged 500.
func NewEcho(log *zap.SugaredLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewCORSMiddleware())
	e.Use(middleware.NewTrackMiddleware(log))
	e.Use(middleware.NewRecoverMiddleware(log))
	e.Use(middleware.NewBodyLimitMiddleware())
	return e
}

func RegisterGenerateRoutes(e *echo.Echo, cfg GenerateRouterConfig) {
	h := generate.NewHandler(generate.HandlerConfig{
		Pipeline:   cfg.Pipeline,
		Provider:   cfg.Provider,
		InstanceID: cfg.InstanceID,
		Recorder:   cfg.Recorder,
	})

	var mws []echo.MiddlewareFunc
	if cfg.Limiter != nil {
		mws = append(mws, middleware.NewRateLimitMiddleware(cfg.Limiter))
	}

	for _, path := range GeneratePaths {
		e.POST(path, h.Generate, mws...)
		e.Match([]string{"GET", "PUT", "PATCH", "DELETE"}, path, h.MethodNotAllowed)
	}
}
