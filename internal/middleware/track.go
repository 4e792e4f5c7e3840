package middleware

import (
	"fmt"
	"time"

	"namegen-api/internal/ctx"
	"namegen-api/internal/metrics"
	"namegen-api/internal/shared"

	"github.com/aidarkhanov/nanoid"
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const requestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func NewTrackMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID, _ := nanoid.Generate(requestIDAlphabet, 28)
			reqID = "req_" + reqID
			logger := log.With("request_id", reqID)

			start := time.Now()
			cc := &ctx.Context{
				Context: c,
				Log:     logger,
				Reqid:   reqID,
				LogValues: &ctx.ContextLogValues{
					RequestID: reqID,
					StartTime: start,
					Path:      c.Path(),
					Method:    c.Request().Method,
				},
			}
			cc.Response().Header().Set(echo.HeaderXRequestID, reqID)

			err := next(cc)
			if err != nil {
				// Lets echo's error handler write the response before we
				// read the status below.
				c.Error(err)
			}

			lv := cc.LogValues
			lv.RequestDuration = time.Since(start)
			lv.StatusCode = cc.Response().Status
			status := fmt.Sprintf("%d", lv.StatusCode)
			switch {
			case lv.LogLevel == "ERROR" || lv.StatusCode >= 500:
				cc.Log.Errorw("end_of_request", zap.Object("log_values", lv))
			case lv.StatusCode >= 400:
				cc.Log.Warnw("end_of_request", zap.Object("log_values", lv))
			default:
				cc.Log.Infow("end_of_request", zap.Object("log_values", lv))
			}
			metrics.ResponseCodes.WithLabelValues(lv.Path, status).Inc()
			return nil
		}
	}
}

func NewRecoverMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return emw.RecoverWithConfig(emw.RecoverConfig{
		StackSize: 1 << 10, // 1 KB
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			defer func() {
				_ = log.Sync()
			}()
			log.Errorw("Api Panic", "error", err.Error())
			return c.String(500, shared.ErrInternalServerError.Err.Error())
		},
	})
}

// NewCORSMiddleware answers preflight requests with the header set browsers
// need to call the generate endpoint from any origin.
func NewCORSMiddleware() echo.MiddlewareFunc {
	return emw.CORSWithConfig(emw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{echo.HeaderContentType},
		MaxAge:       shared.CORSMaxAge,
	})
}

// NewBodyLimitMiddleware rejects request bodies over MaxRequestBodySize
// with 413.
func NewBodyLimitMiddleware() echo.MiddlewareFunc {
	return emw.BodyLimit(shared.MaxRequestBodySize)
}
