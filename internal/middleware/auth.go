package middleware

import (
	"crypto/subtle"

	"namegen-api/internal/shared"

	"github.com/labstack/echo/v4"
)

// RequireAPIKey guards a route behind a static bearer key. An empty key
// rejects every request.
func RequireAPIKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey, err := shared.ExtractAPIKey(c)
			if err != nil {
				return c.String(shared.ErrMissingAuth.StatusCode, "Missing or invalid API key")
			}
			if key == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) != 1 {
				return c.String(shared.ErrUnauthorized.StatusCode, "Unauthorized API key")
			}
			return next(c)
		}
	}
}
