package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/booking/internal/platform/auth"
)

// Logger emits one structured line per request. The actor role is read
// after the handler ran, since the auth middleware sits further down
// the chain and swaps the request context.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}
			if actor, ok := auth.ActorFromContext(req.Context()); ok {
				evt = evt.Str("role", string(actor.Role))
			}

			evt.
				Str("request_id", RequestIDFromContext(req.Context())).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return err
		}
	}
}
