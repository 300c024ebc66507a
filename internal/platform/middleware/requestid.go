package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// RequestIDFromContext retrieves the id set by the RequestID
// middleware, or "" when there is none.
func RequestIDFromContext(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey).(string)
	return rid
}

// RequestID assigns every request an id, honoring one supplied by the
// client, and echoes it back on the response. The id travels in the
// request context so the logger and the recovery handler read the same
// value the domain services see.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.New().String()
			}
			c.SetRequest(c.Request().WithContext(WithRequestID(c.Request().Context(), rid)))
			c.Response().Header().Set(RequestIDHeader, rid)
			return next(c)
		}
	}
}
