package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/concierge/concierge/internal/platform/auth"
)

// Logger emits one structured line per request. The log level follows the
// outcome: server errors log at error, client errors at warn, everything else
// at info. The authenticated member id and role are included so intake
// activity can be traced per member without joining against access logs.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			status := c.Response().Status
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
			}

			var evt *zerolog.Event
			switch {
			case status >= 500:
				evt = logger.Error().Err(err)
			case status >= 400:
				evt = logger.Warn()
			default:
				evt = logger.Info()
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", time.Since(start)).
				Int64("bytes_out", c.Response().Size).
				Str("remote_ip", c.RealIP())

			if memberID := auth.MemberIDFromContext(req.Context()); memberID != "" {
				evt = evt.Str("member_id", memberID).Str("role", auth.RoleFromContext(req.Context()))
			}

			evt.Msg("http request")
			return err
		}
	}
}
