package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// slowRequest marks requests worth a warning even when they succeed.
const slowRequest = time.Second

// AccessLogMiddleware logs one structured line per request with the route
// pattern and the language the response was localized to.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("route", c.Route().Path),
			slog.Int("status", status),
			slog.Duration("latency", elapsed),
			slog.Int("bytes_out", len(c.Response().Body())),
			slog.String("lang", requestLanguage(c)),
		}

		level := slog.LevelInfo
		switch {
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			level = slog.LevelError
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest, elapsed > slowRequest:
			level = slog.LevelWarn
		}

		ctx := c.UserContext()
		LoggerFromCtx(ctx).LogAttrs(ctx, level, "request", attrs...)
		return err
	}
}
