package middleware

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// RequestID tags every request with a req_<uuid> id.
func RequestID() echo.MiddlewareFunc {
	return eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: func() string { return "req_" + uuid.NewString() },
	})
}

// RequestLogger logs one structured line per request through slog.
// Errors are handed to the HTTPErrorHandler first so the logged status is the
// one the client saw.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= 500 {
					level = slog.LevelError
				} else {
					level = slog.LevelWarn
				}
			}
			logger.LogAttrs(context.Background(), level, "request", attrs...)
			return nil
		},
	})
}
