package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anonto42/compass/backend/internal/apperror"
	"github.com/labstack/echo/v4"
)

// Wrap adapts a handler so that a panic inside it is returned as an error.
// Echo forwards every returned error to the HTTPErrorHandler exactly once.
func Wrap(h echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = fmt.Errorf("panic in handler: %w", e)
					return
				}
				err = fmt.Errorf("panic in handler: %v", r)
			}
		}()
		return h(c)
	}
}

// ErrorHandler returns the echo.HTTPErrorHandler used as the only
// failure-to-response translation point.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		req := c.Request()
		if c.Response().Committed {
			// RequestLogger already reported this one.
			return
		}

		failure := ToFailure(err)
		if failure.StatusCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.String("error", err.Error()),
			)
		}

		var writeErr error
		if req.Method == http.MethodHead {
			writeErr = c.NoContent(failure.StatusCode)
		} else {
			writeErr = c.JSON(failure.StatusCode, failure)
		}
		if writeErr != nil {
			logger.Error("failed to write error response", slog.String("error", writeErr.Error()))
		}
	}
}

// ToFailure maps any error to its wire envelope. Unknown errors become a
// generic 500 without internal detail.
func ToFailure(err error) Failure {
	if appErr, ok := apperror.As(err); ok {
		errs := appErr.Errors
		if errs == nil {
			errs = []string{}
		}
		return Failure{
			StatusCode: appErr.StatusCode,
			Message:    appErr.Message,
			Errors:     errs,
		}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		msg, ok := he.Message.(string)
		if !ok || msg == "" {
			msg = http.StatusText(he.Code)
		}
		return Failure{StatusCode: he.Code, Message: msg, Errors: []string{}}
	}

	internal := apperror.Internal()
	return Failure{
		StatusCode: internal.StatusCode,
		Message:    internal.Message,
		Errors:     []string{},
	}
}
