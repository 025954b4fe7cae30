// Package response holds the uniform success and failure envelopes and the
// single error sink that turns handler failures into them.
package response

import (
	"github.com/labstack/echo/v4"
)

const defaultMessage = "Success"

// Success is the envelope written for every successful request.
type Success struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// Failure is the envelope written for every failed request.
type Failure struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Success    bool     `json:"success"`
}

// New builds a success envelope. Success is derived from the status code.
func New(statusCode int, data any, message string) Success {
	if message == "" {
		message = defaultMessage
	}
	return Success{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// JSON writes a success envelope with a matching HTTP status.
func JSON(c echo.Context, statusCode int, data any, message string) error {
	return c.JSON(statusCode, New(statusCode, data, message))
}
