package http

import (
	"fmt"
	"net/http"
)

// AppError is an error a handler can hand to AppErrorResponse. Status and
// Message reach the client; Err stays server side.
type AppError struct {
	Status  int
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.Message, e.Code, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// With attaches a detail returned to the client.
func (e *AppError) With(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

// Wrap records the cause without exposing it.
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

func newAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func NotFoundError(message string) *AppError {
	return newAppError(http.StatusNotFound, "ERR_NOT_FOUND", message)
}

func UnauthorizedError(message string) *AppError {
	return newAppError(http.StatusUnauthorized, "ERR_UNAUTHORIZED", message)
}

func TooManyRequestsError(message string) *AppError {
	return newAppError(http.StatusTooManyRequests, "ERR_RATE_LIMITED", message)
}

// ServiceUnavailableError reports a collaborator switched off in config.
func ServiceUnavailableError(message string) *AppError {
	return newAppError(http.StatusServiceUnavailable, "ERR_UNAVAILABLE", message)
}
