package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes a 200 envelope carrying data.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// ListResponse writes a 200 envelope carrying rows and their count.
func ListResponse(c echo.Context, rows interface{}, count int) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: rows, Count: &count})
}

// MessageResponse writes a 200 envelope with a message and an optional payload.
func MessageResponse(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// ErrorResponse writes a failed envelope with the given status.
func ErrorResponse(c echo.Context, status int, message string, details interface{}) error {
	return c.JSON(status, APIResponse{Error: message, Details: details})
}

// BadRequestResponse writes bad request error, usually validation details.
func BadRequestResponse(c echo.Context, details interface{}) error {
	return ErrorResponse(c, http.StatusBadRequest, "Invalid request", details)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, "Internal server error", nil)
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		var details interface{}
		if len(appErr.Details) > 0 {
			details = appErr.Details
		}
		return ErrorResponse(c, appErr.Status, appErr.Message, details)
	}
	return InternalServerErrorResponse(c)
}
