package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"MarketDash/internal/domain/models"
	"MarketDash/internal/usecase"
	xhttp "MarketDash/pkg/http"
	applogger "MarketDash/pkg/logger"
)

type AuthHandler struct {
	logger *applogger.Logger
	auth   *usecase.Auth
}

func NewAuthHandler(logger *applogger.Logger, auth *usecase.Auth) *AuthHandler {
	return &AuthHandler{logger: logger, auth: auth}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/login", h.Login)
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := &models.LoginRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "Email and password are required", verr)
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return xhttp.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password", nil)
	case err != nil:
		h.logger.Error("login failed", applogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Login failed", nil)
	}
	return c.JSON(http.StatusOK, loginResponse{Success: true, User: res.User, Token: res.Token})
}
