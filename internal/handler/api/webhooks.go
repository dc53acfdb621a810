package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"MarketDash/internal/domain/models"
	"MarketDash/internal/usecase"
	xhttp "MarketDash/pkg/http"
	applogger "MarketDash/pkg/logger"
)

// WebhooksHandler proxies dashboard buttons to the workflow engine.
type WebhooksHandler struct {
	logger   *applogger.Logger
	webhooks *usecase.Webhooks
	mw       []echo.MiddlewareFunc
}

func NewWebhooksHandler(logger *applogger.Logger, webhooks *usecase.Webhooks, mw ...echo.MiddlewareFunc) *WebhooksHandler {
	return &WebhooksHandler{logger: logger, webhooks: webhooks, mw: mw}
}

func (h *WebhooksHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.mw...)
	g.POST("/trigger-webhook", h.TriggerMarket)
	g.POST("/trigger-stock-analysis", h.TriggerStocks)
	g.POST("/sync-holdings", h.SyncHoldings)
	g.POST("/lynch-score", h.LynchScore)
}

func (h *WebhooksHandler) TriggerMarket(c echo.Context) error {
	out, err := h.webhooks.CheckMarket(c.Request().Context(), c.RealIP())
	if err != nil {
		return h.triggerError(c, err, "Webhook URL not configured", "Failed to trigger webhook")
	}
	return c.JSON(http.StatusOK, triggerResponse{Success: true, Message: "Webhook triggered successfully", Response: out})
}

func (h *WebhooksHandler) TriggerStocks(c echo.Context) error {
	out, err := h.webhooks.AnalyzeStocks(c.Request().Context(), c.RealIP())
	if err != nil {
		return h.triggerError(c, err, "Stock analysis webhook URL not configured", "Failed to trigger stock analysis")
	}
	return c.JSON(http.StatusOK, triggerResponse{Success: true, Message: "Stock analysis triggered successfully", Response: out})
}

func (h *WebhooksHandler) SyncHoldings(c echo.Context) error {
	out, err := h.webhooks.SyncHoldings(c.Request().Context(), c.RealIP())
	switch {
	case errors.Is(err, usecase.ErrNotConfigured):
		return xhttp.ErrorResponse(c, http.StatusBadRequest, "LIVE_HOLDINGS webhook URL not configured", nil)
	case errors.Is(err, usecase.ErrRateLimited):
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many requests"))
	case err != nil:
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Failed to sync holdings", nil)
	}
	return xhttp.MessageResponse(c, "Holdings synced successfully", out)
}

// LynchScore answers with the workflow engine payload as is.
func (h *WebhooksHandler) LynchScore(c echo.Context) error {
	req := &models.LynchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return c.JSON(http.StatusBadRequest, lynchError{Error: "Ticker is required"})
	}

	out, err := h.webhooks.LynchScore(c.Request().Context(), req.Ticker)
	switch {
	case errors.Is(err, usecase.ErrTickerRequired):
		return c.JSON(http.StatusBadRequest, lynchError{Error: "Ticker is required"})
	case errors.Is(err, usecase.ErrNotConfigured):
		return c.JSON(http.StatusInternalServerError, lynchError{Error: "Webhook URL not configured"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, lynchError{
			Error:   "Failed to analyze ticker",
			Details: err.Error(),
			Type:    errorType(err),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WebhooksHandler) triggerError(c echo.Context, err error, notConfigured, failed string) error {
	switch {
	case errors.Is(err, usecase.ErrNotConfigured):
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, notConfigured, nil)
	case errors.Is(err, usecase.ErrRateLimited):
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many requests"))
	default:
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, failed, err.Error())
	}
}

// errorType names the innermost error type, e.g. "*http.StatusError".
func errorType(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return fmt.Sprintf("%T", err)
		}
		err = next
	}
}
