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

// DashboardHandler serves signals, positions and the aggregated page data.
type DashboardHandler struct {
	logger    *applogger.Logger
	signals   *usecase.Signals
	positions *usecase.Positions
	dashboard *usecase.Dashboard
	mw        []echo.MiddlewareFunc
}

func NewDashboardHandler(logger *applogger.Logger, signals *usecase.Signals, positions *usecase.Positions, dashboard *usecase.Dashboard, mw ...echo.MiddlewareFunc) *DashboardHandler {
	return &DashboardHandler{logger: logger, signals: signals, positions: positions, dashboard: dashboard, mw: mw}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.mw...)
	g.GET("/trading-signals", h.Signals)
	g.GET("/positions", h.Positions)
	g.GET("/dashboard", h.Dashboard)
}

func (h *DashboardHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	cards, err := h.signals.Recent(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("trading signals error", applogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch trading signals", nil)
	}
	return xhttp.SuccessResponse(c, cards)
}

func (h *DashboardHandler) Positions(c echo.Context) error {
	res, err := h.positions.Active(c.Request().Context())
	if err != nil {
		if errors.Is(err, usecase.ErrNotConfigured) {
			return xhttp.ErrorResponse(c, http.StatusBadRequest, "Missing MongoDB configuration", nil)
		}
		h.logger.Error("positions error", applogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch positions from MongoDB", err.Error())
	}
	return c.JSON(http.StatusOK, positionsResponse{
		Success: true,
		Data:    res.Positions,
		Count:   len(res.Positions),
		Summary: res.Portfolios,
		Debug:   res.Debug,
	})
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	view, err := h.dashboard.Load(c.Request().Context())
	if err != nil {
		h.logger.Error("dashboard error", applogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Failed to load dashboard", nil)
	}
	return xhttp.SuccessResponse(c, view)
}
