package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	"MarketDash/internal/usecase"
	xhttp "MarketDash/pkg/http"
	applogger "MarketDash/pkg/logger"
)

// MarketHandler serves stored analysis runs and their divergence evaluation.
type MarketHandler struct {
	logger *applogger.Logger
	market *usecase.MarketData
	mw     []echo.MiddlewareFunc
}

func NewMarketHandler(logger *applogger.Logger, market *usecase.MarketData, mw ...echo.MiddlewareFunc) *MarketHandler {
	return &MarketHandler{logger: logger, market: market, mw: mw}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api", h.mw...)
	g.GET("/market-data", h.History)
	g.GET("/market-data/latest", h.Latest)
	g.GET("/divergence", h.Divergence)
	g.POST("/divergence/evaluate", h.Evaluate)
	g.GET("/market-health/history", h.HealthHistory)
	g.GET("/symbols/:symbol/history", h.SymbolHistory)

	e.GET("/charts/market-health", h.Chart, h.mw...)
}

func (h *MarketHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	entries, err := h.market.History(c.Request().Context(), req.Limit)
	if err != nil {
		h.logger.Error("market data error", applogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch market data", nil)
	}
	return xhttp.SuccessResponse(c, entries)
}

func (h *MarketHandler) Latest(c echo.Context) error {
	view, err := h.market.Latest(c.Request().Context())
	if err != nil {
		return h.latestError(c, err)
	}
	return xhttp.SuccessResponse(c, view)
}

func (h *MarketHandler) Divergence(c echo.Context) error {
	res, err := h.market.Divergence(c.Request().Context())
	if err != nil {
		return h.latestError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.market.Evaluate(req.DetailedResults))
}

func (h *MarketHandler) HealthHistory(c echo.Context) error {
	req := &models.HealthHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	points, err := h.market.HealthHistory(c.Request().Context(), req.Limit)
	if err != nil {
		if errors.Is(err, usecase.ErrNotConfigured) {
			return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("Health history is not enabled").Wrap(err))
		}
		h.logger.Error("health history error", applogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch market health history", nil)
	}
	return xhttp.ListResponse(c, points, len(points))
}

func (h *MarketHandler) SymbolHistory(c echo.Context) error {
	req := &models.SymbolHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	points, err := h.market.SymbolHistory(c.Request().Context(), req.Symbol, req.Limit)
	if err != nil {
		h.logger.Error("symbol history error", applogger.String("symbol", req.Symbol), applogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch symbol history", nil)
	}
	return xhttp.ListResponse(c, points, len(points))
}

func (h *MarketHandler) Chart(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.market.RenderChart(c.Request().Context(), &buf); err != nil {
		h.logger.Error("chart render error", applogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Failed to render chart", nil)
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *MarketHandler) latestError(c echo.Context, err error) error {
	if errors.Is(err, domrepo.ErrNotFound) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("No market data available"))
	}
	h.logger.Error("latest market data error", applogger.Error(err))
	return xhttp.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch market data", nil)
}
