package api

import (
	"MarketDash/internal/domain/models"
	"MarketDash/internal/services/presentation"
	"MarketDash/internal/usecase"
)

// Some endpoints answer outside the common envelope; the dashboard reads
// these exact shapes.

type loginResponse struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
	Token   string      `json:"token,omitempty"`
}

type positionsResponse struct {
	Success bool                          `json:"success"`
	Data    []models.Position             `json:"data"`
	Count   int                           `json:"count"`
	Summary []presentation.PortfolioGroup `json:"summary"`
	Debug   usecase.PositionsDebug        `json:"debug"`
}

type triggerResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Response any    `json:"response"`
}

type lynchError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Type    string `json:"type,omitempty"`
}
