package usecase

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotConfigured      = errors.New("not configured")
	ErrRateLimited        = errors.New("rate limited")
	ErrTickerRequired     = errors.New("ticker is required")
)
