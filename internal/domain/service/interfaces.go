package service

import (
	"context"

	"MarketDash/internal/domain/models"
)

// WebhookClient calls the workflow engine.
type WebhookClient interface {
	// Trigger posts {timestamp, action} and returns the decoded answer.
	Trigger(ctx context.Context, url, action string) (any, error)
	// Sync posts without a body; non-2xx answers are errors.
	Sync(ctx context.Context, url string) (any, error)
	// Lynch requests the score of one ticker.
	Lynch(ctx context.Context, url, token, ticker string) (any, error)
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Enabled() bool
	Issue(u models.User) (string, error)
}

// Refresher re-reads the latest analysis run out of band.
type Refresher interface {
	Notify()
}
