package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	domsvc "MarketDash/internal/domain/service"
	applogger "MarketDash/pkg/logger"
)

// LoginResult is returned on a successful login. Token is empty when session
// tokens are disabled.
type LoginResult struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

type Auth struct {
	users  domrepo.UserRepository
	tokens domsvc.TokenIssuer
	log    *applogger.Logger
}

func NewAuth(users domrepo.UserRepository, tokens domsvc.TokenIssuer, log *applogger.Logger) *Auth {
	if log == nil {
		log = applogger.Nop()
	}
	return &Auth{users: users, tokens: tokens, log: log}
}

// Login checks email and password against the stored login record. Unknown
// users and wrong passwords both yield ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if a.users == nil {
		return nil, ErrNotConfigured
	}

	creds, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domrepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(creds.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	res := &LoginResult{User: creds.User}
	if a.tokens != nil && a.tokens.Enabled() {
		token, err := a.tokens.Issue(creds.User)
		if err != nil {
			return nil, fmt.Errorf("issue token: %w", err)
		}
		res.Token = token
	}
	a.log.Info("user logged in", applogger.String("email", email), applogger.String("role", creds.Role))
	return res, nil
}
