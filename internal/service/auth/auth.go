package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"MarketDash/internal/domain/models"
	xhttp "MarketDash/pkg/http"
)

const userContextKey = "user"

var ErrTokensDisabled = errors.New("auth: no signing secret configured")

// Claims carried by a dashboard session token.
type Claims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClientID string `json:"clientId,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 session tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Enabled reports whether a signing secret is configured.
func (s *Service) Enabled() bool { return len(s.secret) > 0 }

// Issue signs a token for u.
func (s *Service) Issue(u models.User) (string, error) {
	if !s.Enabled() {
		return "", ErrTokensDisabled
	}
	now := s.now()
	claims := Claims{
		Email:    u.Email,
		Role:     u.Role,
		ClientID: u.ClientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.Email,
			Issuer:    "marketdash",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a token.
func (s *Service) Verify(token string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrTokensDisabled
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("marketdash"),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token when required is
// set. Valid claims are stored on the context either way.
func (s *Service) Middleware(required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if ok && s.Enabled() {
				if claims, err := s.Verify(raw); err == nil {
					c.Set(userContextKey, claims)
					return next(c)
				}
			}
			if required {
				return xhttp.AppErrorResponse(c, xhttp.UnauthorizedError("Unauthorized"))
			}
			return next(c)
		}
	}
}

// FromContext returns the claims set by Middleware, if any.
func FromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(userContextKey).(*Claims)
	return claims, ok
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
