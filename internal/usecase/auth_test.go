package usecase

import (
	"context"
	"errors"
	"testing"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
)

type fakeUsers map[string]models.Credentials

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*models.Credentials, error) {
	c, ok := f[email]
	if !ok {
		return nil, domrepo.ErrNotFound
	}
	return &c, nil
}

type fakeIssuer struct{ enabled bool }

func (f fakeIssuer) Enabled() bool { return f.enabled }
func (f fakeIssuer) Issue(u models.User) (string, error) {
	return "token-for-" + u.Email, nil
}

func TestLogin(t *testing.T) {
	users := fakeUsers{
		"ana@example.com": {User: models.User{Email: "ana@example.com", Role: "admin", ClientID: "c-1"}, Password: "s3cret"},
	}

	cases := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"ok", "ana@example.com", "s3cret", nil},
		{"trimmed email", "  ana@example.com ", "s3cret", nil},
		{"wrong password", "ana@example.com", "nope", ErrInvalidCredentials},
		{"unknown user", "bob@example.com", "s3cret", ErrInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := NewAuth(users, fakeIssuer{enabled: true}, nil).Login(context.Background(), tc.email, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				return
			}
			if res.User.ClientID != "c-1" || res.User.Role != "admin" {
				t.Fatalf("unexpected user %+v", res.User)
			}
			if res.Token != "token-for-ana@example.com" {
				t.Fatalf("unexpected token %q", res.Token)
			}
		})
	}
}

func TestLoginWithoutTokens(t *testing.T) {
	users := fakeUsers{"a@b.c": {User: models.User{Email: "a@b.c"}, Password: "p"}}
	res, err := NewAuth(users, fakeIssuer{}, nil).Login(context.Background(), "a@b.c", "p")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "" {
		t.Fatalf("token issued while disabled")
	}
}

func TestLoginNotConfigured(t *testing.T) {
	_, err := NewAuth(nil, nil, nil).Login(context.Background(), "a", "b")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
