package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return SuccessResponse(c, "pong") })
}

func TestServerRoutes(t *testing.T) {
	s := NewServer(Handlers{pingHandler{}, nil}, nil)

	for _, path := range []string{"/ping", "/healthz"} {
		rec := httptest.NewRecorder()
		s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rec.Code)
		}
		if rec.Header().Get(echo.HeaderXRequestID) == "" {
			t.Fatalf("%s: request id header missing", path)
		}
	}

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("metrics should be off without WithMetrics, got %d", rec.Code)
	}
}

func TestServerStartStop(t *testing.T) {
	s := NewServer(pingHandler{}, nil, WithHost("127.0.0.1"), WithPort(0))
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	addr := s.Addr()
	if addr == "" {
		t.Fatalf("address not bound")
	}

	resp, err := http.Get("http://" + addr + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := http.Get("http://" + addr + "/ping"); err == nil {
		t.Fatalf("server still serving after stop")
	}
}
