package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestAppErrorResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := AppErrorResponse(c, UnauthorizedError("Invalid email or password")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != false || body["error"] != "Invalid email or password" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestAppErrorResponseHidesPlainErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	_ = AppErrorResponse(c, http.ErrHandlerTimeout)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decode(t, rec); body["error"] != "Internal server error" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestListResponseCount(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	_ = ListResponse(c, []int{}, 0)
	body := decode(t, rec)
	if body["success"] != true || body["count"] != float64(0) {
		t.Fatalf("count must be present even when zero: %v", body)
	}
}

type loginBody struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Limit    int    `json:"limit" default:"30"`
}

func TestReadAndValidateRequest(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var in loginBody
	verr := ReadAndValidateRequest(c, &in)
	errs, ok := verr.([]ValidationError)
	if !ok || len(errs) != 1 {
		t.Fatalf("expected one validation error, got %#v", verr)
	}
	if errs[0].Field != "password" || errs[0].Code != "ERR_REQUIRED" {
		t.Fatalf("unexpected error %+v", errs[0])
	}
	if in.Limit != 30 {
		t.Fatalf("default not applied: %d", in.Limit)
	}
}

func TestAppErrorDetails(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	appErr := ServiceUnavailableError("Health history is not enabled").
		With("component", "clickhouse").
		Wrap(http.ErrServerClosed)
	_ = AppErrorResponse(c, appErr)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	details, _ := body["details"].(map[string]any)
	if details["component"] != "clickhouse" {
		t.Fatalf("details missing: %v", body)
	}
	if strings.Contains(rec.Body.String(), http.ErrServerClosed.Error()) {
		t.Fatalf("wrapped cause leaked: %s", rec.Body.String())
	}
}

type historyQuery struct {
	Limit int `query:"limit" validate:"gte=1,lte=500"`
}

func TestValidationMessages(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?limit=900", nil), httptest.NewRecorder())

	errs, ok := ReadAndValidateRequest(c, &historyQuery{}).([]ValidationError)
	if !ok || len(errs) != 1 {
		t.Fatalf("expected one validation error, got %#v", errs)
	}
	if errs[0].Field != "limit" || errs[0].Message != "limit must be less than or equal to 500" {
		t.Fatalf("unexpected error %+v", errs[0])
	}
	if errs[0].Params["lte"] != "500" {
		t.Fatalf("params missing: %+v", errs[0].Params)
	}
}
