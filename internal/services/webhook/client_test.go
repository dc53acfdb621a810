package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerSendsActionAndIgnoresStatus(t *testing.T) {
	var got TriggerPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"queued":true}`))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	c.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }

	out, err := c.Trigger(context.Background(), srv.URL, ActionCheckMarket)
	if err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if got.Action != ActionCheckMarket || got.Timestamp != "2024-03-01T09:30:00.000Z" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if m, ok := out.(map[string]any); !ok || m["queued"] != true {
		t.Fatalf("unexpected response %#v", out)
	}
}

func TestTriggerRejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer srv.Close()

	if _, err := NewClient(time.Second).Trigger(context.Background(), srv.URL, ActionAnalyzeStocks); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSyncRequiresSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			t.Errorf("sync must not send a body")
		}
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"down"}`))
	}))
	defer srv.Close()

	if _, err := NewClient(time.Second).Sync(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestLynchUnwrapsArrayAndNormalizesTicker(t *testing.T) {
	var got LynchPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`[{"ticker":"AAPL","score":7},{"ticker":"ignored"}]`))
	}))
	defer srv.Close()

	out, err := NewClient(time.Second).Lynch(context.Background(), srv.URL, "tooken", "  aapl ")
	if err != nil {
		t.Fatalf("lynch: %v", err)
	}
	if got.Token != "tooken" || len(got.Tickers) != 1 || got.Tickers[0] != "AAPL" {
		t.Fatalf("unexpected payload %+v", got)
	}
	m, ok := out.(map[string]any)
	if !ok || m["ticker"] != "AAPL" {
		t.Fatalf("array not unwrapped: %#v", out)
	}
}

func TestLynchRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"score":3}`))
	}))
	defer srv.Close()

	c := NewClient(time.Second, WithRetry(3, time.Millisecond))
	out, err := c.Lynch(context.Background(), srv.URL, "t", "msft")
	if err != nil {
		t.Fatalf("lynch: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if m := out.(map[string]any); m["score"] != float64(3) {
		t.Fatalf("unexpected response %#v", out)
	}
}

func TestLynchDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(time.Second, WithRetry(3, time.Millisecond))
	if _, err := c.Lynch(context.Background(), srv.URL, "t", "x"); err == nil {
		t.Fatalf("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("client errors must not be retried, got %d calls", calls)
	}
}

func TestEmptyURL(t *testing.T) {
	c := NewClient(0)
	if _, err := c.Trigger(context.Background(), "", ActionCheckMarket); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if err := c.PostJSON(context.Background(), "", nil, nil); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestLynchKeepsEmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	out, err := NewClient(time.Second).Lynch(context.Background(), srv.URL, "t", "zzzz")
	if err != nil {
		t.Fatalf("lynch: %v", err)
	}
	arr, ok := out.([]any)
	if !ok || len(arr) != 0 {
		t.Fatalf("want empty array, got %#v", out)
	}
	if data, _ := json.Marshal(out); string(data) != "[]" {
		t.Fatalf("encoded as %s", data)
	}
}
