package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const storedRun = `{
  "_id": "run-1",
  "analysis": {
    "warning_level": "MODERATE",
    "detailed_results": {
      "SPY": {"price": 500, "stoch_14": 85, "above_ema": true, "overbought": true, "warning_count": 1},
      "HYG": {"price": 75, "above_ema": false}
    }
  }
}`

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluateJSON(t *testing.T) {
	out, err := execute(t, storedRun, "evaluate", "--output", "json")
	if err != nil {
		t.Fatalf("evaluate: %v\n%s", err, out)
	}
	var res struct {
		Warnings []map[string]any `json:"warnings"`
		Counts   map[string]int   `json:"counts"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(res.Warnings) != 2 || res.Counts["high"] != 1 || res.Counts["medium"] != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Warnings[0]["severity"] != "high" {
		t.Fatalf("warnings not ranked: %+v", res.Warnings)
	}
}

func TestEvaluateTable(t *testing.T) {
	out, err := execute(t, storedRun, "evaluate")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	for _, want := range []string{"SPY", "HYG", "Total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestEvaluateBareResults(t *testing.T) {
	out, err := execute(t, `{"SPY": {"price": 400, "above_ema": true}}`, "evaluate", "-o", "json")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !strings.Contains(out, `"warnings": []`) {
		t.Fatalf("expected no warnings:\n%s", out)
	}
}

func TestEvaluateUnknownOutput(t *testing.T) {
	if _, err := execute(t, storedRun, "evaluate", "-o", "yaml"); err == nil {
		t.Fatalf("expected error for unknown output")
	}
}

func TestTriggerRejectsUnknownTarget(t *testing.T) {
	if _, err := execute(t, "", "trigger", "everything"); err == nil {
		t.Fatalf("expected error for unknown trigger target")
	}
}

func TestLynch(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"ticker":"AAPL","score":7}]`))
	}))
	defer srv.Close()
	t.Setenv("WEBHOOK_LYNCH", srv.URL)

	out, err := execute(t, "", "lynch", " aapl ")
	if err != nil {
		t.Fatalf("lynch: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"score": 7`) {
		t.Fatalf("score not printed:\n%s", out)
	}
	tickers, _ := got["tickers"].([]any)
	if len(tickers) != 1 || tickers[0] != "AAPL" {
		t.Fatalf("ticker not normalized: %+v", got)
	}
}
