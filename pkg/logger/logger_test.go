package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)
	l.Info("evaluated",
		String("analysis_id", "abc"),
		Int("warnings", 3),
		Bool("changed", true),
		Duration("took_ms", 1500*time.Millisecond),
		Strings("symbols", []string{"SPY", "GLD"}),
	)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["message"] != "evaluated" || got["analysis_id"] != "abc" || got["warnings"] != float64(3) {
		t.Fatalf("unexpected event %v", got)
	}
	if got["took_ms"] != float64(1500) || got["symbols"] != "SPY, GLD" || got["changed"] != true {
		t.Fatalf("unexpected event %v", got)
	}
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf).With(String("component", "monitor"))
	l.Error("failed", Error(errors.New("boom")))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["component"] != "monitor" || got["error"] != "boom" || got["level"] != "error" {
		t.Fatalf("unexpected event %v", got)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&Config{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestNewLevelIsPerLogger(t *testing.T) {
	l, err := New(&Config{Level: "warn", Output: "stderr"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if l.zl.GetLevel().String() != "warn" {
		t.Fatalf("level = %s", l.zl.GetLevel())
	}

	var buf bytes.Buffer
	NewWriter(&buf).Debug("still written", Float64("score", 0.5), Any("tags", []string{"a"}))
	if !bytes.Contains(buf.Bytes(), []byte(`"score":0.5`)) {
		t.Fatalf("debug event dropped: %q", buf.String())
	}
}
