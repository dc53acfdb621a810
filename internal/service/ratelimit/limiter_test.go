package ratelimit

import (
	"testing"
	"time"
)

func TestAllowRefills(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if !l.Allow("market", 2, 1) {
			t.Fatalf("call %d should pass", i)
		}
	}
	if l.Allow("market", 2, 1) {
		t.Fatalf("bucket should be empty")
	}
	if !l.Allow("stocks", 2, 1) {
		t.Fatalf("keys must not share buckets")
	}

	now = now.Add(time.Second)
	if !l.Allow("market", 2, 1) {
		t.Fatalf("one token should have refilled")
	}
	if l.Allow("market", 2, 1) {
		t.Fatalf("only one token refilled")
	}
}

func TestAllowDisabled(t *testing.T) {
	l := New()
	for i := 0; i < 10; i++ {
		if !l.Allow("k", 0, 0) {
			t.Fatalf("zero capacity disables limiting")
		}
	}
}
