package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	ref := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-10-10T10:10:10Z", ref},
		{"2024-10-10T12:10:10+02:00", ref},
		{"2025-01-15T14:30:00.123Z", time.Date(2025, 1, 15, 14, 30, 0, 123000000, time.UTC)},
		{"2025-06-01T09:30:00.250000", time.Date(2025, 6, 1, 9, 30, 0, 250000000, time.UTC)},
		{"2025-06-01 09:30:00", time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)},
		{"2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{strconv.FormatInt(ref.Unix(), 10), ref},
		{strconv.FormatInt(ref.UnixMilli(), 10), ref},
	}
	for _, tc := range cases {
		got, ok := ParseTime(tc.in)
		if !ok || !got.Equal(tc.want) {
			t.Fatalf("%q: got %v ok=%v, want %v", tc.in, got, ok, tc.want)
		}
	}

	for _, bad := range []string{"", "  ", "yesterday", "-5", "0"} {
		if _, ok := ParseTime(bad); ok {
			t.Fatalf("%q should not parse", bad)
		}
	}
}

func TestParseDecimalComma(t *testing.T) {
	cases := map[string]float64{"12,5": 12.5, "7.25": 7.25, " 3 ": 3}
	for in, want := range cases {
		got, ok := ParseDecimalComma(in)
		if !ok || got != want {
			t.Fatalf("%q: got %v ok=%v", in, got, ok)
		}
	}
	if _, ok := ParseDecimalComma("n/a"); ok {
		t.Fatalf("expected failure for n/a")
	}
}
