package extjson

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNumberEncodings(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"bare float", 21.5, 21.5},
		{"bare int", 3, 3},
		{"int32", int32(7), 7},
		{"int64", int64(9), 9},
		{"json number", json.Number("18.25"), 18.25},
		{"numberInt", map[string]any{"$numberInt": "3"}, 3},
		{"numberDouble", map[string]any{"$numberDouble": "21.4"}, 21.4},
		{"numberLong", map[string]any{"$numberLong": "1700000000000"}, 1700000000000},
		{"numberDecimal", map[string]any{"$numberDecimal": "12.75"}, 12.75},
		{"string map", map[string]string{"$numberDouble": "2.5"}, 2.5},
		{"numeric string", "4.5", 4.5},
		{"nil", nil, 0},
		{"garbage string", "abc", 0},
		{"garbage wrapper", map[string]any{"$numberInt": "x"}, 0},
		{"unknown map", map[string]any{"value": 3}, 0},
		{"NaN", math.NaN(), 0},
		{"Inf", math.Inf(1), 0},
		{"numberDouble NaN", map[string]any{"$numberDouble": "NaN"}, 0},
	}
	for _, tc := range cases {
		if got := Number(tc.in); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestCountClampsNegative(t *testing.T) {
	if got := Count(map[string]any{"$numberInt": "-2"}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := Count(2.9); got != 2 {
		t.Fatalf("expected truncation to 2, got %d", got)
	}
}

func TestBool(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{false, false},
		{nil, false},
		{"true", true},
		{"false", false},
		{1, true},
		{0.0, false},
		{map[string]any{"$numberInt": "1"}, true},
	}
	for i, tc := range cases {
		if got := Bool(tc.in); got != tc.want {
			t.Fatalf("case %d (%v): got %v", i, tc.in, got)
		}
	}
}

func TestDecimalKeepsPrecision(t *testing.T) {
	d := Decimal(map[string]any{"$numberDecimal": "0.1"})
	if d.String() != "0.1" {
		t.Fatalf("unexpected decimal %s", d)
	}
	if Decimal("").String() != "0" {
		t.Fatalf("empty string should decode to zero")
	}
}
