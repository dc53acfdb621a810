// Package extjson decodes values that were written by MongoDB tooling in
// relaxed or canonical extended JSON. A numeric field may arrive as a bare
// number or wrapped as {"$numberInt": "3"}, {"$numberDouble": "21.4"},
// {"$numberLong": "..."} or {"$numberDecimal": "..."}.
package extjson

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Wrapper keys recognised on numeric values.
const (
	KeyInt     = "$numberInt"
	KeyDouble  = "$numberDouble"
	KeyLong    = "$numberLong"
	KeyDecimal = "$numberDecimal"
)

var wrapperKeys = []string{KeyInt, KeyDouble, KeyLong, KeyDecimal}

// Number returns v as a float64. Missing, malformed or non-finite values yield 0.
func Number(v any) float64 {
	f, ok := Lookup(v)
	if !ok {
		return 0
	}
	return f
}

// Lookup is Number with a presence flag.
func Lookup(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		p, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = p
	case map[string]any:
		return unwrap(n)
	case map[string]string:
		m := make(map[string]any, len(n))
		for k, s := range n {
			m[k] = s
		}
		return unwrap(m)
	case fmt.Stringer:
		// bson Decimal128 and similar driver types
		return Lookup(n.String())
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func unwrap(m map[string]any) (float64, bool) {
	for _, k := range wrapperKeys {
		if raw, ok := m[k]; ok {
			return Lookup(raw)
		}
	}
	return 0, false
}

// Int truncates the decoded number toward zero.
func Int(v any) int {
	return int(Number(v))
}

// Count decodes a non-negative integer count. Negative values clamp to 0.
func Count(v any) int {
	n := Int(v)
	if n < 0 {
		return 0
	}
	return n
}

// Bool reports the truthiness of v. Missing values are false.
func Bool(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		p, err := strconv.ParseBool(strings.TrimSpace(b))
		if err == nil {
			return p
		}
		return Number(b) != 0
	default:
		return Number(v) != 0
	}
}

// Decimal decodes v as an exact decimal, used for money arithmetic.
func Decimal(v any) decimal.Decimal {
	if m, ok := v.(map[string]any); ok {
		if raw, ok := m[KeyDecimal]; ok {
			if s, ok := raw.(string); ok {
				if d, err := decimal.NewFromString(s); err == nil {
					return d
				}
			}
		}
	}
	if s, ok := v.(string); ok {
		if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil {
			return d
		}
	}
	return decimal.NewFromFloat(Number(v))
}

// String returns v when it is a string, otherwise its default formatting.
// nil becomes "".
func String(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
