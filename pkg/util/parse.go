// Package util holds lenient parsers for values written by external tools.
package util

import (
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order; the zone-less ones are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// unixMillisAbove separates epoch milliseconds from epoch seconds.
const unixMillisAbove = 1e11

// ParseTime accepts RFC 3339 with or without a zone, a bare date, or positive
// epoch seconds or milliseconds.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return time.Time{}, false
	}
	if n > unixMillisAbove {
		return time.UnixMilli(n), true
	}
	return time.Unix(n, 0), true
}

// ParseDecimalComma reads "12,5" and "12.5" alike.
func ParseDecimalComma(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}
