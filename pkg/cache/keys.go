package cache

import (
	"fmt"
	"strings"
)

// Key joins prefix and parts with ":", e.g. Key("market-data", "history", 30)
// is "market-data:history:30".
func Key(prefix string, parts ...any) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range parts {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// Pattern matches every key built with Key(prefix, ...).
func Pattern(prefix string) string {
	return prefix + ":*"
}
