package statement

import (
	"strings"
	"unicode"
)

// DefaultReadPrefixes are the leading keywords dispatched on the read path.
var DefaultReadPrefixes = []string{"select", "show", "describe"}

// isRead reports whether sql starts, after leading whitespace and ignoring
// case, with one of prefixes. Comments and CTEs are not looked through.
func isRead(sql string, prefixes []string) bool {
	trimmed := strings.TrimLeftFunc(sql, unicode.IsSpace)
	for _, p := range prefixes {
		if len(trimmed) >= len(p) && strings.EqualFold(trimmed[:len(p)], p) {
			return true
		}
	}
	return false
}
