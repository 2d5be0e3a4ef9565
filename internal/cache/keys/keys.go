// Package keys builds cache keys for layer responses.
package keys

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Key derives a stable cache key from the layer slug and its SQL text. The
// SQL hash keeps stale entries from surviving a query definition change.
func Key(layer, sqlText string) string {
	sum := xxhash.Sum64String(sqlText)
	return fmt.Sprintf("layer:%s:q=%016x", sanitizeLayer(strings.TrimSpace(layer)), sum)
}

// LayerPrefix is the common prefix of every key for a layer, used for
// invalidation.
func LayerPrefix(layer string) string {
	return "layer:" + sanitizeLayer(strings.TrimSpace(layer)) + ":"
}

func sanitizeLayer(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		var out rune
		switch {
		case isASCIIWhitespace(r):
			out = '_'
		case isAlphaNum(r) || r == ':' || r == '_' || r == '-':
			out = r
		default:
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isASCIIWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		unicode.IsDigit(r)
}
