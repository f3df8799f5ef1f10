// Package charcount counts user-perceived characters.
package charcount

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Count returns the number of extended grapheme clusters in s after
// trimming leading and trailing Unicode whitespace. A base letter plus
// its combining marks counts as one character, not one per code point.
func Count(s string) int {
	return uniseg.GraphemeClusterCount(strings.TrimSpace(s))
}
