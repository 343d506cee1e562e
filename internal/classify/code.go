package classify

import (
	"fmt"
	"strings"

	"github.com/vietddude/faultline/internal/core/domain"
)

// ErrorCode derives a deterministic short identifier from a category and
// message: a 32-bit rolling hash over the message (h = h*31 + rune,
// wrapping at 32 bits), absolute value, rendered as hex, truncated to 8
// digits, prefixed with the category name. Identical (category, message)
// pairs always share a code; collisions are acceptable.
func ErrorCode(category domain.Category, message string) string {
	var h int32
	for _, r := range message {
		h = h*31 + int32(r)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}

	hex := fmt.Sprintf("%x", v)
	if len(hex) > 8 {
		hex = hex[:8]
	}

	return strings.ToUpper(string(category)) + "_" + hex
}
