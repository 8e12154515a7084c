package money

import (
	"strconv"
	"strings"
)

// FormatYen formats an integer yen amount as a string like "￥1,500".
// Comma as thousands separator, full-width yen sign as on the storefront.
func FormatYen(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.Itoa(amount)
	if len(s) <= 3 {
		if neg {
			return "-￥" + s
		}
		return "￥" + s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 4)
	if neg {
		b.WriteString("-￥")
	} else {
		b.WriteString("￥")
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}

	return b.String()
}
