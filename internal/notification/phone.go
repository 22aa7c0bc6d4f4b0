package notification

import "strings"

// DefaultCountryCode is prefixed to national numbers.
const DefaultCountryCode = "+91"

// FormatPhone returns phone in E.164 form: separators dropped, a national
// trunk zero replaced by DefaultCountryCode.
func FormatPhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case digits == "" || digits == "+":
		return ""
	case strings.HasPrefix(digits, "+"):
		return digits
	case strings.HasPrefix(digits, "0"):
		return DefaultCountryCode + strings.TrimLeft(digits, "0")
	default:
		return DefaultCountryCode + digits
	}
}
