package sanitizer

import (
	"strings"
	"unicode"
)

// PeruMobileDigits is the length of a Peruvian mobile number without the
// country code.
const PeruMobileDigits = 9

// NormalizePhone strips every non-digit character.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone reports whether phone has exactly PeruMobileDigits digits once
// separators are stripped.
func IsValidPhone(phone string) bool {
	return len(NormalizePhone(phone)) == PeruMobileDigits
}
