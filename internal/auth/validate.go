package auth

import (
	"regexp"
	"strings"
)

// cinPattern: one or two leading letters followed by at least six digits,
// case-insensitive.
var cinPattern = regexp.MustCompile(`^[A-Za-z]{1,2}[0-9]{6,}$`)

// IsCINValid reports whether the identifier matches the national ID format.
func IsCINValid(cin string) bool {
	return cinPattern.MatchString(strings.TrimSpace(cin))
}

// IsPasswordValid enforces the password strength rules: at least 8
// characters, containing at least one letter and one digit.
func IsPasswordValid(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// NormalizeCIN canonicalizes an identifier for storage and lookups.
func NormalizeCIN(cin string) string {
	return strings.ToUpper(strings.TrimSpace(cin))
}
