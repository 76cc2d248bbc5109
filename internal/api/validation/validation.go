package validation

import (
	"regexp"
	"strings"
)

var (
	// emailRegex validates email format
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// IsValidOrgName checks the canonical organization name form: 1-100
// characters, alphanumeric plus underscores, hyphens and spaces, with at
// least one alphanumeric character.
func IsValidOrgName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return false
	}

	hasAlnum := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			hasAlnum = true
		case r == '_' || r == '-' || r == ' ':
		default:
			return false
		}
	}
	return hasAlnum
}

// IsValidPassword checks the minimum admin password requirements.
func IsValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 128 {
		return false, "Password must be at most 128 characters"
	}
	return true, ""
}
