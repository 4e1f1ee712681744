package recordfmt

import (
	"fmt"
	"strings"
)

// ValidationError occurs when a service name or secret fails sanitization.
// No mutation is performed on the store when it is returned.
type ValidationError struct {
	Reason string
}

// Error interface
func (v ValidationError) Error() string {
	return v.Reason
}

// Sanitize normalizes and validates a service name and secret before they are
// trusted in the store. Both are whitespace-trimmed; the name must be letters
// and digits only, the secret must be base32 (A-Z, 2-7, case-insensitive)
// with optional trailing '=' padding. The secret's case is preserved.
func Sanitize(name, secret string) (string, string, error) {
	name = strings.TrimSpace(name)
	secret = strings.TrimSpace(secret)

	if len(name) == 0 || len(secret) == 0 {
		return "", "", ValidationError{"service name and secret must not be empty"}
	}
	if !alnum(name) {
		return "", "", ValidationError{
			fmt.Sprintf("service name must contain only letters and digits: %q", name),
		}
	}
	if !base32Secret(strings.ToUpper(secret)) {
		return "", "", ValidationError{
			fmt.Sprintf("secret must be a base32 string: %q", secret),
		}
	}

	return name, secret, nil
}

// base32Secret reports whether s (already upper-cased) consists of base32
// symbols with '=' allowed only as trailing padding.
func base32Secret(s string) bool {
	padding := false
	for _, r := range s {
		switch {
		case r == '=':
			padding = true
		case padding:
			return false
		case r >= 'A' && r <= 'Z':
		case r >= '2' && r <= '7':
		default:
			return false
		}
	}
	return true
}
