package services

import (
	"errors"
	"fmt"
	"unicode"
)

var ErrWeakPassword = errors.New("weak password")

const (
	minPasswordRunes = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// ValidatePasswordStrength requires 8 to 72 bytes of password mixing upper
// case, lower case and digits. Every failure wraps ErrWeakPassword.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < minPasswordRunes {
		return fmt.Errorf("%w: shorter than %d characters", ErrWeakPassword, minPasswordRunes)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: longer than %d bytes", ErrWeakPassword, maxPasswordBytes)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		hasUpper = hasUpper || unicode.IsUpper(char)
		hasLower = hasLower || unicode.IsLower(char)
		hasDigit = hasDigit || unicode.IsDigit(char)
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: needs upper case, lower case and digits", ErrWeakPassword)
	}
	return nil
}
