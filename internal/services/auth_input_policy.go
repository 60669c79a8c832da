package services

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrAuthNameRequired       = errors.New("name is required")
	ErrInvalidTimezone        = errors.New("invalid timezone")
)

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

// NormalizeTimezone returns the trimmed IANA name, or "" for an empty input.
func NormalizeTimezone(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", nil
	}
	if _, err := time.LoadLocation(name); err != nil {
		return "", ErrInvalidTimezone
	}
	return name, nil
}

// UserLocation resolves a stored timezone name, falling back when it is empty
// or no longer loadable.
func UserLocation(timezone string, fallback *time.Location) *time.Location {
	name := strings.TrimSpace(timezone)
	if name == "" {
		return fallback
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return location
}
