package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{password: "Short1"},
		{password: "alllowercase1"},
		{password: "ALLUPPERCASE1"},
		{password: "NoDigitsHere"},
		{password: "Aa1" + strings.Repeat("x", 70)},
		{password: "StrongPass1", valid: true},
		{password: "Äpfelbaum7", valid: true},
	}

	for _, tc := range tests {
		err := ValidatePasswordStrength(tc.password)
		if tc.valid {
			assert.NoError(t, err, tc.password)
			continue
		}
		assert.ErrorIs(t, err, ErrWeakPassword, tc.password)
	}
}
