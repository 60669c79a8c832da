package security

import (
	"crypto/rand"
	"errors"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errAlphabetSize   = errors.New("alphabet must hold between 1 and 256 characters")
)

// RandomString returns length characters drawn uniformly from alphabet using
// crypto/rand. Bytes at or above the largest multiple of len(alphabet) are
// rejected so no character is favoured.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", errAlphabetSize
	}
	if length == 0 {
		return "", nil
	}

	size := len(alphabet)
	ceiling := 256 - 256%size
	value := make([]byte, 0, length)
	buffer := make([]byte, length+length/2+1)
	for len(value) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}
		for _, drawn := range buffer {
			if int(drawn) >= ceiling {
				continue
			}
			value = append(value, alphabet[int(drawn)%size])
			if len(value) == length {
				break
			}
		}
	}
	return string(value), nil
}
