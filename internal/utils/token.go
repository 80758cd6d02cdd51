package utils

import (
	"crypto/rand"
	"fmt"
)

// ConfirmationCodeLength is the fixed length of generated confirmation codes
const ConfirmationCodeLength = 12

// Crockford-style alphabet without ambiguous characters (0/O, 1/I/L)
const confirmationAlphabet = "23456789ABCDEFGHJKMNPQRSTVWXYZ"

// GenerateConfirmationCode returns a fixed-length, cryptographically random
// confirmation code. Codes are opaque public identifiers; uniqueness is
// enforced by the tickets table's unique constraint, with callers retrying
// on collision.
func GenerateConfirmationCode() (string, error) {
	// Bytes at or above the largest multiple of the alphabet size are
	// rejected so every character is equally likely
	limit := byte(256 - 256%len(confirmationAlphabet))

	code := make([]byte, 0, ConfirmationCodeLength)
	buf := make([]byte, 2*ConfirmationCodeLength)
	for len(code) < ConfirmationCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate confirmation code: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, confirmationAlphabet[int(b)%len(confirmationAlphabet)])
			if len(code) == ConfirmationCodeLength {
				break
			}
		}
	}

	return string(code), nil
}
