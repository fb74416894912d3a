// Package otp generates the short numeric codes used for email verification
// and password resets. Each call draws independently from crypto/rand; no
// state is shared between calls.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeDigits = 6

// Generate returns a 6-digit one-time verification code.
func Generate() (string, error) {
	return numeric(codeDigits)
}

// GenerateResetCode returns a 6-digit password-reset code.
func GenerateResetCode() (string, error) {
	return numeric(codeDigits)
}

func numeric(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
