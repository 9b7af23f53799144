package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTP returns a fresh one-time code drawn uniformly from
// 100000-999999, so codes are always six digits with no leading zero.
// Single-use validity is enforced by the account's expiry/clearing invariant,
// not by uniqueness of the code itself.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", fmt.Errorf("otp: generate: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+otpMin), nil
}
