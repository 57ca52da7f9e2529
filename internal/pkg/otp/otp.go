package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

const Digits = 6

var upper = big.NewInt(1_000_000)

// Generate returns a zero-padded 6-digit numeric code from crypto/rand.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", Digits, n.Int64()), nil
}

// Equal compares codes in constant time.
func Equal(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
