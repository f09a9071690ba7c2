package reservation

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// codeAlphabet omits 0/O and 1/I so codes read unambiguously over the phone.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 8
)

// NewConfirmationCode generates a random 8-character confirmation code.
// Uniqueness is enforced by the storage layer's unique constraint; callers
// retry with a fresh code on a duplicate-key error.
func NewConfirmationCode() (string, error) {
	var b strings.Builder
	b.Grow(codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeConfirmationCode canonicalizes user input for lookup.
func NormalizeConfirmationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
