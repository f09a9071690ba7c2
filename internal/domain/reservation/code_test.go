package reservation_test

import (
	"strings"
	"testing"

	"tablebook/internal/domain/reservation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmationCode(t *testing.T) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := reservation.NewConfirmationCode()
		require.NoError(t, err)
		require.Len(t, code, 8)

		for _, c := range code {
			assert.True(t, strings.ContainsRune(alphabet, c), "unexpected character %q in %s", c, code)
		}
		seen[code] = true
	}

	// 200 draws from a 32^8 space colliding would point at a broken generator.
	assert.Len(t, seen, 200)
}

func TestNormalizeConfirmationCode(t *testing.T) {
	assert.Equal(t, "ABCD2345", reservation.NormalizeConfirmationCode("  abcd2345 "))
	assert.Equal(t, "XYZ", reservation.NormalizeConfirmationCode("xyz"))
}
