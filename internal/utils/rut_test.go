package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRUT(t *testing.T) {
	valid := []string{"12345678-9", "1234567-0", "12345678-K", "12345678-k", " 12345678-5 "}
	for _, s := range valid {
		assert.True(t, ValidRUT(s), s)
	}

	invalid := []string{"", "12345678", "123456-7", "123456789-0", "12345678-KK", "12.345.678-9", "abcdefgh-9"}
	for _, s := range invalid {
		assert.False(t, ValidRUT(s), s)
	}
}

func TestNormalizeRUT(t *testing.T) {
	assert.Equal(t, "12345678-K", NormalizeRUT(" 12345678-k "))
}

func TestHashRefreshRawStable(t *testing.T) {
	a := HashRefreshRaw("some-token")
	b := HashRefreshRaw("some-token")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // sha256 hex
	assert.NotEqual(t, a, HashRefreshRaw("other-token"))
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secreto123", 4)
	assert.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "secreto123"))
	assert.False(t, VerifyPassword(hash, "otra-clave"))
}
