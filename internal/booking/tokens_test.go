package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRTokensAreDistinctValidUUIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		tok := NewQRToken()
		_, err := uuid.Parse(tok)
		require.NoError(t, err)
		assert.False(t, seen[tok], "duplicate token %s", tok)
		seen[tok] = true
	}
}

func TestReceiptNumberFormat(t *testing.T) {
	id := "a1b2c3d4-e5f6-7890-abcd-ef0123456789"
	at := time.Date(2025, 3, 10, 14, 30, 5, 0, time.UTC)

	assert.Equal(t, "REC-20250310143005-a1b2c3d4", ReceiptNumber(id, at))
}

func TestReceiptNumberShortID(t *testing.T) {
	at := time.Date(2025, 3, 10, 14, 30, 5, 0, time.UTC)
	assert.Equal(t, "REC-20250310143005-abc", ReceiptNumber("abc", at))
}
