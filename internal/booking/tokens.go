package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewReservationID returns a random UUID used as a reservation's
// primary key and external reference.  It must never be sequential:
// reservation ids are shared in URLs and must not be guessable.
func NewReservationID() string { return uuid.NewString() }

// NewQRToken returns a random UUID used as an entry or exit QR secret.
// Tokens are capabilities: presenting one proves physical presence at
// the bicicletero, so they come from the process-wide crypto RNG and
// are never derived from timestamps or counters.
func NewQRToken() string { return uuid.NewString() }

// ReceiptNumber builds the human-readable receipt identifier for a
// payment: REC-<YYYYMMDDHHMMSS>-<first 8 hex chars of reservation id>.
// Unlike QR tokens, receipts are deliberately readable and derivable;
// they identify, they do not authenticate.
func ReceiptNumber(reservationID string, now time.Time) string {
	hex := strings.ReplaceAll(reservationID, "-", "")
	if len(hex) > 8 {
		hex = hex[:8]
	}
	return fmt.Sprintf("REC-%s-%s", now.Format("20060102150405"), hex)
}
