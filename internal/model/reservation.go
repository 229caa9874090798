package model

import "time"

// Reservation states as stored in reservas.estado.  The happy path is
// PENDIENTE -> CONFIRMADA -> FINALIZADA.  EN_CURSO is a declared state
// accepted by the finalize guard for rows written by older clients, but
// no transition in this codebase produces it.  FINALIZADA, CANCELADA
// and EXPIRADA are terminal; terminal reservations are historical
// records and are never deleted automatically.
const (
	ReservationPending   = "PENDIENTE"
	ReservationConfirmed = "CONFIRMADA"
	ReservationInUse     = "EN_CURSO"
	ReservationFinalized = "FINALIZADA"
	ReservationCancelled = "CANCELADA"
	ReservationExpired   = "EXPIRADA"
)

// ActiveReservationStates are the states in which a reservation is
// still in progress from the user's point of view.
var ActiveReservationStates = []string{ReservationPending, ReservationConfirmed, ReservationInUse}

// TerminalReservationStates are the states shown in the history view.
var TerminalReservationStates = []string{ReservationFinalized, ReservationCancelled, ReservationExpired}

// Reservation is a user's claim on a parking slot across its lifecycle.
// The primary key is a random UUID used as the external reference; the
// two QR tokens are independent random UUIDs generated at creation and
// never changed.  TotalCost stays 0 until the reservation is finalized
// and once written is never recomputed.
//
// Fields:
//  ID            – UUID primary key, external reference.
//  UserID        – user who owns the reservation.
//  StationID     – station where the slot lives.
//  SlotID        – reserved slot; nullable because the slot may be
//                  deleted while the reservation is retained.
//  State         – lifecycle state (see constants above).
//  CreatedAt     – when the reservation was made (fecha_reserva).
//  ExpiresAt     – creation + hold window (fecha_expiracion_reserva).
//  EntryAt       – check-in timestamp, set on confirm (nullable).
//  ExitAt        – check-out timestamp, set on finalize (nullable).
//  QREntry       – secret presented at check-in.
//  QRExit        – secret presented at check-out.
//  FreeHours     – usage hours not billed (metro fare benefit).
//  ExtraHourCost – tariff per extra hour, billed in half-hour units.
//  TotalCost     – final cost, written exactly once at finalize.
//  Paid          – whether the cost has been paid.
//  FareUsed      – whether a metro fare was linked (pasaje_usado).
//  Notes         – free-form notes.
type Reservation struct {
	ID            string     // reservas.id (UUID)
	UserID        uint64     // reservas.usuario_id
	StationID     uint64     // reservas.estacion_id
	SlotID        *uint64    // reservas.espacio_id (nullable)
	State         string     // reservas.estado
	CreatedAt     time.Time  // reservas.fecha_reserva
	ExpiresAt     time.Time  // reservas.fecha_expiracion_reserva
	EntryAt       *time.Time // reservas.fecha_entrada (nullable)
	ExitAt        *time.Time // reservas.fecha_salida (nullable)
	QREntry       string     // reservas.qr_entrada (UUID)
	QRExit        string     // reservas.qr_salida (UUID)
	FreeHours     int        // reservas.horas_gratis
	ExtraHourCost float64    // reservas.costo_hora_extra
	TotalCost     float64    // reservas.costo_total
	Paid          bool       // reservas.pagado
	FareUsed      bool       // reservas.pasaje_usado
	Notes         string     // reservas.notas
	UpdatedAt     time.Time  // reservas.updated_at
}

// RemainingSeconds returns how many whole seconds remain before a
// pending reservation expires.  Non-pending reservations and
// reservations past their expiry return 0.
func (r *Reservation) RemainingSeconds(now time.Time) int {
	if r.State != ReservationPending {
		return 0
	}
	if !now.Before(r.ExpiresAt) {
		return 0
	}
	return int(r.ExpiresAt.Sub(now).Seconds())
}

// HoldsSlot reports whether the reservation currently holds its slot,
// i.e. whether a cancel or expiry must release the slot back to
// DISPONIBLE.
func (r *Reservation) HoldsSlot() bool {
	switch r.State {
	case ReservationPending, ReservationConfirmed, ReservationInUse:
		return r.SlotID != nil
	}
	return false
}
