package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bikemetro/bikemetro/internal/model"
)

// ReservationRepo provides data access to the reservas table.  Each
// lifecycle transition is driven by a handler inside one transaction:
// the row is loaded FOR UPDATE, the pure state machine mutates it, and
// UpdateStateTx writes the result back together with the dependent
// slot change.  Two concurrent transitions on the same reservation
// therefore serialize on the row lock and the loser observes the
// already-updated state.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, usuario_id, estacion_id, espacio_id, estado,
	fecha_reserva, fecha_expiracion_reserva, fecha_entrada, fecha_salida,
	qr_entrada, qr_salida, horas_gratis, costo_hora_extra, costo_total,
	pagado, pasaje_usado, notas, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*model.Reservation, error) {
	var res model.Reservation
	var slotID sql.NullInt64
	var entry, exit sql.NullTime
	err := row.Scan(&res.ID, &res.UserID, &res.StationID, &slotID, &res.State,
		&res.CreatedAt, &res.ExpiresAt, &entry, &exit,
		&res.QREntry, &res.QRExit, &res.FreeHours, &res.ExtraHourCost, &res.TotalCost,
		&res.Paid, &res.FareUsed, &res.Notes, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if slotID.Valid {
		v := uint64(slotID.Int64)
		res.SlotID = &v
	}
	if entry.Valid {
		t := entry.Time
		res.EntryAt = &t
	}
	if exit.Valid {
		t := exit.Time
		res.ExitAt = &t
	}
	return &res, nil
}

func nullableSlotID(id *uint64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// CreateTx inserts a new PENDIENTE reservation within the provided
// transaction.  The caller has already generated the UUID id and the
// two QR tokens and has reserved the slot via SlotRepo.TryReserveTx in
// the same transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservas
		(id, usuario_id, estacion_id, espacio_id, estado,
		 fecha_reserva, fecha_expiracion_reserva,
		 qr_entrada, qr_salida, horas_gratis, costo_hora_extra, costo_total,
		 pagado, pasaje_usado, notas)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q,
		res.ID, res.UserID, res.StationID, nullableSlotID(res.SlotID), res.State,
		res.CreatedAt.UTC(), res.ExpiresAt.UTC(),
		res.QREntry, res.QRExit, res.FreeHours, res.ExtraHourCost, res.TotalCost,
		res.Paid, res.FareUsed, res.Notes)
	return err
}

// GetForUserTx loads a reservation owned by the given user with a row
// lock (SELECT ... FOR UPDATE) so a lifecycle transition can read,
// validate and write atomically.  sql.ErrNoRows is returned when the
// reservation does not exist or belongs to someone else.
func (r *ReservationRepo) GetForUserTx(ctx context.Context, tx *sql.Tx, id string, userID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservas
			   WHERE id = ? AND usuario_id = ? FOR UPDATE`
	return scanReservation(tx.QueryRowContext(ctx, q, id, userID))
}

// GetForUser loads a reservation owned by the user without locking,
// for read-only detail views.
func (r *ReservationRepo) GetForUser(ctx context.Context, id string, userID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservas
			   WHERE id = ? AND usuario_id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, q, id, userID))
}

// UpdateStateTx persists the mutable lifecycle fields after a
// transition: state, entry/exit timestamps, total cost and paid flag.
// Immutable fields (tokens, tariff, expiry) are never rewritten.
func (r *ReservationRepo) UpdateStateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `UPDATE reservas
			   SET estado = ?, fecha_entrada = ?, fecha_salida = ?, costo_total = ?, pagado = ?
			   WHERE id = ?`
	_, err := tx.ExecContext(ctx, q,
		res.State, nullableTime(res.EntryAt), nullableTime(res.ExitAt),
		res.TotalCost, res.Paid, res.ID)
	return err
}

// ListByUser returns the user's reservations newest first, optionally
// filtered to a set of states (nil or empty means all).
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, states []string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservas WHERE usuario_id = ?`
	args := []interface{}{userID}
	if len(states) > 0 {
		placeholders := make([]string, len(states))
		for i, s := range states {
			placeholders[i] = "?"
			args = append(args, s)
		}
		q += ` AND estado IN (` + strings.Join(placeholders, ",") + `)`
	}
	q += ` ORDER BY fecha_reserva DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// ExpiredReservation identifies one reservation expired by the sweep,
// with enough context to publish a notification event afterwards.
type ExpiredReservation struct {
	ID        string
	UserID    uint64
	StationID uint64
	SlotID    *uint64
}

// ExpireDueTx expires every PENDIENTE reservation whose hold window
// passed before now, releasing the reserved slots, all within the
// provided transaction.  The SELECT locks the due rows so concurrent
// sweeps serialize; a second run over the same instant matches zero
// rows and is a no-op, which makes the sweep idempotent.  It returns
// the reservations that were expired by this call.
func (r *ReservationRepo) ExpireDueTx(ctx context.Context, tx *sql.Tx, now time.Time) ([]ExpiredReservation, error) {
	const sel = `SELECT id, usuario_id, estacion_id, espacio_id FROM reservas
				 WHERE estado = ? AND fecha_expiracion_reserva < ? FOR UPDATE`
	rows, err := tx.QueryContext(ctx, sel, model.ReservationPending, now.UTC())
	if err != nil {
		return nil, err
	}
	var due []ExpiredReservation
	for rows.Next() {
		var e ExpiredReservation
		var slotID sql.NullInt64
		if scanErr := rows.Scan(&e.ID, &e.UserID, &e.StationID, &slotID); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		if slotID.Valid {
			v := uint64(slotID.Int64)
			e.SlotID = &v
		}
		due = append(due, e)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return []ExpiredReservation{}, nil
	}

	const upd = `UPDATE reservas SET estado = ?
				 WHERE estado = ? AND fecha_expiracion_reserva < ?`
	if _, err := tx.ExecContext(ctx, upd, model.ReservationExpired, model.ReservationPending, now.UTC()); err != nil {
		return nil, err
	}

	// Release the slots that were still held.  Only RESERVADO slots are
	// touched: an expired pending reservation can never have occupied
	// its slot.
	slotIDs := make([]interface{}, 0, len(due))
	placeholders := make([]string, 0, len(due))
	for _, e := range due {
		if e.SlotID != nil {
			slotIDs = append(slotIDs, *e.SlotID)
			placeholders = append(placeholders, "?")
		}
	}
	if len(slotIDs) > 0 {
		q := `UPDATE espacios_estacionamiento SET estado = ?
			  WHERE estado = ? AND id IN (` + strings.Join(placeholders, ",") + `)`
		args := append([]interface{}{model.SlotAvailable, model.SlotReserved}, slotIDs...)
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
	}
	return due, nil
}
