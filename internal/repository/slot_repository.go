package repository

import (
	"context"
	"database/sql"

	"github.com/bikemetro/bikemetro/internal/model"
)

// SlotRepo provides data access to the espacios_estacionamiento table.
// Every state change is a single conditional UPDATE scoped to one row:
// the WHERE clause names the states the change is allowed from and
// RowsAffected tells whether the transition happened.  That makes each
// flip atomic with respect to concurrent competing requests without
// holding a lock for longer than the check-and-set itself.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the provided database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span slot and reservation writes.
func (r *SlotRepo) DB() *sql.DB { return r.db }

const slotColumns = `id, estacion_id, fila, columna, estado, created_at, updated_at`

func scanSlot(row interface{ Scan(...interface{}) error }) (*model.Slot, error) {
	var s model.Slot
	if err := row.Scan(&s.ID, &s.StationID, &s.Row, &s.Column, &s.State, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByStationTx loads a slot within a transaction and verifies that it
// belongs to the given station.  sql.ErrNoRows is returned when the
// slot does not exist or lives in a different station.
func (r *SlotRepo) GetByStationTx(ctx context.Context, tx *sql.Tx, stationID, slotID uint64) (*model.Slot, error) {
	const q = `SELECT ` + slotColumns + ` FROM espacios_estacionamiento WHERE id = ? AND estacion_id = ?`
	return scanSlot(tx.QueryRowContext(ctx, q, slotID, stationID))
}

// TryReserveTx atomically flips a slot DISPONIBLE -> RESERVADO inside
// the given transaction.  The conditional UPDATE is the exclusivity
// guarantee: of N concurrent attempts against the same available slot
// exactly one sees RowsAffected == 1; the rest get ErrSlotUnavailable.
func (r *SlotRepo) TryReserveTx(ctx context.Context, tx *sql.Tx, slotID uint64) error {
	const q = `UPDATE espacios_estacionamiento SET estado = ? WHERE id = ? AND estado = ?`
	res, err := tx.ExecContext(ctx, q, model.SlotReserved, slotID, model.SlotAvailable)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

// OccupyTx flips a slot RESERVADO -> OCUPADO when the user checks in.
// It fails with ErrInvalidTransition when the slot is not RESERVADO.
func (r *SlotRepo) OccupyTx(ctx context.Context, tx *sql.Tx, slotID uint64) error {
	const q = `UPDATE espacios_estacionamiento SET estado = ? WHERE id = ? AND estado = ?`
	res, err := tx.ExecContext(ctx, q, model.SlotOccupied, slotID, model.SlotReserved)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// ReleaseTx returns a slot to DISPONIBLE from RESERVADO or OCUPADO.  It
// is called on finalize, cancel and expiry.  Releasing a slot that is
// already free (or in maintenance) affects zero rows and is not an
// error, so repeated releases stay idempotent.
func (r *SlotRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, slotID uint64) error {
	const q = `UPDATE espacios_estacionamiento SET estado = ? WHERE id = ? AND estado IN (?, ?)`
	_, err := tx.ExecContext(ctx, q, model.SlotAvailable, slotID, model.SlotReserved, model.SlotOccupied)
	return err
}

// ListByStation returns all slots of a station ordered by row then
// column, matching the physical grid layout shown to users.
func (r *SlotRepo) ListByStation(ctx context.Context, stationID uint64) ([]model.Slot, error) {
	const q = `SELECT ` + slotColumns + ` FROM espacios_estacionamiento
			   WHERE estacion_id = ? ORDER BY fila, columna`
	rows, err := r.db.QueryContext(ctx, q, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

// SetMaintenance moves a slot into or out of MANTENIMIENTO.  Only a
// DISPONIBLE slot can enter maintenance and only a MANTENIMIENTO slot
// can leave it; a busy slot yields ErrInvalidTransition so an admin
// can never yank a slot out from under an active reservation.
func (r *SlotRepo) SetMaintenance(ctx context.Context, slotID uint64, enabled bool) error {
	from, to := model.SlotAvailable, model.SlotMaintenance
	if !enabled {
		from, to = model.SlotMaintenance, model.SlotAvailable
	}
	const q = `UPDATE espacios_estacionamiento SET estado = ? WHERE id = ? AND estado = ?`
	res, err := r.db.ExecContext(ctx, q, to, slotID, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// CreateGridTx inserts the fixed 7x3 slot grid for a freshly created
// station in one statement, all slots DISPONIBLE.  It returns the
// number of slots created.
func (r *SlotRepo) CreateGridTx(ctx context.Context, tx *sql.Tx, stationID uint64) (int, error) {
	query := `INSERT INTO espacios_estacionamiento (estacion_id, fila, columna, estado) VALUES `
	args := make([]interface{}, 0, model.SlotMaxRow*len(model.SlotColumns)*4)
	first := true
	for fila := 1; fila <= model.SlotMaxRow; fila++ {
		for _, col := range model.SlotColumns {
			if !first {
				query += ","
			}
			first = false
			query += "(?, ?, ?, ?)"
			args = append(args, stationID, fila, col, model.SlotAvailable)
		}
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, err
	}
	return model.SlotMaxRow * len(model.SlotColumns), nil
}
