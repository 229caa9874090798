package repository

import (
	"context"
	"database/sql"

	"github.com/bikemetro/bikemetro/internal/model"
)

// StationRepo provides data access to the estaciones table.  Station
// availability is always derived live from the slot table; nothing in
// this repository caches or stores a free-slot counter, which keeps
// the catalog immune to counter drift.
type StationRepo struct {
	db *sql.DB
}

// NewStationRepo returns a new StationRepo bound to the given database.
func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *StationRepo) DB() *sql.DB { return r.db }

const stationColumns = `id, nombre, linea, estado, espacios_totales, created_at, updated_at`

func scanStation(row interface{ Scan(...interface{}) error }) (*model.Station, error) {
	var s model.Station
	if err := row.Scan(&s.ID, &s.Name, &s.Line, &s.State, &s.TotalSlots, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateTx inserts a new station within the provided transaction and
// populates the generated ID.  The caller creates the slot grid in the
// same transaction so a station never exists without its slots.
func (r *StationRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Station) error {
	const q = `INSERT INTO estaciones (nombre, linea, estado, espacios_totales) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.Name, s.Line, s.State, s.TotalSlots)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID returns a single station or sql.ErrNoRows.
func (r *StationRepo) GetByID(ctx context.Context, id uint64) (*model.Station, error) {
	const q = `SELECT ` + stationColumns + ` FROM estaciones WHERE id = ?`
	return scanStation(r.db.QueryRowContext(ctx, q, id))
}

// GetByName returns a station by its unique name or sql.ErrNoRows.
// Used by the seeder to make station creation idempotent.
func (r *StationRepo) GetByName(ctx context.Context, name string) (*model.Station, error) {
	const q = `SELECT ` + stationColumns + ` FROM estaciones WHERE nombre = ?`
	return scanStation(r.db.QueryRowContext(ctx, q, name))
}

// availabilityQuery joins each station against its slots and counts the
// busy ones (OCUPADO or RESERVADO) so availability is computed at read
// time: available = espacios_totales - busy.
const availabilityQuery = `
	SELECT e.id, e.nombre, e.linea, e.estado, e.espacios_totales, e.created_at, e.updated_at,
		   e.espacios_totales - COALESCE(SUM(CASE WHEN s.estado IN (?, ?) THEN 1 ELSE 0 END), 0)
	FROM estaciones e
	LEFT JOIN espacios_estacionamiento s ON s.estacion_id = e.id`

// ListActiveWithAvailability returns every ACTIVO station annotated
// with its live availability, ordered by line then name.
func (r *StationRepo) ListActiveWithAvailability(ctx context.Context) ([]model.StationAvailability, error) {
	q := availabilityQuery + `
		WHERE e.estado = ?
		GROUP BY e.id
		ORDER BY e.linea, e.nombre`
	rows, err := r.db.QueryContext(ctx, q, model.SlotOccupied, model.SlotReserved, model.StationActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.StationAvailability, 0)
	for rows.Next() {
		var sa model.StationAvailability
		if err := rows.Scan(&sa.ID, &sa.Name, &sa.Line, &sa.State, &sa.TotalSlots,
			&sa.CreatedAt, &sa.UpdatedAt, &sa.Available); err != nil {
			return nil, err
		}
		out = append(out, sa)
	}
	return out, rows.Err()
}

// GetAvailability returns one station with its live availability, or
// sql.ErrNoRows when the station does not exist.
func (r *StationRepo) GetAvailability(ctx context.Context, stationID uint64) (*model.StationAvailability, error) {
	q := availabilityQuery + `
		WHERE e.id = ?
		GROUP BY e.id`
	var sa model.StationAvailability
	err := r.db.QueryRowContext(ctx, q, model.SlotOccupied, model.SlotReserved, stationID).Scan(
		&sa.ID, &sa.Name, &sa.Line, &sa.State, &sa.TotalSlots,
		&sa.CreatedAt, &sa.UpdatedAt, &sa.Available)
	if err != nil {
		return nil, err
	}
	return &sa, nil
}

// SetState updates a station's operational state (ACTIVO/INACTIVO).
func (r *StationRepo) SetState(ctx context.Context, stationID uint64, state string) error {
	const q = `UPDATE estaciones SET estado = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, state, stationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ClearTx deletes all slots and stations.  Reservations reference
// stations with cascading deletes on the station side only; this is
// strictly a seeding helper and must never run in production.
func (r *StationRepo) ClearTx(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM espacios_estacionamiento`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM estaciones`)
	return err
}
