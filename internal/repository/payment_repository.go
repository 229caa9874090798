package repository

import (
	"context"
	"database/sql"

	"github.com/bikemetro/bikemetro/internal/model"
)

// PaymentRepo provides data access to the pagos table.  Payments are
// created inside the finalize transaction and read back by the
// read-only listing endpoints; nothing in this service settles them.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, reserva_id, monto, metodo_pago, estado,
	transaccion_id, numero_recibo, fecha_pago, created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }) (*model.Payment, error) {
	var p model.Payment
	if err := row.Scan(&p.ID, &p.ReservationID, &p.Amount, &p.Method, &p.State,
		&p.TransactionID, &p.ReceiptNumber, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateTx inserts a payment within the provided transaction and
// populates the generated ID.  The receipt number must already be set
// by the caller (see booking.ReceiptNumber).
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO pagos
		(reserva_id, monto, metodo_pago, estado, transaccion_id, numero_recibo, fecha_pago)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		p.ReservationID, p.Amount, p.Method, p.State, p.TransactionID, p.ReceiptNumber, p.PaidAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByReservationForUser returns the payment of a reservation, but
// only when the reservation belongs to the given user.  sql.ErrNoRows
// covers both "no payment" and "not your reservation".
func (r *PaymentRepo) GetByReservationForUser(ctx context.Context, reservationID string, userID uint64) (*model.Payment, error) {
	const q = `SELECT p.id, p.reserva_id, p.monto, p.metodo_pago, p.estado,
					  p.transaccion_id, p.numero_recibo, p.fecha_pago, p.created_at, p.updated_at
			   FROM pagos p
			   JOIN reservas r ON r.id = p.reserva_id
			   WHERE p.reserva_id = ? AND r.usuario_id = ?`
	return scanPayment(r.db.QueryRowContext(ctx, q, reservationID, userID))
}

// ListByUser returns all payments for reservations owned by the user,
// newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	const q = `SELECT p.id, p.reserva_id, p.monto, p.metodo_pago, p.estado,
					  p.transaccion_id, p.numero_recibo, p.fecha_pago, p.created_at, p.updated_at
			   FROM pagos p
			   JOIN reservas r ON r.id = p.reserva_id
			   WHERE r.usuario_id = ?
			   ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
