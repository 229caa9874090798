package model

import "time"

// Payment methods accepted for parking charges (pagos.metodo_pago).
const (
	PaymentMethodBip        = "TARJETA_BIP"
	PaymentMethodDebitCard  = "TARJETA_DEBITO"
	PaymentMethodCreditCard = "TARJETA_CREDITO"
	PaymentMethodCash       = "EFECTIVO"
)

// Payment states (pagos.estado).  A payment starts PENDIENTE when the
// reservation is finalized with a non-zero cost and is settled by a
// downstream payment flow that is outside this service.
const (
	PaymentPending  = "PENDIENTE"
	PaymentApproved = "APROBADO"
	PaymentRejected = "RECHAZADO"
	PaymentRefunded = "REEMBOLSADO"
)

// Payment records the charge generated by a finalized reservation.
// There is at most one payment per reservation.  The receipt number is
// intentionally human-readable and derived from the payment timestamp
// plus a prefix of the reservation id; it is an identifier, not a
// secret (unlike the QR tokens, which are always crypto-random).
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – finalized reservation being charged (one-to-one).
//  Amount        – amount charged, copied from the reservation's
//                  costo_total at creation.
//  Method        – payment method (see constants above).
//  State         – payment state (see constants above).
//  TransactionID – external processor reference, empty until settled.
//  ReceiptNumber – unique receipt, REC-<timestamp>-<id prefix>.
//  PaidAt        – when the payment record was created (fecha_pago).
type Payment struct {
	ID            uint64    // pagos.id
	ReservationID string    // pagos.reserva_id (UUID)
	Amount        float64   // pagos.monto
	Method        string    // pagos.metodo_pago
	State         string    // pagos.estado
	TransactionID string    // pagos.transaccion_id
	ReceiptNumber string    // pagos.numero_recibo
	PaidAt        time.Time // pagos.fecha_pago
	CreatedAt     time.Time // pagos.created_at
	UpdatedAt     time.Time // pagos.updated_at
}
