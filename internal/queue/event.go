// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue name for all reservation lifecycle events. One queue keeps the
// notification log ordered per broker delivery.
const ReservationQueueName = "reserva.eventos"

// Event types mirror the notification categories shown to users.
const (
	EventReservaCreada     = "RESERVA_CREADA"
	EventReservaConfirmada = "RESERVA_CONFIRMADA"
	EventReservaFinalizada = "RESERVA_FINALIZADA"
	EventReservaCancelada  = "RESERVA_CANCELADA"
	EventReservaExpirada   = "RESERVA_EXPIRADA"
)

// ReservationEvent is published on every reservation state change. It
// carries enough context for downstream consumers to notify the user
// without querying the primary database.
type ReservationEvent struct {
	Tipo        string  `json:"tipo"`
	ReservaID   string  `json:"reserva_id"`
	UserID      uint64  `json:"usuario_id"`
	StationID   uint64  `json:"estacion_id"`
	StationName string  `json:"estacion"`
	SlotCode    string  `json:"codigo_espacio,omitempty"`
	TotalCost   float64 `json:"costo_total,omitempty"`
	OccurredAt  string  `json:"fecha"`
}
