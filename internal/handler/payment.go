package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bikemetro/bikemetro/internal/model"
	"github.com/bikemetro/bikemetro/internal/repository"
)

// PaymentHandler exposes read-only views over the pagos table.
// Settlement happens in a downstream payment flow, not here.
type PaymentHandler struct {
	Payments *repository.PaymentRepo
}

func NewPaymentHandler(p *repository.PaymentRepo) *PaymentHandler {
	return &PaymentHandler{Payments: p}
}

type paymentResp struct {
	ID            uint64    `json:"id"`
	ReservationID string    `json:"reserva_id"`
	Amount        float64   `json:"monto"`
	Method        string    `json:"metodo_pago"`
	State         string    `json:"estado"`
	TransactionID string    `json:"transaccion_id,omitempty"`
	ReceiptNumber string    `json:"numero_recibo"`
	PaidAt        time.Time `json:"fecha_pago"`
}

func paymentRespFrom(p *model.Payment) paymentResp {
	return paymentResp{
		ID:            p.ID,
		ReservationID: p.ReservationID,
		Amount:        p.Amount,
		Method:        p.Method,
		State:         p.State,
		TransactionID: p.TransactionID,
		ReceiptNumber: p.ReceiptNumber,
		PaidAt:        p.PaidAt,
	}
}

// List returns the user's payments, newest first.
func (h *PaymentHandler) List(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no autorizado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	payments, err := h.Payments.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	out := make([]paymentResp, 0, len(payments))
	for i := range payments {
		out = append(out, paymentRespFrom(&payments[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"pagos": out})
}

// GetByReservation returns the payment attached to one of the user's
// reservations.
func (h *PaymentHandler) GetByReservation(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no autorizado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Payments.GetByReservationForUser(ctx, c.Param("id"), uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pago no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	return c.JSON(http.StatusOK, paymentRespFrom(p))
}
