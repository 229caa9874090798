package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bikemetro/bikemetro/internal/booking"
	"github.com/bikemetro/bikemetro/internal/config"
	"github.com/bikemetro/bikemetro/internal/model"
	"github.com/bikemetro/bikemetro/internal/queue"
	"github.com/bikemetro/bikemetro/internal/repository"
	queue_publisher "github.com/bikemetro/bikemetro/internal/service"
)

// ReservationHandler orchestrates the reservation lifecycle.  Every
// transition runs inside one transaction: the reservation row is locked
// with SELECT ... FOR UPDATE, validated and mutated by the booking
// package, then the reservation and dependent slot state are written
// back together.  Events are published only after the commit.
type ReservationHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
	Slots        *repository.SlotRepo
	Stations     *repository.StationRepo
	Payments     *repository.PaymentRepo
}

func NewReservationHandler(cfg config.Config, res *repository.ReservationRepo, sl *repository.SlotRepo,
	st *repository.StationRepo, pay *repository.PaymentRepo) *ReservationHandler {
	return &ReservationHandler{Cfg: cfg, Reservations: res, Slots: sl, Stations: st, Payments: pay}
}

// ----- DTOs -----

type createReservationReq struct {
	StationID uint64 `json:"estacion_id"`
	SlotID    uint64 `json:"espacio_id"`
	FareUsed  bool   `json:"pasaje_usado"`
	Notes     string `json:"notas"`
}

type qrReq struct {
	QR string `json:"qr"`
}

type reservationResp struct {
	ID               string     `json:"id"`
	StationID        uint64     `json:"estacion_id"`
	SlotID           *uint64    `json:"espacio_id"`
	State            string     `json:"estado"`
	CreatedAt        time.Time  `json:"fecha_reserva"`
	ExpiresAt        time.Time  `json:"fecha_expiracion_reserva"`
	EntryAt          *time.Time `json:"fecha_entrada,omitempty"`
	ExitAt           *time.Time `json:"fecha_salida,omitempty"`
	QREntry          string     `json:"qr_entrada"`
	QRExit           string     `json:"qr_salida"`
	FreeHours        int        `json:"horas_gratis"`
	ExtraHourCost    float64    `json:"costo_hora_extra"`
	TotalCost        float64    `json:"costo_total"`
	Paid             bool       `json:"pagado"`
	FareUsed         bool       `json:"pasaje_usado"`
	Notes            string     `json:"notas,omitempty"`
	RemainingSeconds int        `json:"tiempo_restante"`
}

func reservationRespFrom(r *model.Reservation, now time.Time) reservationResp {
	return reservationResp{
		ID:               r.ID,
		StationID:        r.StationID,
		SlotID:           r.SlotID,
		State:            r.State,
		CreatedAt:        r.CreatedAt,
		ExpiresAt:        r.ExpiresAt,
		EntryAt:          r.EntryAt,
		ExitAt:           r.ExitAt,
		QREntry:          r.QREntry,
		QRExit:           r.QRExit,
		FreeHours:        r.FreeHours,
		ExtraHourCost:    r.ExtraHourCost,
		TotalCost:        r.TotalCost,
		Paid:             r.Paid,
		FareUsed:         r.FareUsed,
		Notes:            r.Notes,
		RemainingSeconds: r.RemainingSeconds(now),
	}
}

// Create reserves a slot and opens a PENDIENTE reservation with a
// 10-minute pickup window.  Slot exclusivity comes from the conditional
// UPDATE in TryReserveTx: of N concurrent requests for the same slot
// exactly one commits, the rest get 409.
func (h *ReservationHandler) Create(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no autorizado"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil || req.StationID == 0 || req.SlotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "estacion_id y espacio_id son requeridos"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	station, err := h.Stations.GetByID(ctx, req.StationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "estación no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	if !station.Active() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "la estación no está operativa"})
	}

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	slot, err := h.Slots.GetByStationTx(ctx, tx, req.StationID, req.SlotID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "espacio no encontrado en la estación"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	if err := h.Slots.TryReserveTx(ctx, tx, slot.ID); err != nil {
		if err == repository.ErrSlotUnavailable {
			return c.JSON(http.StatusConflict, echo.Map{"error": "el espacio ya no está disponible"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo reservar el espacio"})
	}

	now := time.Now().UTC()
	slotID := slot.ID
	res := &model.Reservation{
		ID:            booking.NewReservationID(),
		UserID:        uid,
		StationID:     station.ID,
		SlotID:        &slotID,
		State:         model.ReservationPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(h.Cfg.HoldWindow),
		QREntry:       booking.NewQRToken(),
		QRExit:        booking.NewQRToken(),
		FreeHours:     h.Cfg.FreeHours,
		ExtraHourCost: h.Cfg.ExtraHourCost,
		FareUsed:      req.FareUsed,
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo crear la reserva"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed = true

	h.publish(queue.ReservationEvent{
		Tipo:        queue.EventReservaCreada,
		ReservaID:   res.ID,
		UserID:      res.UserID,
		StationID:   station.ID,
		StationName: station.Name,
		SlotCode:    slot.Code(),
		OccurredAt:  now.Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, reservationRespFrom(res, now))
}

// Confirm checks the user in: PENDIENTE -> CONFIRMADA on a valid entry
// QR, slot RESERVADO -> OCUPADO.  An expired reservation is persisted
// as EXPIRADA (with its slot released) even though the user asked to
// confirm, so the row never stays stale.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no autorizado"})
	}
	var req qrReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.QR) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "qr requerido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUserTx(ctx, tx, c.Param("id"), uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reserva no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}

	now := time.Now().UTC()
	switch err := booking.ConfirmEntry(res, strings.TrimSpace(req.QR), now); err {
	case nil:
		// fall through to persist the confirmation
	case booking.ErrReservationExpired:
		if err := h.Reservations.UpdateStateTx(ctx, tx, res); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo actualizar la reserva"})
		}
		if res.SlotID != nil {
			if err := h.Slots.ReleaseTx(ctx, tx, *res.SlotID); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo liberar el espacio"})
			}
		}
		if err := tx.Commit(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
		}
		committed = true
		h.publish(queue.ReservationEvent{
			Tipo:       queue.EventReservaExpirada,
			ReservaID:  res.ID,
			UserID:     res.UserID,
			StationID:  res.StationID,
			OccurredAt: now.Format(time.RFC3339),
		})
		return c.JSON(http.StatusGone, echo.Map{"error": "la reserva expiró", "estado": res.State})
	case booking.ErrTokenMismatch:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "código QR inválido"})
	case booking.ErrInvalidState:
		return c.JSON(http.StatusConflict, echo.Map{"error": "la reserva no está pendiente", "estado": res.State})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operación fallida"})
	}

	if err := h.Reservations.UpdateStateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo actualizar la reserva"})
	}
	if res.SlotID != nil {
		if err := h.Slots.OccupyTx(ctx, tx, *res.SlotID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo ocupar el espacio"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed = true

	h.publish(queue.ReservationEvent{
		Tipo:       queue.EventReservaConfirmada,
		ReservaID:  res.ID,
		UserID:     res.UserID,
		StationID:  res.StationID,
		OccurredAt: now.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, reservationRespFrom(res, now))
}

// Finalize checks the user out on a valid exit QR, computes the cost
// once, releases the slot and opens a PENDIENTE payment when the stay
// went past the free hours.
func (h *ReservationHandler) Finalize(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no autorizado"})
	}
	var req qrReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.QR) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "qr requerido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUserTx(ctx, tx, c.Param("id"), uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reserva no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}

	now := time.Now().UTC()
	cost, err := booking.Finalize(res, strings.TrimSpace(req.QR), now)
	switch err {
	case nil:
	case booking.ErrTokenMismatch:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "código QR inválido"})
	case booking.ErrInvalidState:
		return c.JSON(http.StatusConflict, echo.Map{"error": "la reserva no está en curso", "estado": res.State})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operación fallida"})
	}

	// A stay within the free hours costs nothing and is marked paid.
	res.Paid = cost == 0

	if err := h.Reservations.UpdateStateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo actualizar la reserva"})
	}
	if res.SlotID != nil {
		if err := h.Slots.ReleaseTx(ctx, tx, *res.SlotID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo liberar el espacio"})
		}
	}

	var receipt string
	if cost > 0 {
		receipt = booking.ReceiptNumber(res.ID, now)
		pay := &model.Payment{
			ReservationID: res.ID,
			Amount:        cost,
			Method:        model.PaymentMethodBip,
			State:         model.PaymentPending,
			ReceiptNumber: receipt,
			PaidAt:        now,
		}
		if err := h.Payments.CreateTx(ctx, tx, pay); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo registrar el pago"})
		}
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed = true

	h.publish(queue.ReservationEvent{
		Tipo:       queue.EventReservaFinalizada,
		ReservaID:  res.ID,
		UserID:     res.UserID,
		StationID:  res.StationID,
		TotalCost:  cost,
		OccurredAt: now.Format(time.RFC3339),
	})

	out := echo.Map{
		"reserva":     reservationRespFrom(res, now),
		"costo_total": cost,
	}
	if receipt != "" {
		out["numero_recibo"] = receipt
	}
	return c.JSON(http.StatusOK, out)
}

// Cancel aborts a PENDIENTE or CONFIRMADA reservation and releases its
// slot.  Finalized, expired or already cancelled reservations are
// immutable history and yield 409.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no autorizado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUserTx(ctx, tx, c.Param("id"), uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reserva no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}

	heldSlot := res.HoldsSlot()
	if err := booking.Cancel(res); err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "la reserva no se puede cancelar", "estado": res.State})
	}

	if err := h.Reservations.UpdateStateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo actualizar la reserva"})
	}
	if heldSlot {
		if err := h.Slots.ReleaseTx(ctx, tx, *res.SlotID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo liberar el espacio"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed = true

	now := time.Now().UTC()
	h.publish(queue.ReservationEvent{
		Tipo:       queue.EventReservaCancelada,
		ReservaID:  res.ID,
		UserID:     res.UserID,
		StationID:  res.StationID,
		OccurredAt: now.Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"mensaje": "reserva cancelada", "estado": res.State})
}

// Active lists the user's in-progress reservations.  A pending row
// whose window already lapsed shows tiempo_restante 0 until the sweep
// marks it EXPIRADA.
func (h *ReservationHandler) Active(c echo.Context) error {
	return h.list(c, model.ActiveReservationStates)
}

// History lists the user's finished reservations.
func (h *ReservationHandler) History(c echo.Context) error {
	return h.list(c, model.TerminalReservationStates)
}

// List lists every reservation of the user regardless of state.
func (h *ReservationHandler) List(c echo.Context) error {
	return h.list(c, nil)
}

func (h *ReservationHandler) list(c echo.Context, states []string) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no autorizado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reservations, err := h.Reservations.ListByUser(ctx, uid, states)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	now := time.Now().UTC()
	out := make([]reservationResp, 0, len(reservations))
	for i := range reservations {
		out = append(out, reservationRespFrom(&reservations[i], now))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservas": out})
}

// Get returns one reservation owned by the user.
func (h *ReservationHandler) Get(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "no autorizado"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetForUser(ctx, c.Param("id"), uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reserva no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	return c.JSON(http.StatusOK, reservationRespFrom(res, time.Now().UTC()))
}

// publish sends a lifecycle event after the commit, best effort.  The
// publisher logs its own failures; a broken broker never fails a
// request that already committed.
func (h *ReservationHandler) publish(ev queue.ReservationEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationEvent(ctx, ev)
	}()
}
