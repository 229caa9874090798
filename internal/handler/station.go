package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bikemetro/bikemetro/internal/model"
	"github.com/bikemetro/bikemetro/internal/repository"
)

// StationHandler serves the station catalog: where can I park right
// now, and what does the rack grid look like.
type StationHandler struct {
	Stations *repository.StationRepo
	Slots    *repository.SlotRepo
}

func NewStationHandler(st *repository.StationRepo, sl *repository.SlotRepo) *StationHandler {
	return &StationHandler{Stations: st, Slots: sl}
}

// ----- DTOs -----

type stationResp struct {
	ID         uint64 `json:"id"`
	Name       string `json:"nombre"`
	Line       string `json:"linea"`
	State      string `json:"estado"`
	TotalSlots int    `json:"espacios_totales"`
	Available  int    `json:"espacios_disponibles"`
}

type slotResp struct {
	ID     uint64 `json:"id"`
	Code   string `json:"codigo"`
	Row    int    `json:"fila"`
	Column string `json:"columna"`
	State  string `json:"estado"`
}

func stationRespFrom(sa model.StationAvailability) stationResp {
	return stationResp{
		ID:         sa.ID,
		Name:       sa.Name,
		Line:       sa.Line,
		State:      sa.State,
		TotalSlots: sa.TotalSlots,
		Available:  sa.Available,
	}
}

// List returns every active station with live availability.
func (h *StationHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stations, err := h.Stations.ListActiveWithAvailability(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	out := make([]stationResp, 0, len(stations))
	for _, sa := range stations {
		out = append(out, stationRespFrom(sa))
	}
	return c.JSON(http.StatusOK, echo.Map{"estaciones": out})
}

// Available returns only the active stations that still have at least
// one free slot. This is the list a commuter picks from.
func (h *StationHandler) Available(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stations, err := h.Stations.ListActiveWithAvailability(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	out := make([]stationResp, 0, len(stations))
	for _, sa := range stations {
		if sa.Available > 0 {
			out = append(out, stationRespFrom(sa))
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"estaciones": out})
}

// Nearby returns stations ordered for the "near me" view. Distance
// ranking needs coordinates the catalog does not store yet, so for now
// this is the active list with availability; clients already consume
// the final response shape.
func (h *StationHandler) Nearby(c echo.Context) error {
	return h.List(c)
}

// Get returns one station with availability plus its full slot grid.
func (h *StationHandler) Get(c echo.Context) error {
	stationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sa, err := h.Stations.GetAvailability(ctx, stationID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "estación no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}

	slots, err := h.Slots.ListByStation(ctx, stationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	grid := make([]slotResp, 0, len(slots))
	for _, s := range slots {
		grid = append(grid, slotResp{ID: s.ID, Code: s.Code(), Row: s.Row, Column: s.Column, State: s.State})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"estacion": stationRespFrom(*sa),
		"espacios": grid,
	})
}

// ListSlots returns just the slot grid of one station.
func (h *StationHandler) ListSlots(c echo.Context) error {
	stationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Stations.GetByID(ctx, stationID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "estación no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}

	slots, err := h.Slots.ListByStation(ctx, stationID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "consulta fallida"})
	}
	grid := make([]slotResp, 0, len(slots))
	for _, s := range slots {
		grid = append(grid, slotResp{ID: s.ID, Code: s.Code(), Row: s.Row, Column: s.Column, State: s.State})
	}
	return c.JSON(http.StatusOK, echo.Map{"espacios": grid})
}

// ----- Admin operations -----

type createStationReq struct {
	Name string `json:"nombre"`
	Line string `json:"linea"`
}

// Create adds a station with its full slot grid in one transaction, so
// a station is never visible without slots.
func (h *StationHandler) Create(c echo.Context) error {
	var req createStationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nombre requerido"})
	}
	if _, ok := model.MetroLines[req.Line]; !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "línea desconocida"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Stations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	st := &model.Station{
		Name:       req.Name,
		Line:       req.Line,
		State:      model.StationActive,
		TotalSlots: model.SlotMaxRow * len(model.SlotColumns),
	}
	if err := h.Stations.CreateTx(ctx, tx, st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo crear la estación"})
	}
	created, err := h.Slots.CreateGridTx(ctx, tx, st.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo crear la grilla"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transacción fallida"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":               st.ID,
		"nombre":           st.Name,
		"linea":            st.Line,
		"estado":           st.State,
		"espacios_creados": created,
	})
}

type stationStateReq struct {
	State string `json:"estado"` // ACTIVO | INACTIVO
}

// SetState activates or deactivates a station. Deactivation hides it
// from the catalog and blocks new reservations; existing reservations
// run to completion.
func (h *StationHandler) SetState(c echo.Context) error {
	stationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var req stationStateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}
	if req.State != model.StationActive && req.State != model.StationInactive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado debe ser ACTIVO o INACTIVO"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Stations.SetState(ctx, stationID, req.State); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "estación no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo actualizar"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "estación actualizada", "estado": req.State})
}

type maintenanceReq struct {
	Enabled bool `json:"mantenimiento"`
}

// SetMaintenance moves a single slot into or out of maintenance. A
// busy slot is rejected so maintenance can never steal a slot from an
// active reservation.
func (h *StationHandler) SetMaintenance(c echo.Context) error {
	slotID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var req maintenanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cuerpo inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Slots.SetMaintenance(ctx, slotID, req.Enabled); err != nil {
		if err == repository.ErrInvalidTransition {
			return c.JSON(http.StatusConflict, echo.Map{"error": "el espacio está en uso o ya está en ese estado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "no se pudo actualizar"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "espacio actualizado"})
}
