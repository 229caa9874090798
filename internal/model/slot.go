package model

import (
	"fmt"
	"time"
)

// Slot states as stored in espacios_estacionamiento.estado.  Slots move
// between DISPONIBLE, RESERVADO and OCUPADO only through reservation
// lifecycle transitions; MANTENIMIENTO is entered and left exclusively
// through the admin maintenance endpoint and only from/to DISPONIBLE.
const (
	SlotAvailable   = "DISPONIBLE"
	SlotOccupied    = "OCUPADO"
	SlotReserved    = "RESERVADO"
	SlotMaintenance = "MANTENIMIENTO"
)

// Grid dimensions of a station bicicletero.  Every station gets the
// same fixed layout: rows 1..7 by columns A..C.
const (
	SlotMaxRow = 7
)

// SlotColumns lists the valid column letters in display order.
var SlotColumns = []string{"A", "B", "C"}

// Slot is a single physical bicycle parking space inside a station.
// Its public identity is the code formed by column letter plus row
// number (e.g. "B3"), unique within the station.  Slots are owned by
// their station and are cascade-deleted with it; reservations keep a
// nullable reference so reservation history survives slot deletion.
//
// Fields:
//  ID        – primary key identifier.
//  StationID – station to which this slot belongs.
//  Row       – row number (1-7).
//  Column    – column letter (A, B or C).
//  State     – occupancy state (see constants above).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Slot struct {
	ID        uint64    // espacios_estacionamiento.id
	StationID uint64    // espacios_estacionamiento.estacion_id
	Row       int       // espacios_estacionamiento.fila
	Column    string    // espacios_estacionamiento.columna
	State     string    // espacios_estacionamiento.estado
	CreatedAt time.Time // espacios_estacionamiento.created_at
	UpdatedAt time.Time // espacios_estacionamiento.updated_at
}

// Code returns the slot's display code, column letter followed by row
// number (A1..C7).
func (s *Slot) Code() string { return fmt.Sprintf("%s%d", s.Column, s.Row) }
