package model

import "time"

// Station states as stored in estaciones.estado.  A station that is
// INACTIVO is hidden from the public catalog and rejects new
// reservations, but its historical reservations remain queryable.
const (
	StationActive   = "ACTIVO"
	StationInactive = "INACTIVO"
)

// MetroLines lists the valid values of estaciones.linea.  The set
// mirrors the lines of the Santiago metro network that carry a
// bicicletero today.
var MetroLines = map[string]bool{
	"L1": true, "L2": true, "L3": true, "L4": true,
	"L4A": true, "L5": true, "L6": true, "L7": true,
}

// Station represents a metro station that hosts a bicycle parking
// facility.  The slot grid belonging to the station lives in the
// espacios_estacionamiento table; TotalSlots is fixed when the station
// is created and availability is always computed live from the slots,
// never stored.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – unique station name.
//  Line       – metro line identifier (L1..L7).
//  State      – operational state (ACTIVO, INACTIVO).
//  TotalSlots – number of parking slots in the grid, fixed at creation.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Station struct {
	ID         uint64    // estaciones.id
	Name       string    // estaciones.nombre
	Line       string    // estaciones.linea
	State      string    // estaciones.estado
	TotalSlots int       // estaciones.espacios_totales
	CreatedAt  time.Time // estaciones.created_at
	UpdatedAt  time.Time // estaciones.updated_at
}

// Active reports whether the station accepts new reservations.
func (s *Station) Active() bool { return s.State == StationActive }

// StationAvailability pairs a station with its live slot availability.
// Available is computed as TotalSlots minus the number of slots in
// OCUPADO or RESERVADO state at query time.
type StationAvailability struct {
	Station
	Available int
}
