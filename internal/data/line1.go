// Package data holds the static station catalog used by the seeder.
package data

// SeedStation describes one Línea 1 station for seeding purposes.
// HasParking marks stations with physical room for a bike rack; the
// pilot flag marks the subset launched first.
type SeedStation struct {
	Name       string
	HasParking bool
	Pilot      bool
}

// Line1 is the seeding domain: every Línea 1 station from San Pablo to
// Los Dominicos, in track order. Stations without parking room are
// listed for completeness but never seeded.
var Line1 = []SeedStation{
	{Name: "San Pablo", HasParking: true, Pilot: true},
	{Name: "Neptuno", HasParking: true},
	{Name: "Pajaritos", HasParking: true},
	{Name: "Las Rejas"},
	{Name: "Ecuador", HasParking: true},
	{Name: "San Alberto Hurtado"},
	{Name: "Universidad de Santiago", HasParking: true, Pilot: true},
	{Name: "Estación Central", HasParking: true, Pilot: true},
	{Name: "Unión Latinoamericana"},
	{Name: "República", HasParking: true},
	{Name: "Los Héroes", HasParking: true, Pilot: true},
	{Name: "La Moneda", HasParking: true},
	{Name: "Universidad de Chile", HasParking: true, Pilot: true},
	{Name: "Santa Lucía", HasParking: true, Pilot: true},
	{Name: "Universidad Católica", HasParking: true},
	{Name: "Baquedano", HasParking: true, Pilot: true},
	{Name: "Salvador", HasParking: true, Pilot: true},
	{Name: "Manuel Montt", HasParking: true},
	{Name: "Pedro de Valdivia", HasParking: true, Pilot: true},
	{Name: "Los Leones", HasParking: true},
	{Name: "Tobalaba", HasParking: true, Pilot: true},
	{Name: "El Golf"},
	{Name: "Alcántara"},
	{Name: "Escuela Militar", HasParking: true},
	{Name: "Manquehue"},
	{Name: "Hernando de Magallanes", HasParking: true},
	{Name: "Los Dominicos", HasParking: true, Pilot: true},
}
