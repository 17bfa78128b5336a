// README: Coordinates and labelled locations.
package types

import (
	"math"
	"strconv"
)

type Coordinates struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// Resolved reports whether both latitude and longitude are present.
// A zero component counts as missing, the same way the backend treats it.
func (c Coordinates) Resolved() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return false
	}
	return c.Lat != 0 && c.Lng != 0
}

// String renders "lat,lng" with the shortest exact representation of each value.
func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// Location is a user-facing place: a free-text address, coordinates, or both.
type Location struct {
	Address     string      `json:"address,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

// Label returns the address when present, otherwise the "lat,lng" form.
func (l Location) Label() string {
	if l.Address != "" {
		return l.Address
	}
	return l.Coordinates.String()
}
