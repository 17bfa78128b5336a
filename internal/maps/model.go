// README: Geocoding and routing value types shared by providers and the route service.
package maps

import (
	"math"
	"strconv"

	"vtc/internal/types"
)

const (
	// PlaceTypesBroad is the default geocoding filter.
	PlaceTypesBroad = "address,place,poi"
	// PlaceTypesPOI narrows geocoding to named landmarks (airports).
	PlaceTypesPOI = "poi"

	// MinSearchLength is the shortest query sent to autocomplete.
	MinSearchLength = 3
	// DefaultSearchLimit caps autocomplete suggestions.
	DefaultSearchLimit = 5
)

// Feature is one geocoding candidate. Center is [longitude, latitude].
type Feature struct {
	PlaceName  string     `json:"place_name"`
	Text       string     `json:"text,omitempty"`
	Center     [2]float64 `json:"center"`
	PlaceTypes []string   `json:"place_type,omitempty"`
}

func (f Feature) Coordinates() types.Coordinates {
	return types.Coordinates{Lat: f.Center[1], Lng: f.Center[0]}
}

// Route is one alternative returned by a routing provider.
type Route struct {
	DistanceMeters  float64 `json:"distance"`
	DurationSeconds float64 `json:"duration"`
}

// Distance is a road distance in km (two decimals) and a duration in whole minutes.
type Distance struct {
	DistanceKm  float64 `json:"distance"`
	DurationMin int     `json:"duration"`
}

func distanceFromRoute(r Route) Distance {
	return Distance{
		DistanceKm:  roundKm(r.DistanceMeters / 1000),
		DurationMin: int(math.Ceil(r.DurationSeconds / 60)),
	}
}

// roundKm keeps two decimals using the exact decimal expansion of km.
func roundKm(km float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(km, 'f', 2, 64), 64)
	if err != nil {
		return km
	}
	return v
}

// TripDistances is recomputed on every estimate and never set by the user.
type TripDistances struct {
	DistanceBaseToPickup        float64 `json:"distanceBaseToPickup"`
	DistancePickupToDestination float64 `json:"distancePickupToDestination"`
	TotalDistance               float64 `json:"totalDistance"`
	EstimatedDuration           int     `json:"estimatedDuration"`
}
