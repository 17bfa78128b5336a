// README: Display helpers for rendering an estimate.
package estimate

import (
	"fmt"

	"vtc/internal/modules/pricing"
	"vtc/internal/types"
)

const (
	Placeholder       = "—"
	BaseOriginLabel   = "Vehicle base"
	CurrentPlaceLabel = "Your location"
)

// FormatDuration renders minutes as "N min" below an hour and "H:MM H" above.
// Negative input is clamped to zero.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%d min", m)
	}
	return fmt.Sprintf("%d:%02d H", h, m)
}

// OriginDisplayLabel is what the user sees as the trip start.
func OriginDisplayLabel(baseKnown bool, origin types.Location) string {
	if baseKnown {
		return BaseOriginLabel
	}
	if origin.Address != "" {
		return origin.Address
	}
	return CurrentPlaceLabel
}

type Display struct {
	Origin      string                  `json:"origin"`
	Destination string                  `json:"destination"`
	Distance    string                  `json:"distance"`
	Duration    string                  `json:"duration"`
	Breakdown   []pricing.BreakdownLine `json:"breakdown"`
	Total       string                  `json:"total"`
}

// Display renders r. Missing distance, duration or total show the placeholder.
func (r *Result) Display() Display {
	d := Display{
		Origin:      r.Origin,
		Destination: r.Destination,
		Distance:    Placeholder,
		Duration:    Placeholder,
		Breakdown:   r.Pricing.Breakdown,
		Total:       Placeholder,
	}
	if r.OriginFromBase {
		d.Origin = BaseOriginLabel
	}

	km := r.Distances.DistancePickupToDestination
	if km <= 0 {
		km = r.Distances.TotalDistance
	}
	if km > 0 {
		d.Distance = types.FormatKm(km)
	}
	if r.Distances.EstimatedDuration > 0 {
		d.Duration = FormatDuration(r.Distances.EstimatedDuration)
	}
	if r.Pricing.Total > 0 {
		d.Total = types.FormatEuro(r.Pricing.Total)
	}
	if d.Breakdown == nil {
		d.Breakdown = []pricing.BreakdownLine{}
	}
	return d
}
