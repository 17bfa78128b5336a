// README: Trip request, quote and estimate result types.
package estimate

import (
	"vtc/internal/maps"
	"vtc/internal/modules/pricing"
	"vtc/internal/types"
)

const (
	MinPassengers = 1
	MaxPassengers = 4
)

// TripRequest is the user's intent as collected by the client. Zero values mean
// "not set yet": an empty date or time, or zero passengers, keeps the request idle.
type TripRequest struct {
	Origin      types.Location      `json:"origin"`
	Destination types.Location      `json:"destination"`
	PickupDate  string              `json:"pickupDate"`
	PickupTime  string              `json:"pickupTime"`
	Passengers  int                 `json:"passengerCount"`
	ServiceType pricing.ServiceType `json:"serviceType"`
	// HoursNeeded is only read for hourly service.
	HoursNeeded int      `json:"hoursNeeded,omitempty"`
	Supplements []string `json:"supplements,omitempty"`
}

// Ready reports whether enough has been chosen to request an estimate.
func (r TripRequest) Ready() bool {
	return r.PickupDate != "" && r.PickupTime != "" && r.Passengers != 0
}

// Endpoint is a resolved trip end: usable coordinates plus the label sent upstream.
type Endpoint struct {
	Coordinates types.Coordinates
	Label       string
	FromBase    bool
}

func (e Endpoint) Location() types.Location {
	return types.Location{Address: e.Label, Coordinates: e.Coordinates}
}

// Quote is a fully validated and resolved request, ready for pricing.
type Quote struct {
	Origin      Endpoint
	Destination Endpoint
	Date        types.Date
	Time        types.ClockTime
	Passengers  int
	ServiceType pricing.ServiceType
	// Hours is zero unless ServiceType is hourly.
	Hours       int
	Supplements []string
}

type TariffRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Pricing struct {
	TariffUsed *TariffRef              `json:"tariffUsed,omitempty"`
	Subtotal   float64                 `json:"subtotal"`
	IVA        float64                 `json:"iva"`
	Total      float64                 `json:"total"`
	Deposit    float64                 `json:"deposit"`
	Breakdown  []pricing.BreakdownLine `json:"priceBreakdown"`
}

// Quotation is what a Quoter returns for a Quote.
type Quotation struct {
	Distances maps.TripDistances `json:"distances"`
	Pricing   Pricing            `json:"pricing"`
}

// Result is produced fresh for every estimate and never patched in place.
type Result struct {
	Origin         string             `json:"origin"`
	Destination    string             `json:"destination"`
	OriginFromBase bool               `json:"originFromBase"`
	PickupDate     string             `json:"pickupDate"`
	PickupTime     string             `json:"pickupTime"`
	Distances      maps.TripDistances `json:"distances"`
	Pricing        Pricing            `json:"pricing"`
}
