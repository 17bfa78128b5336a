// README: Tariff catalog, supplements and price calculation result types.
package pricing

import (
	"errors"
	"strconv"
	"strings"

	"vtc/internal/types"
)

var (
	ErrNoApplicableTariff = errors.New("no applicable tariff")
	ErrUnknownServiceType = errors.New("unknown service type")
)

type ServiceType string

const (
	ServiceOneWay    ServiceType = "one_way"
	ServiceRoundTrip ServiceType = "round_trip"
	ServiceHourly    ServiceType = "hourly"
	ServiceDaily     ServiceType = "daily"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceOneWay, ServiceRoundTrip, ServiceHourly, ServiceDaily:
		return true
	}
	return false
}

// Tariff is read-only reference data. Nil bounds are open.
type Tariff struct {
	ID            int64       `json:"id"`
	Name          string      `json:"nombre"`
	BasePrice     float64     `json:"precio_base"`
	PriceWithIVA  float64     `json:"precio_iva"`
	Category      *string     `json:"categoria"`
	ServiceType   ServiceType `json:"tipo_servicio"`
	MinDistanceKm *float64    `json:"distancia_minima"`
	MaxDistanceKm *float64    `json:"distancia_maxima"`
	MinHour       *string     `json:"hora_minima"`
	MaxHour       *string     `json:"hora_maxima"`
	MinPassengers *int        `json:"num_pasajeros_min"`
	MaxPassengers *int        `json:"num_pasajeros_max"`
	Festive       bool        `json:"es_festivo"`
	Discount      bool        `json:"es_descuento"`
	Active        bool        `json:"activo"`
}

// HourRange returns the hour components of hora_minima/hora_maxima ("HH:MM[:SS]").
// ok is false unless both bounds are present and parse.
func (t Tariff) HourRange() (min, max int, ok bool) {
	if t.MinHour == nil || t.MaxHour == nil || *t.MinHour == "" || *t.MaxHour == "" {
		return 0, 0, false
	}
	min, err := leadingHour(*t.MinHour)
	if err != nil {
		return 0, 0, false
	}
	max, err = leadingHour(*t.MaxHour)
	if err != nil {
		return 0, 0, false
	}
	return min, max, true
}

func leadingHour(s string) (int, error) {
	h, _, _ := strings.Cut(strings.TrimSpace(s), ":")
	return strconv.Atoi(h)
}

type Supplement struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Slug   string  `json:"slug"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

// BreakdownLine is one human-readable line of a quote. Amount is either a
// formatted money/distance string or a plain label (tariff name).
type BreakdownLine struct {
	Concept string `json:"concept"`
	Amount  string `json:"amount"`
}

func moneyLine(concept string, amount float64) BreakdownLine {
	return BreakdownLine{Concept: concept, Amount: types.FormatEuro(amount)}
}

// Calculation keeps full precision; only Breakdown is rounded.
type Calculation struct {
	Subtotal   float64         `json:"subtotal"`
	IVA        float64         `json:"iva"`
	Total      float64         `json:"total"`
	Deposit    float64         `json:"deposit"`
	Breakdown  []BreakdownLine `json:"priceBreakdown"`
	TariffUsed *Tariff         `json:"tariffUsed"`
}

// PriceRequest is the subset of a trip request that pricing depends on.
type PriceRequest struct {
	ServiceType ServiceType
	Passengers  int
	Date        types.Date
	Time        types.ClockTime
	Supplements []string
}

// MatchCriteria selects a tariff. DistanceKm is the pickup->destination leg.
type MatchCriteria struct {
	ServiceType ServiceType
	Passengers  int
	Hour        int
	DistanceKm  float64
	Date        types.Date
}
