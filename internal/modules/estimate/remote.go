// README: Quoter that delegates distances and pricing to the backend estimate endpoint.
package estimate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vtc/internal/maps"
	"vtc/internal/modules/pricing"
)

type apiPoster interface {
	Post(ctx context.Context, path string, body, out any) error
}

type RemoteQuoter struct {
	client apiPoster
}

func NewRemoteQuoter(client apiPoster) *RemoteQuoter {
	return &RemoteQuoter{client: client}
}

// estimatePayload is the wire body of POST /trips/estimate.
type estimatePayload struct {
	Origin             string   `json:"origin"`
	Destination        string   `json:"destination"`
	PickupDate         string   `json:"pickup_date"`
	PickupTime         string   `json:"pickup_time"`
	NumberOfPassengers int      `json:"number_of_passengers"`
	ServiceType        string   `json:"service_type"`
	NumberOfHours      *int     `json:"number_of_hours,omitempty"`
	Supplements        []string `json:"supplements"`
}

func newEstimatePayload(q Quote) estimatePayload {
	p := estimatePayload{
		Origin:             q.Origin.Label,
		Destination:        q.Destination.Label,
		PickupDate:         q.Date.String(),
		PickupTime:         q.Time.String(),
		NumberOfPassengers: q.Passengers,
		ServiceType:        string(q.ServiceType),
		Supplements:        q.Supplements,
	}
	if p.Supplements == nil {
		p.Supplements = []string{}
	}
	if q.ServiceType == pricing.ServiceHourly {
		hours := q.Hours
		p.NumberOfHours = &hours
	}
	return p
}

type estimateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Distances remoteDistances `json:"distances"`
		Pricing   remotePricing   `json:"pricing"`
	} `json:"data"`
}

type remoteDistances struct {
	BaseToPickup        flexFloat `json:"distanceBaseToPickup"`
	PickupToDestination flexFloat `json:"distancePickupToDestination"`
	Total               flexFloat `json:"totalDistance"`
	Duration            flexFloat `json:"estimatedDuration"`
}

type remotePricing struct {
	TariffUsed *struct {
		ID     flexFloat `json:"id"`
		Name   string    `json:"name"`
		Nombre string    `json:"nombre"`
	} `json:"tariffUsed"`
	Subtotal  flexFloat `json:"subtotal"`
	IVA       flexFloat `json:"iva"`
	Total     flexFloat `json:"total"`
	Deposit   flexFloat `json:"deposit"`
	Breakdown []struct {
		Concept string     `json:"concept"`
		Amount  flexString `json:"amount"`
	} `json:"priceBreakdown"`
}

func (q *RemoteQuoter) Quote(ctx context.Context, quote Quote) (Quotation, error) {
	var resp estimateResponse
	if err := q.client.Post(ctx, "/trips/estimate", newEstimatePayload(quote), &resp); err != nil {
		return Quotation{}, err
	}
	if !resp.Success {
		msg := MsgEstimateFailed
		if m := strings.TrimSpace(resp.Message); m != "" {
			msg = m
		}
		return Quotation{}, &Failure{Kind: KindRemote, Message: msg, Err: errors.New("estimate response without success")}
	}
	return resp.quotation(), nil
}

func (r estimateResponse) quotation() Quotation {
	d := r.Data.Distances
	p := r.Data.Pricing

	out := Quotation{
		Distances: maps.TripDistances{
			DistanceBaseToPickup:        float64(d.BaseToPickup),
			DistancePickupToDestination: float64(d.PickupToDestination),
			TotalDistance:               float64(d.Total),
			EstimatedDuration:           int(math.Ceil(float64(d.Duration))),
		},
		Pricing: Pricing{
			Subtotal:  float64(p.Subtotal),
			IVA:       float64(p.IVA),
			Total:     float64(p.Total),
			Deposit:   float64(p.Deposit),
			Breakdown: make([]pricing.BreakdownLine, 0, len(p.Breakdown)),
		},
	}
	if p.TariffUsed != nil {
		name := p.TariffUsed.Name
		if name == "" {
			name = p.TariffUsed.Nombre
		}
		out.Pricing.TariffUsed = &TariffRef{ID: int64(p.TariffUsed.ID), Name: name}
	}
	for _, l := range p.Breakdown {
		out.Pricing.Breakdown = append(out.Pricing.Breakdown, pricing.BreakdownLine{Concept: l.Concept, Amount: string(l.Amount)})
	}
	return out
}

// flexFloat accepts a JSON number, a numeric string or null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("number %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexString accepts a JSON string or number and keeps its text.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}
