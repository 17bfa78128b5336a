// README: Estimate orchestrator. Validates, resolves both ends, then asks a Quoter for distances and price.
package estimate

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"vtc/internal/logging"
	"vtc/internal/modules/pricing"
	"vtc/internal/types"
)

// Quoter prices a resolved request. RemoteQuoter delegates to the backend,
// LocalQuoter computes distances and matches the catalog itself.
type Quoter interface {
	Quote(ctx context.Context, q Quote) (Quotation, error)
}

type Service struct {
	origin      Chain
	destination Chain
	quoter      Quoter
	log         *slog.Logger
	now         func() time.Time
}

type Option func(*Service)

func WithOriginChain(c Chain) Option {
	return func(s *Service) { s.origin = c }
}

func WithDestinationChain(c Chain) Option {
	return func(s *Service) { s.destination = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = logging.OrDiscard(l) }
}

// NewService wires the default chains: origin tries the vehicle base, then the
// request coordinates, then the broad geocode of the address; destination
// skips the base and geocodes with the airport filter.
func NewService(base BaseLocator, geocoder Geocoder, quoter Quoter, opts ...Option) *Service {
	s := &Service{
		origin: Chain{
			VehicleBaseStrategy{Base: base},
			CoordinatesStrategy{},
			GeocodeStrategy{Geocoder: geocoder},
		},
		destination: Chain{
			CoordinatesStrategy{},
			GeocodeStrategy{Geocoder: geocoder, AirportFilter: true},
		},
		quoter: quoter,
		log:    logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Estimate runs one pass. An idle request returns (nil, nil). Every other
// outcome is a Result or a *Failure; stages never run out of order.
func (s *Service) Estimate(ctx context.Context, req TripRequest) (*Result, error) {
	if !req.Ready() {
		return nil, nil
	}

	q, f := validate(req)
	if f != nil {
		s.log.Info("estimate rejected", "kind", f.Kind, "reason", f.Message)
		return nil, f
	}

	origin, via, ok := s.origin.Resolve(ctx, req.Origin)
	if !ok {
		s.log.Warn("origin unresolved", "origin", req.Origin.Label())
		return nil, fail(KindResolution, MsgOriginUnresolved)
	}
	q.Origin = origin

	dest, _, ok := s.destination.Resolve(ctx, req.Destination)
	if !ok {
		s.log.Warn("destination unresolved", "destination", req.Destination.Label())
		return nil, fail(KindResolution, MsgDestUnresolved)
	}
	q.Destination = dest

	start := s.now()
	quotation, err := s.quoter.Quote(ctx, q)
	if err != nil {
		f := Classify(err)
		s.log.Error("estimate failed",
			"kind", f.Kind,
			"origin", q.Origin.Label,
			"destination", q.Destination.Label,
			"error", err,
		)
		return nil, f
	}

	s.log.Info("estimate ready",
		"origin_via", via,
		"service_type", q.ServiceType,
		"distance_km", quotation.Distances.DistancePickupToDestination,
		"total", quotation.Pricing.Total,
		"elapsed", s.now().Sub(start),
	)

	return &Result{
		Origin:         q.Origin.Label,
		Destination:    q.Destination.Label,
		OriginFromBase: q.Origin.FromBase,
		PickupDate:     q.Date.String(),
		PickupTime:     q.Time.String(),
		Distances:      quotation.Distances,
		Pricing:        quotation.Pricing,
	}, nil
}

// validate performs every local check. It never touches the network.
func validate(req TripRequest) (Quote, *Failure) {
	date, err := types.ParseDate(req.PickupDate)
	if err != nil {
		return Quote{}, fail(KindValidation, MsgInvalidDateTime)
	}
	clock, err := types.ParseClock(req.PickupTime)
	if err != nil {
		return Quote{}, fail(KindValidation, MsgInvalidDateTime)
	}
	if req.Passengers < MinPassengers || req.Passengers > MaxPassengers {
		return Quote{}, fail(KindValidation, MsgInvalidPassengers)
	}

	st := req.ServiceType
	if st == "" {
		st = pricing.ServiceOneWay
	}
	if !st.Valid() {
		return Quote{}, fail(KindValidation, MsgUnknownService)
	}

	hours := 0
	if st == pricing.ServiceHourly {
		if req.HoursNeeded <= 0 {
			return Quote{}, fail(KindValidation, MsgHoursRequired)
		}
		hours = req.HoursNeeded
	}

	supplements := []string{}
	for _, slug := range req.Supplements {
		if slug != "" && !slices.Contains(supplements, slug) {
			supplements = append(supplements, slug)
		}
	}

	return Quote{
		Date:        date,
		Time:        clock,
		Passengers:  req.Passengers,
		ServiceType: st,
		Hours:       hours,
		Supplements: supplements,
	}, nil
}
