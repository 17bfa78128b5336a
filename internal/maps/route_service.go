// README: Road distance resolver; composes base->pickup and pickup->destination legs.
package maps

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"vtc/internal/logging"
	"vtc/internal/types"
)

// Router is a routing provider (backend proxy or Google Directions).
type Router interface {
	Routes(ctx context.Context, from, to types.Coordinates) ([]Route, error)
}

// BaseSource yields the vehicle base, fail-soft. *Resolver is one.
type BaseSource interface {
	VehicleBase(ctx context.Context) (types.Coordinates, bool)
}

type RouteService struct {
	router   Router
	resolver *Resolver
	base     BaseSource
	log      *slog.Logger
}

type RouteOption func(*RouteService)

// WithBaseSource replaces the resolver as the source of the vehicle base,
// typically with a cached locator.
func WithBaseSource(b BaseSource) RouteOption {
	return func(s *RouteService) {
		if b != nil {
			s.base = b
		}
	}
}

func NewRouteService(router Router, resolver *Resolver, log *slog.Logger, opts ...RouteOption) *RouteService {
	s := &RouteService{router: router, resolver: resolver, base: resolver, log: logging.OrDiscard(log)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RouteDistance returns the real road distance of the first route between two resolved points.
func (s *RouteService) RouteDistance(ctx context.Context, from, to types.Coordinates) (Distance, bool) {
	if !from.Resolved() || !to.Resolved() {
		return Distance{}, false
	}
	routes, err := s.router.Routes(ctx, from, to)
	if err != nil {
		s.log.Warn("route lookup failed", "from", from.String(), "to", to.String(), "error", err)
		return Distance{}, false
	}
	if len(routes) == 0 {
		s.log.Warn("no route found", "from", from.String(), "to", to.String())
		return Distance{}, false
	}
	return distanceFromRoute(routes[0]), true
}

// RouteDistanceByAddress geocodes both endpoints, each with its own airport filter,
// then routes between them. Either geocode failing yields ok=false.
func (s *RouteService) RouteDistanceByAddress(ctx context.Context, fromText, toText string) (Distance, bool) {
	var (
		from, to     types.Coordinates
		fromOK, toOK bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		from, fromOK = s.resolver.GeocodeFiltered(gctx, fromText)
		return nil
	})
	g.Go(func() error {
		to, toOK = s.resolver.GeocodeFiltered(gctx, toText)
		return nil
	})
	_ = g.Wait()

	if !fromOK || !toOK {
		s.log.Warn("could not geocode trip endpoints", "from", fromText, "to", toText)
		return Distance{}, false
	}
	return s.RouteDistance(ctx, from, to)
}

// TripDistances computes every leg from free-text endpoints. The base leg is
// best effort; the pickup geocode and the pickup->destination leg are required.
func (s *RouteService) TripDistances(ctx context.Context, pickupText, destinationText string) (TripDistances, bool) {
	baseToPickup, ok := s.baseLeg(ctx, func() (types.Coordinates, bool) {
		return s.resolver.Geocode(ctx, pickupText, PlaceTypesBroad)
	})
	if !ok {
		s.log.Warn("could not geocode pickup", "pickup", pickupText)
		return TripDistances{}, false
	}

	main, ok := s.RouteDistanceByAddress(ctx, pickupText, destinationText)
	if !ok {
		s.log.Warn("could not compute main leg", "pickup", pickupText, "destination", destinationText)
		return TripDistances{}, false
	}
	return composeDistances(baseToPickup, main), true
}

// TripDistancesFor follows the TripDistances policy but reuses coordinates
// that are already resolved instead of geocoding the labels.
func (s *RouteService) TripDistancesFor(ctx context.Context, pickup, destination types.Location) (TripDistances, bool) {
	pickupCoords := pickup.Coordinates
	baseToPickup, ok := s.baseLeg(ctx, func() (types.Coordinates, bool) {
		if pickupCoords.Resolved() {
			return pickupCoords, true
		}
		c, ok := s.resolver.Geocode(ctx, pickup.Address, PlaceTypesBroad)
		pickupCoords = c
		return c, ok
	})
	if !ok {
		s.log.Warn("could not resolve pickup", "pickup", pickup.Label())
		return TripDistances{}, false
	}

	destCoords, ok := s.destination(ctx, destination)
	if !ok {
		return TripDistances{}, false
	}

	main, ok := s.RouteDistance(ctx, pickupCoords, destCoords)
	if !ok {
		return TripDistances{}, false
	}
	return composeDistances(baseToPickup, main), true
}

// TripDistancesFromBase prices a pickup at the vehicle base itself: there is
// no base leg and the main leg starts at base.
func (s *RouteService) TripDistancesFromBase(ctx context.Context, base types.Coordinates, destination types.Location) (TripDistances, bool) {
	destCoords, ok := s.destination(ctx, destination)
	if !ok {
		return TripDistances{}, false
	}
	main, ok := s.RouteDistance(ctx, base, destCoords)
	if !ok {
		return TripDistances{}, false
	}
	return composeDistances(0, main), true
}

func (s *RouteService) destination(ctx context.Context, destination types.Location) (types.Coordinates, bool) {
	if destination.Coordinates.Resolved() {
		return destination.Coordinates, true
	}
	c, ok := s.resolver.GeocodeFiltered(ctx, destination.Address)
	if !ok {
		s.log.Warn("could not resolve destination", "destination", destination.Label())
		return types.Coordinates{}, false
	}
	return c, true
}

// baseLeg resolves the vehicle base first, then the pickup. A missing base or a
// failed base route degrades to 0 km; a missing pickup is reported as !ok.
func (s *RouteService) baseLeg(ctx context.Context, pickup func() (types.Coordinates, bool)) (float64, bool) {
	base, baseOK := s.base.VehicleBase(ctx)
	if !baseOK {
		s.log.Warn("vehicle base unavailable, base leg set to 0")
	}

	pickupCoords, ok := pickup()
	if !ok {
		return 0, false
	}

	if !baseOK {
		return 0, true
	}
	leg, ok := s.RouteDistance(ctx, base, pickupCoords)
	if !ok {
		return 0, true
	}
	return leg.DistanceKm, true
}

func composeDistances(baseToPickupKm float64, main Distance) TripDistances {
	return TripDistances{
		DistanceBaseToPickup:        baseToPickupKm,
		DistancePickupToDestination: main.DistanceKm,
		TotalDistance:               baseToPickupKm + main.DistanceKm,
		EstimatedDuration:           main.DurationMin,
	}
}
