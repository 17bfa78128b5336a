// README: Ordered endpoint resolution strategies. The first strategy that resolves wins.
package estimate

import (
	"context"
	"strings"
	"sync"
	"time"

	"vtc/internal/maps"
	"vtc/internal/types"
)

// Strategy tries to turn a requested location into a usable Endpoint.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, loc types.Location) (Endpoint, bool)
}

// Chain runs strategies in order and stops at the first success.
type Chain []Strategy

func (c Chain) Resolve(ctx context.Context, loc types.Location) (Endpoint, string, bool) {
	for _, s := range c {
		if ep, ok := s.Resolve(ctx, loc); ok {
			return ep, s.Name(), true
		}
	}
	return Endpoint{}, "", false
}

// BaseLocator yields the vehicle base, fail-soft.
type BaseLocator interface {
	VehicleBase(ctx context.Context) (types.Coordinates, bool)
}

// Geocoder resolves free text, fail-soft. GeocodeFiltered picks the airport
// filter from the text; Geocode uses the given place types.
type Geocoder interface {
	Geocode(ctx context.Context, address, placeTypes string) (types.Coordinates, bool)
	GeocodeFiltered(ctx context.Context, address string) (types.Coordinates, bool)
}

// VehicleBaseStrategy uses the operating base as the origin whenever it is known.
// The label is always the "lat,lng" form of the base.
type VehicleBaseStrategy struct {
	Base BaseLocator
}

func (VehicleBaseStrategy) Name() string { return "vehicle_base" }

func (s VehicleBaseStrategy) Resolve(ctx context.Context, _ types.Location) (Endpoint, bool) {
	if s.Base == nil {
		return Endpoint{}, false
	}
	c, ok := s.Base.VehicleBase(ctx)
	if !ok || !c.Resolved() {
		return Endpoint{}, false
	}
	return Endpoint{Coordinates: c, Label: c.String(), FromBase: true}, true
}

// CoordinatesStrategy accepts a location that already carries usable coordinates.
type CoordinatesStrategy struct{}

func (CoordinatesStrategy) Name() string { return "request_coordinates" }

func (CoordinatesStrategy) Resolve(_ context.Context, loc types.Location) (Endpoint, bool) {
	if !loc.Coordinates.Resolved() {
		return Endpoint{}, false
	}
	return Endpoint{Coordinates: loc.Coordinates, Label: loc.Label()}, true
}

// GeocodeStrategy geocodes the address text with the broad filter, or with the
// airport filter when AirportFilter is set.
type GeocodeStrategy struct {
	Geocoder      Geocoder
	AirportFilter bool
}

func (GeocodeStrategy) Name() string { return "geocode_address" }

func (s GeocodeStrategy) Resolve(ctx context.Context, loc types.Location) (Endpoint, bool) {
	addr := strings.TrimSpace(loc.Address)
	if addr == "" || s.Geocoder == nil {
		return Endpoint{}, false
	}
	var (
		c  types.Coordinates
		ok bool
	)
	if s.AirportFilter {
		c, ok = s.Geocoder.GeocodeFiltered(ctx, addr)
	} else {
		c, ok = s.Geocoder.Geocode(ctx, addr, maps.PlaceTypesBroad)
	}
	if !ok {
		return Endpoint{}, false
	}
	return Endpoint{Coordinates: c, Label: addr}, true
}

// CachedBase remembers a successfully fetched vehicle base for ttl. Failures are
// not remembered, so the next estimate asks again.
type CachedBase struct {
	next BaseLocator
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	coords  types.Coordinates
	fetched time.Time
}

func NewCachedBase(next BaseLocator, ttl time.Duration) *CachedBase {
	return &CachedBase{next: next, ttl: ttl, now: time.Now}
}

func (b *CachedBase) VehicleBase(ctx context.Context) (types.Coordinates, bool) {
	b.mu.Lock()
	if b.coords.Resolved() && (b.ttl <= 0 || b.now().Sub(b.fetched) < b.ttl) {
		c := b.coords
		b.mu.Unlock()
		return c, true
	}
	b.mu.Unlock()

	c, ok := b.next.VehicleBase(ctx)
	if !ok {
		return types.Coordinates{}, false
	}

	b.mu.Lock()
	b.coords, b.fetched = c, b.now()
	b.mu.Unlock()
	return c, true
}
