// README: Coordinate resolver. Wraps a geocoding provider with the fail-soft contract and caching.
package maps

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"vtc/internal/logging"
	"vtc/internal/types"
)

// Geocoder is a geocoding provider (backend proxy or Google).
type Geocoder interface {
	Geocode(ctx context.Context, address, placeTypes string) ([]Feature, error)
	Search(ctx context.Context, query, placeTypes string, limit int) ([]Feature, error)
}

// BaseLocator returns the operating base of the vehicle.
type BaseLocator interface {
	VehicleBase(ctx context.Context) (types.Coordinates, error)
}

// DefaultAirportKeywords trigger the POI-only geocoding filter.
var DefaultAirportKeywords = []string{"aeropuerto", "airport"}

// Resolver never returns errors: provider failures are logged and reported as ok=false.
type Resolver struct {
	geocoder Geocoder
	base     BaseLocator
	cache    GeocodeCache
	keywords []string
	log      *slog.Logger
}

type ResolverOption func(*Resolver)

func WithCache(c GeocodeCache) ResolverOption {
	return func(r *Resolver) { r.cache = c }
}

func WithAirportKeywords(keywords []string) ResolverOption {
	return func(r *Resolver) {
		if len(keywords) > 0 {
			r.keywords = keywords
		}
	}
}

func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.log = logging.OrDiscard(l) }
}

func NewResolver(geocoder Geocoder, base BaseLocator, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		geocoder: geocoder,
		base:     base,
		keywords: DefaultAirportKeywords,
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PlaceTypesFor picks the POI filter when address mentions an airport.
func (r *Resolver) PlaceTypesFor(address string) string {
	lower := strings.ToLower(address)
	for _, kw := range r.keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return PlaceTypesPOI
		}
	}
	return PlaceTypesBroad
}

// Geocode returns the first candidate's coordinates.
func (r *Resolver) Geocode(ctx context.Context, address, placeTypes string) (types.Coordinates, bool) {
	address = strings.TrimSpace(address)
	if address == "" {
		return types.Coordinates{}, false
	}
	if placeTypes == "" {
		placeTypes = PlaceTypesBroad
	}

	key := cacheKey(placeTypes, address)
	if r.cache != nil {
		c, hit, err := r.cache.Get(ctx, key)
		if err != nil {
			r.log.Warn("geocode cache read failed", "address", address, "error", err)
		} else if hit && c.Resolved() {
			return c, true
		}
	}

	features, err := r.geocoder.Geocode(ctx, address, placeTypes)
	if err != nil {
		r.log.Warn("geocode failed", "address", address, "types", placeTypes, "error", err)
		return types.Coordinates{}, false
	}
	if len(features) == 0 {
		r.log.Warn("geocode returned no features", "address", address, "types", placeTypes)
		return types.Coordinates{}, false
	}

	c := features[0].Coordinates()
	if !c.Resolved() {
		r.log.Warn("geocode returned unusable coordinates", "address", address, "coordinates", c.String())
		return types.Coordinates{}, false
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, key, c); err != nil {
			r.log.Warn("geocode cache write failed", "address", address, "error", err)
		}
	}
	return c, true
}

// GeocodeFiltered geocodes with the filter chosen by PlaceTypesFor.
func (r *Resolver) GeocodeFiltered(ctx context.Context, address string) (types.Coordinates, bool) {
	return r.Geocode(ctx, address, r.PlaceTypesFor(address))
}

// Search returns autocomplete candidates; short queries and failures yield none.
func (r *Resolver) Search(ctx context.Context, query string, limit int) []Feature {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	features, err := r.geocoder.Search(ctx, query, PlaceTypesBroad, limit)
	if err != nil {
		r.log.Warn("place search failed", "query", query, "error", err)
		return nil
	}
	if len(features) > limit {
		features = features[:limit]
	}
	return features
}

// VehicleBase fetches the operating base. Zero coordinates count as unresolved.
func (r *Resolver) VehicleBase(ctx context.Context) (types.Coordinates, bool) {
	if r.base == nil {
		return types.Coordinates{}, false
	}
	start := time.Now()
	c, err := r.base.VehicleBase(ctx)
	if err != nil {
		r.log.Warn("vehicle base lookup failed", "error", err, "elapsed", time.Since(start))
		return types.Coordinates{}, false
	}
	if !c.Resolved() {
		r.log.Warn("vehicle base has no coordinates")
		return types.Coordinates{}, false
	}
	return c, true
}

func cacheKey(placeTypes, address string) string {
	return "geo:" + placeTypes + ":" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}
