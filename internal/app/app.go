// README: Service graph shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"vtc/internal/backend"
	"vtc/internal/config"
	"vtc/internal/infra"
	"vtc/internal/logging"
	"vtc/internal/maps"
	"vtc/internal/modules/estimate"
	"vtc/internal/modules/pricing"
	"vtc/internal/modules/trip"
)

const baseTTL = 5 * time.Minute

type App struct {
	Resolver *maps.Resolver
	Routes   *maps.RouteService
	Base     *estimate.CachedBase
	Catalog  pricing.CatalogSource
	Pricing  *pricing.Service
	Estimate *estimate.Service
	Trips    *trip.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

type provider interface {
	maps.Geocoder
	maps.Router
}

// New wires every service from cfg. Redis is optional: when it cannot be
// reached the caches are skipped. Postgres is only opened for the postgres
// catalog source.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	log = logging.OrDiscard(log)
	a := &App{}
	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, nil)
	backendProvider := maps.NewBackendProvider(client)

	var geo provider = backendProvider
	if cfg.Geo.Provider == config.GeoProviderGoogle {
		g, err := maps.NewGoogleProvider(cfg.Geo.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		geo = g
	}

	if cfg.Redis.Addr != "" {
		rc, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn("redis unavailable, running without caches", "error", err)
		} else {
			a.redis = rc
		}
	}

	resolverOpts := []maps.ResolverOption{
		maps.WithAirportKeywords(cfg.Geo.AirportKeywords),
		maps.WithLogger(log),
	}
	if a.redis != nil {
		resolverOpts = append(resolverOpts, maps.WithCache(maps.NewRedisGeocodeCache(a.redis, cfg.Cache.GeocodeTTL)))
	}
	a.Resolver = maps.NewResolver(geo, backendProvider, resolverOpts...)
	a.Base = estimate.NewCachedBase(a.Resolver, baseTTL)
	a.Routes = maps.NewRouteService(geo, a.Resolver, log, maps.WithBaseSource(a.Base))

	var (
		catalog  pricing.CatalogSource
		holidays pricing.HolidayChecker
	)
	switch cfg.Pricing.CatalogSource {
	case config.CatalogSourcePostgres:
		db, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open catalog db: %w", err)
		}
		a.db = db
		store := pricing.NewStore(db)
		catalog, holidays = store, store
	default:
		catalog = pricing.NewBackendCatalog(client, log)
		holidays = pricing.NewBackendHolidays(client)
	}
	if a.redis != nil {
		catalog = pricing.NewCachedCatalog(catalog, pricing.NewRedisCache(a.redis, cfg.Cache.CatalogTTL), log)
		holidays = pricing.NewCachedHolidays(holidays, pricing.NewRedisCache(a.redis, cfg.Cache.HolidayTTL), log)
	}
	a.Catalog = catalog

	matcher := pricing.NewMatcher(pricing.NewFestiveDetector(holidays, log), log)
	a.Pricing = pricing.NewService(matcher, cfg.Pricing.IVARate, log)

	var quoter estimate.Quoter
	switch cfg.Pricing.Mode {
	case config.PricingModeLocal:
		quoter = estimate.NewLocalQuoter(a.Routes, catalog, a.Pricing)
	default:
		quoter = estimate.NewRemoteQuoter(client)
	}
	a.Estimate = estimate.NewService(a.Base, a.Resolver, quoter, estimate.WithLogger(log))
	a.Trips = trip.NewService(client, log)

	log.Info("services wired",
		"geo_provider", cfg.Geo.Provider,
		"pricing_mode", cfg.Pricing.Mode,
		"catalog_source", cfg.Pricing.CatalogSource,
		"caches", a.redis != nil,
	)
	return a, nil
}

func (a *App) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
