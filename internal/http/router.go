// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"vtc/internal/http/handlers"
	"vtc/internal/http/middleware"
	"vtc/internal/infra"
	"vtc/internal/modules/pricing"
)

type RouterDeps struct {
	Estimator handlers.Estimator
	Pricer    handlers.PriceCalculator
	Catalog   pricing.CatalogSource
	Places    handlers.PlaceFinder
	Trips     handlers.TripService
	// Verifier guards the trip routes. Without one they are not mounted.
	Verifier infra.TokenVerifier
	Log      *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(deps.Log), middleware.Recovery())

	api := r.Group("/api")

	estimateHandler := handlers.NewEstimateHandler(deps.Estimator)
	api.POST("/estimates", estimateHandler.Estimate)

	if deps.Pricer != nil && deps.Catalog != nil {
		pricingHandler := handlers.NewPricingHandler(deps.Pricer, deps.Catalog)
		api.POST("/pricing/quote", pricingHandler.Quote)
	}

	placesHandler := handlers.NewPlacesHandler(deps.Places)
	api.GET("/places/search", placesHandler.Search)
	api.GET("/places/geocode", placesHandler.Geocode)
	api.GET("/vehicle/base", placesHandler.VehicleBase)

	if deps.Trips != nil && deps.Verifier != nil {
		tripHandler := handlers.NewTripHandler(deps.Trips)
		trips := api.Group("/trips", middleware.Auth(deps.Verifier))
		trips.POST("", tripHandler.Create)
		trips.GET("", tripHandler.List)
		trips.GET("/:id", tripHandler.Get)
		trips.POST("/:id/cancel", tripHandler.Cancel)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
