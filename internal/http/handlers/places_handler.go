// README: Place autocomplete, geocoding and vehicle base lookups.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vtc/internal/maps"
	"vtc/internal/types"
)

type PlaceFinder interface {
	Search(ctx context.Context, query string, limit int) []maps.Feature
	GeocodeFiltered(ctx context.Context, address string) (types.Coordinates, bool)
	VehicleBase(ctx context.Context) (types.Coordinates, bool)
}

type PlacesHandler struct {
	places PlaceFinder
}

func NewPlacesHandler(p PlaceFinder) *PlacesHandler {
	return &PlacesHandler{places: p}
}

// Search never fails; short queries and provider errors return an empty list.
func (h *PlacesHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	features := h.places.Search(c.Request.Context(), c.Query("q"), limit)
	if features == nil {
		features = []maps.Feature{}
	}
	writeJSON(c, http.StatusOK, gin.H{"features": features})
}

func (h *PlacesHandler) Geocode(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		writeError(c, http.StatusBadRequest, "missing address")
		return
	}
	coords, ok := h.places.GeocodeFiltered(c.Request.Context(), address)
	if !ok {
		writeError(c, http.StatusNotFound, "address not found")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"address": address, "coordinates": coords})
}

func (h *PlacesHandler) VehicleBase(c *gin.Context) {
	coords, ok := h.places.VehicleBase(c.Request.Context())
	if !ok {
		writeError(c, http.StatusNotFound, "vehicle base unavailable")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"coordinates": coords, "label": coords.String()})
}
