// README: Local price quote from explicit distances.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vtc/internal/maps"
	"vtc/internal/modules/estimate"
	"vtc/internal/modules/pricing"
	"vtc/internal/types"
)

type PriceCalculator interface {
	CalculatePrice(ctx context.Context, req pricing.PriceRequest, d maps.TripDistances, tariffs []pricing.Tariff, supplements []pricing.Supplement) (pricing.Calculation, error)
}

type PricingHandler struct {
	calc    PriceCalculator
	catalog pricing.CatalogSource
}

func NewPricingHandler(calc PriceCalculator, catalog pricing.CatalogSource) *PricingHandler {
	return &PricingHandler{calc: calc, catalog: catalog}
}

type quoteReq struct {
	ServiceType pricing.ServiceType `json:"serviceType"`
	Passengers  int                 `json:"passengerCount"`
	PickupDate  string              `json:"pickupDate"`
	PickupTime  string              `json:"pickupTime"`
	Supplements []string            `json:"supplements"`
	Distances   maps.TripDistances  `json:"distances"`
}

func (h *PricingHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	date, err := types.ParseDate(req.PickupDate)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, estimate.MsgInvalidDateTime)
		return
	}
	clock, err := types.ParseClock(req.PickupTime)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, estimate.MsgInvalidDateTime)
		return
	}
	if req.Passengers < estimate.MinPassengers || req.Passengers > estimate.MaxPassengers {
		writeError(c, http.StatusUnprocessableEntity, estimate.MsgInvalidPassengers)
		return
	}

	ctx := c.Request.Context()
	tariffs, err := h.catalog.Tariffs(ctx)
	if err != nil {
		writeEstimateError(c, err)
		return
	}
	supplements, err := h.catalog.Supplements(ctx)
	if err != nil {
		writeEstimateError(c, err)
		return
	}

	calc, err := h.calc.CalculatePrice(ctx, pricing.PriceRequest{
		ServiceType: req.ServiceType,
		Passengers:  req.Passengers,
		Date:        date,
		Time:        clock,
		Supplements: req.Supplements,
	}, req.Distances, tariffs, supplements)
	switch {
	case errors.Is(err, pricing.ErrUnknownServiceType):
		writeError(c, http.StatusUnprocessableEntity, estimate.MsgUnknownService)
		return
	case err != nil:
		writeEstimateError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, calc)
}
