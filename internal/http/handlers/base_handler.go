// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vtc/internal/backend"
	"vtc/internal/http/middleware"
	"vtc/internal/modules/estimate"
	"vtc/internal/modules/trip"
)

type errorResponse struct {
	Error string        `json:"error"`
	Kind  estimate.Kind `json:"kind,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// estimateStatus maps a failure kind to the response code.
func estimateStatus(k estimate.Kind) int {
	switch k {
	case estimate.KindValidation, estimate.KindResolution, estimate.KindNoTariff:
		return http.StatusUnprocessableEntity
	case estimate.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeEstimateError(c *gin.Context, err error) {
	f := estimate.Classify(err)
	status := estimateStatus(f.Kind)
	if status >= http.StatusInternalServerError {
		middleware.Logger(c).Error("estimate failed", "kind", f.Kind, "error", err)
	}
	writeJSON(c, status, errorResponse{Error: f.Message, Kind: f.Kind})
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, trip.ErrNotFound):
		writeError(c, http.StatusNotFound, trip.ErrNotFound.Error())
	case errors.Is(err, trip.ErrInvalidState):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, trip.ErrUnauthenticated):
		writeError(c, http.StatusUnauthorized, trip.ErrUnauthenticated.Error())
	case errors.Is(err, backend.ErrTimeout):
		writeError(c, http.StatusGatewayTimeout, estimate.MsgTimedOut)
	default:
		middleware.Logger(c).Error("trip request failed", "error", err)
		writeError(c, http.StatusBadGateway, "trip service unavailable")
	}
}
