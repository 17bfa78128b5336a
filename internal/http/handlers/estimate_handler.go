// README: Estimate handler. Runs one orchestrator pass per request.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"vtc/internal/modules/estimate"
)

type Estimator interface {
	Estimate(ctx context.Context, req estimate.TripRequest) (*estimate.Result, error)
}

type EstimateHandler struct {
	estimator Estimator
}

func NewEstimateHandler(e Estimator) *EstimateHandler {
	return &EstimateHandler{estimator: e}
}

type estimateResp struct {
	Result  *estimate.Result `json:"result"`
	Display estimate.Display `json:"display"`
}

// Estimate answers 204 while the request is still idle.
func (h *EstimateHandler) Estimate(c *gin.Context) {
	var req estimate.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.estimator.Estimate(c.Request.Context(), req)
	if err != nil {
		writeEstimateError(c, err)
		return
	}
	if res == nil {
		c.Status(http.StatusNoContent)
		return
	}
	writeJSON(c, http.StatusOK, estimateResp{Result: res, Display: res.Display()})
}
