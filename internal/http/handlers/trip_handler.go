// README: Trip handlers for create/list/get/cancel. Mounted behind middleware.Auth.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vtc/internal/auth"
	"vtc/internal/http/middleware"
	"vtc/internal/modules/trip"
)

type TripService interface {
	Create(ctx context.Context, sess auth.Session, cmd trip.CreateCommand) (*trip.Trip, string, error)
	Get(ctx context.Context, sess auth.Session, id string) (*trip.Trip, error)
	List(ctx context.Context, sess auth.Session, page, limit int) ([]trip.Trip, error)
	Cancel(ctx context.Context, sess auth.Session, id, reason string) (string, error)
}

type TripHandler struct {
	trips TripService
}

func NewTripHandler(svc TripService) *TripHandler {
	return &TripHandler{trips: svc}
}

func caller(c *gin.Context) (auth.Session, bool) {
	s, err := middleware.Session(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, err.Error())
		return auth.Session{}, false
	}
	return s, true
}

func (h *TripHandler) Create(c *gin.Context) {
	sess, ok := caller(c)
	if !ok {
		return
	}
	var cmd trip.CreateCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, msg, err := h.trips.Create(c.Request.Context(), sess, cmd)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"trip": t, "message": msg})
}

func (h *TripHandler) List(c *gin.Context) {
	sess, ok := caller(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	trips, err := h.trips.List(c.Request.Context(), sess, page, limit)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": trips})
}

func (h *TripHandler) Get(c *gin.Context) {
	sess, ok := caller(c)
	if !ok {
		return
	}
	t, err := h.trips.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trip": t})
}

type cancelReq struct {
	Reason string `json:"reason"`
}

func (h *TripHandler) Cancel(c *gin.Context) {
	sess, ok := caller(c)
	if !ok {
		return
	}
	var req cancelReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	msg, err := h.trips.Cancel(c.Request.Context(), sess, c.Param("id"), req.Reason)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": trip.StatusCancelled, "message": msg})
}
