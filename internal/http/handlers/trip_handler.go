// README: Trip handlers for start/end and driver history.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"justonemore/internal/modules/trip"
	"justonemore/internal/types"
)

type TripHandler struct {
	trip *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trip: svc}
}

type tripResponse struct {
	ID        string     `json:"id"`
	DriverID  string     `json:"driver_id"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

func toTripResponse(t *trip.Trip) tripResponse {
	return tripResponse{
		ID:        string(t.ID),
		DriverID:  string(t.DriverID),
		Status:    string(t.Status),
		StartedAt: t.StartedAt,
		EndedAt:   t.EndedAt,
	}
}

type startTripReq struct {
	DriverID string `json:"driver_id"`
}

func (h *TripHandler) Start(c *gin.Context) {
	var req startTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.trip.Start(c.Request.Context(), types.ID(req.DriverID))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toTripResponse(t))
}

func (h *TripHandler) End(c *gin.Context) {
	t, err := h.trip.End(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResponse(t))
}

func (h *TripHandler) Get(c *gin.Context) {
	t, err := h.trip.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResponse(t))
}

func (h *TripHandler) ListByDriver(c *gin.Context) {
	trips, err := h.trip.ListByDriver(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeTripError(c, err)
		return
	}
	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	writeJSON(c, http.StatusOK, out)
}
