// README: Impact handlers for user summaries, notifications, and platform
// statistics.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"justonemore/internal/modules/impact"
	"justonemore/internal/types"
)

type ImpactHandler struct {
	impact *impact.Service
}

func NewImpactHandler(svc *impact.Service) *ImpactHandler {
	return &ImpactHandler{impact: svc}
}

func (h *ImpactHandler) Summary(c *gin.Context) {
	sum, err := h.impact.Summary(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"cooked":      sum.Cooked,
		"picked_up":   sum.PickedUp,
		"distributed": sum.Distributed,
		"points":      sum.Points,
		"badges":      sum.Badges,
	})
}

func (h *ImpactHandler) Notifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	notes, err := h.impact.Notifications(c.Request.Context(), types.ID(c.Param("id")), limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]gin.H, 0, len(notes))
	for _, n := range notes {
		out = append(out, gin.H{
			"id":         n.ID,
			"dish_id":    idToString(n.DishID),
			"type":       n.Type,
			"message":    n.Message,
			"created_at": n.CreatedAt,
			"read":       n.Read,
		})
	}
	writeJSON(c, http.StatusOK, out)
}

func (h *ImpactHandler) MarkRead(c *gin.Context) {
	if err := h.impact.MarkNotificationRead(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ImpactHandler) PlatformStats(c *gin.Context) {
	stats, err := h.impact.PlatformStats(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"users":        stats.Users,
		"dishes":       stats.Dishes,
		"portions":     stats.Portions,
		"distributed":  stats.DistributedCount,
		"active_trips": stats.ActiveTrips,
		"by_status":    stats.ByStatus,
	})
}
