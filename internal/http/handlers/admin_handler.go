// README: Admin handlers. Currently just the demo seeder.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"justonemore/internal/modules/demo"
)

type AdminHandler struct {
	seeder *demo.Seeder
}

func NewAdminHandler(seeder *demo.Seeder) *AdminHandler {
	return &AdminHandler{seeder: seeder}
}

// SeedDemo populates demo data and reports what was created.
func (h *AdminHandler) SeedDemo(c *gin.Context) {
	res, err := h.seeder.Run(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "seeding failed")
		return
	}
	writeJSON(c, http.StatusOK, res)
}
