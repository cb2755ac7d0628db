// README: AI handler (Gemini-backed allergen suggestions).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"justonemore/internal/ai"
	"justonemore/internal/modules/dish"
)

type AIHandler struct {
	suggester ai.AllergenSuggester
}

func NewAIHandler(suggester ai.AllergenSuggester) *AIHandler {
	return &AIHandler{suggester: suggester}
}

type suggestAllergensReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SuggestAllergens handles POST /api/ai/allergen-suggestions.
func (h *AIHandler) SuggestAllergens(c *gin.Context) {
	if h.suggester == nil {
		writeError(c, http.StatusServiceUnavailable, "suggestions not configured")
		return
	}
	var req suggestAllergensReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(c, http.StatusBadRequest, "missing title")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	suggested, err := h.suggester.SuggestAllergens(ctx, req.Title, req.Description, dish.Allergens)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"allergens": suggested})
}
