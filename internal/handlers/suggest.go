package handlers

import (
	"net/http"

	"Dashboard/internal/dto"
	"Dashboard/internal/rag"

	"github.com/gin-gonic/gin"
)

// SuggestHandler exposes the answer-suggestion collaborator.
type SuggestHandler struct {
	suggester rag.Suggester
}

func NewSuggestHandler(s rag.Suggester) *SuggestHandler {
	return &SuggestHandler{suggester: s}
}

// Suggest godoc
// @Summary      Suggest an answer for a question
// @Tags         rag
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.SuggestRequest  true  "Question text"
// @Success      200   {object}  dto.SuggestResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /rag/suggest [post]
func (h *SuggestHandler) Suggest(c *gin.Context) {
	var req dto.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.suggester.Suggest(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate suggestion"})
		return
	}
	c.JSON(http.StatusOK, dto.SuggestResponse{
		Question:        s.Question,
		SuggestedAnswer: s.SuggestedAnswer,
		Confidence:      s.Confidence,
		Sources:         s.Sources,
	})
}
