package handlers

import (
	"errors"
	"net/http"

	"Dashboard/internal/auth"
	"Dashboard/internal/dto"
	"Dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	answers *service.AnswerService
	// adminOnly is the deployment policy: when true only admins may
	// answer. The decision is computed here and passed into the service.
	adminOnly bool
}

func NewAnswerHandler(answers *service.AnswerService, adminOnly bool) *AnswerHandler {
	return &AnswerHandler{answers: answers, adminOnly: adminOnly}
}

// Create godoc
// @Summary      Submit an answer
// @Tags         answers
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateAnswerRequest  true  "Answer body"
// @Success      201   {object}  dto.AnswerResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /answers [post]
func (h *AnswerHandler) Create(c *gin.Context) {
	var req dto.CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, authed := auth.ClaimsFromContext(c)
	allowed := !h.adminOnly || (authed && claims.IsAdmin)

	a, err := h.answers.Submit(c.Request.Context(), req.QuestionID, authorFromRequest(c, req.Username), req.Message, allowed)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "not permitted"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create answer"})
		}
		return
	}
	c.JSON(http.StatusCreated, dto.FromAnswer(a))
}
