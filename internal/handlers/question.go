package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"Dashboard/internal/auth"
	dom "Dashboard/internal/domain"
	"Dashboard/internal/dto"
	"Dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questions *service.QuestionService
	answers   *service.AnswerService
}

func NewQuestionHandler(questions *service.QuestionService, answers *service.AnswerService) *QuestionHandler {
	return &QuestionHandler{questions: questions, answers: answers}
}

// authorFromRequest resolves the mutation author: claims when a valid
// token was attached, otherwise the guest name from the request body.
func authorFromRequest(c *gin.Context, guestName string) service.Author {
	if claims, ok := auth.ClaimsFromContext(c); ok {
		return service.Author{UserID: &claims.UserID, Username: claims.Subject}
	}
	return service.Author{Username: guestName}
}

// Create godoc
// @Summary      Submit a question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateQuestionRequest  true  "Question body"
// @Success      201   {object}  dto.QuestionResponse
// @Failure      400   {object}  map[string]string
// @Router       /questions [post]
func (h *QuestionHandler) Create(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	q, err := h.questions.Submit(c.Request.Context(), authorFromRequest(c, req.Username), req.Message, req.Category)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create question"})
		return
	}
	c.JSON(http.StatusCreated, dto.FromQuestion(q))
}

// List godoc
// @Summary      List questions
// @Tags         questions
// @Produce      json
// @Param        category  query     string  false  "Category filter ('All' or empty = no filter)"
// @Success      200       {array}   dto.QuestionResponse
// @Failure      500       {object}  map[string]string
// @Router       /questions [get]
func (h *QuestionHandler) List(c *gin.Context) {
	list, err := h.questions.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch questions"})
		return
	}
	c.JSON(http.StatusOK, dto.FromQuestions(list))
}

// UpdateStatus godoc
// @Summary      Update question status
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Question ID"
// @Param        body  body      dto.UpdateQuestionRequest  true  "New status"
// @Success      200   {object}  dto.QuestionResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /questions/{id} [patch]
func (h *QuestionHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	claims, _ := auth.ClaimsFromContext(c)

	q, err := h.questions.ChangeStatus(c.Request.Context(), id, dom.Status(req.Status), claims.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "not permitted"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update question"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.FromQuestion(q))
}

// ListAnswers godoc
// @Summary      List answers for a question
// @Tags         answers
// @Produce      json
// @Param        id   path      int  true  "Question ID"
// @Success      200  {array}   dto.AnswerResponse
// @Failure      404  {object}  map[string]string
// @Router       /questions/{id}/answers [get]
func (h *QuestionHandler) ListAnswers(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.answers.ListByQuestion(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch answers"})
		return
	}
	c.JSON(http.StatusOK, dto.FromAnswers(list))
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
