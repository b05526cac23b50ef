package dto

import (
	"time"

	dom "Dashboard/internal/domain"
)

type CreateQuestionRequest struct {
	Message  string `json:"message" binding:"required,min=1,max=1000"`
	Username string `json:"username" binding:"max=50"`
	Category string `json:"category"`
}

type UpdateQuestionRequest struct {
	Status string `json:"status" binding:"required"`
}

// QuestionResponse is the wire shape for a question, shared by the REST
// responses and the websocket event payloads.
type QuestionResponse struct {
	QuestionID  int64      `json:"question_id"`
	UserID      *int64     `json:"user_id"`
	Username    string     `json:"username"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Category    string     `json:"category"`
	Timestamp   time.Time  `json:"timestamp"`
	AnsweredAt  *time.Time `json:"answered_at"`
	AnswerCount int64      `json:"answer_count"`
}

// FromQuestion maps a domain question to its wire shape.
func FromQuestion(q dom.Question) QuestionResponse {
	return QuestionResponse{
		QuestionID:  q.ID,
		UserID:      q.UserID,
		Username:    q.Username,
		Message:     q.Message,
		Status:      string(q.Status),
		Category:    q.Category,
		Timestamp:   q.CreatedAt,
		AnsweredAt:  q.AnsweredAt,
		AnswerCount: q.AnswerCount,
	}
}

// FromQuestions maps a slice of domain questions.
func FromQuestions(list []dom.Question) []QuestionResponse {
	out := make([]QuestionResponse, len(list))
	for i := range list {
		out[i] = FromQuestion(list[i])
	}
	return out
}
