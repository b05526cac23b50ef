package dto

import (
	"time"

	dom "Dashboard/internal/domain"
)

type CreateAnswerRequest struct {
	QuestionID int64  `json:"question_id" binding:"required"`
	Message    string `json:"message" binding:"required,min=1,max=2000"`
	Username   string `json:"username" binding:"max=50"`
}

// AnswerResponse is the wire shape for an answer, shared by the REST
// responses and the websocket event payloads.
type AnswerResponse struct {
	AnswerID   int64     `json:"answer_id"`
	QuestionID int64     `json:"question_id"`
	UserID     *int64    `json:"user_id"`
	Username   string    `json:"username"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// FromAnswer maps a domain answer to its wire shape.
func FromAnswer(a dom.Answer) AnswerResponse {
	return AnswerResponse{
		AnswerID:   a.ID,
		QuestionID: a.QuestionID,
		UserID:     a.UserID,
		Username:   a.Username,
		Message:    a.Message,
		Timestamp:  a.CreatedAt,
	}
}

// FromAnswers maps a slice of domain answers.
func FromAnswers(list []dom.Answer) []AnswerResponse {
	out := make([]AnswerResponse, len(list))
	for i := range list {
		out[i] = FromAnswer(list[i])
	}
	return out
}
