package domain

import "time"

// Answer is the domain entity for an answer to a question.
// Author union is the same as on Question: nil UserID means guest.
type Answer struct {
	ID         int64
	QuestionID int64
	UserID     *int64
	Username   string
	Message    string
	CreatedAt  time.Time
}
