package domain

import "time"

// Status is the moderation state of a question. Transitions between the
// three values are unrestricted: an answered question can be reopened and
// an escalated one can go back to pending.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusEscalated Status = "Escalated"
	StatusAnswered  Status = "Answered"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusEscalated, StatusAnswered:
		return true
	}
	return false
}

// Categories is the fixed set a question can be filed under.
// "All" is a filter value only, never stored.
var Categories = []string{"General", "Technical", "Billing", "Account", "Feedback"}

// ValidCategory reports whether c is a member of Categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

const (
	MaxQuestionLen = 1000
	MaxAnswerLen   = 2000
)

// Question is the domain entity for a submitted question.
// UserID is nil for guest submissions; Username is always set (the account
// name or the free-text guest name).
type Question struct {
	ID       int64
	UserID   *int64
	Username string
	Message  string
	Status   Status
	Category string

	CreatedAt  time.Time
	AnsweredAt *time.Time

	// AnswerCount is derived from the answers table on read; it is never
	// stored on the question row.
	AnswerCount int64
}
