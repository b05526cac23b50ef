package event

import (
	dom "Dashboard/internal/domain"
	"Dashboard/internal/dto"
)

// Type is the wire-level discriminator pushed to websocket subscribers.
type Type string

const (
	TypeNewQuestion     Type = "new_question"
	TypeQuestionUpdated Type = "question_updated"
	TypeNewAnswer       Type = "new_answer"
)

// DomainEvent describes one committed mutation. Events are ephemeral: they
// are produced once, fanned out to the subscribers connected at publish
// time, and discarded. The database remains the source of truth.
//
// Every event carries the full post-mutation entity, not a delta, so that
// subscriber-side merging is idempotent regardless of duplicate delivery.
type DomainEvent interface {
	EventType() Type
	// Data is the payload marshalled into the websocket envelope.
	Data() any
}

// QuestionCreated is emitted after a new question is committed.
type QuestionCreated struct {
	Question dom.Question
}

func (e QuestionCreated) EventType() Type { return TypeNewQuestion }
func (e QuestionCreated) Data() any       { return dto.FromQuestion(e.Question) }

// QuestionStatusChanged is emitted after a status update; it carries the
// question as it stands after the update.
type QuestionStatusChanged struct {
	Question dom.Question
}

func (e QuestionStatusChanged) EventType() Type { return TypeQuestionUpdated }
func (e QuestionStatusChanged) Data() any       { return dto.FromQuestion(e.Question) }

// AnswerCreated is emitted after a new answer is committed. The parent
// question id travels inside the answer itself.
type AnswerCreated struct {
	Answer dom.Answer
}

func (e AnswerCreated) EventType() Type { return TypeNewAnswer }
func (e AnswerCreated) Data() any       { return dto.FromAnswer(e.Answer) }
