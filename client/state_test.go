package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func questionEvent(t *testing.T, typ string, q Question) Event {
	t.Helper()
	data, err := json.Marshal(q)
	require.NoError(t, err)
	return Event{Type: typ, Data: data}
}

func answerEvent(t *testing.T, a Answer) Event {
	t.Helper()
	data, err := json.Marshal(a)
	require.NoError(t, err)
	return Event{Type: EventNewAnswer, Data: data}
}

func TestState_Apply(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("should prepend new questions", func(t *testing.T) {
		req := require.New(t)
		s := NewState()
		s.SetBaseline([]Question{{QuestionID: 1, Message: "old", Timestamp: now}})

		req.NoError(s.Apply(questionEvent(t, EventNewQuestion, Question{QuestionID: 2, Message: "new", Timestamp: now})))

		list := s.Questions()
		req.Len(list, 2)
		req.EqualValues(2, list[0].QuestionID)
	})

	t.Run("should drop a duplicate new_question", func(t *testing.T) {
		req := require.New(t)
		s := NewState()
		evt := questionEvent(t, EventNewQuestion, Question{QuestionID: 1, Message: "hi", Timestamp: now})

		req.NoError(s.Apply(evt))
		req.NoError(s.Apply(evt))
		req.Len(s.Questions(), 1)
	})

	t.Run("should not let a stale new_question overwrite pulled state", func(t *testing.T) {
		req := require.New(t)
		s := NewState()
		// Baseline already saw the question as Answered; the racing push
		// still carries the creation-time Pending snapshot.
		s.SetBaseline([]Question{{QuestionID: 1, Status: "Answered", Timestamp: now}})

		req.NoError(s.Apply(questionEvent(t, EventNewQuestion, Question{QuestionID: 1, Status: "Pending", Timestamp: now})))
		req.Equal("Answered", s.Questions()[0].Status)
	})

	t.Run("should overwrite on question_updated", func(t *testing.T) {
		req := require.New(t)
		s := NewState()
		s.SetBaseline([]Question{{QuestionID: 1, Status: "Pending", Timestamp: now}})

		answeredAt := now.Add(time.Minute)
		evt := questionEvent(t, EventQuestionUpdated, Question{QuestionID: 1, Status: "Answered", Timestamp: now, AnsweredAt: &answeredAt})
		req.NoError(s.Apply(evt))
		req.NoError(s.Apply(evt)) // duplicate delivery

		list := s.Questions()
		req.Len(list, 1)
		req.Equal("Answered", list[0].Status)
		req.NotNil(list[0].AnsweredAt)
	})

	t.Run("should insert question_updated for an unknown id", func(t *testing.T) {
		req := require.New(t)
		s := NewState()

		// An update pushed while the baseline pull was in flight.
		req.NoError(s.Apply(questionEvent(t, EventQuestionUpdated, Question{QuestionID: 5, Status: "Escalated", Timestamp: now})))
		req.Len(s.Questions(), 1)
	})

	t.Run("should add answers once and bump the count once", func(t *testing.T) {
		req := require.New(t)
		s := NewState()
		s.SetBaseline([]Question{{QuestionID: 1, Timestamp: now}})

		evt := answerEvent(t, Answer{AnswerID: 10, QuestionID: 1, Username: "bob", Message: "done", Timestamp: now})
		req.NoError(s.Apply(evt))
		req.NoError(s.Apply(evt))

		req.Len(s.Answers(1), 1)
		req.EqualValues(1, s.Questions()[0].AnswerCount)
	})

	t.Run("should keep an answer whose question is not locally known", func(t *testing.T) {
		req := require.New(t)
		s := NewState()

		req.NoError(s.Apply(answerEvent(t, Answer{AnswerID: 10, QuestionID: 9, Timestamp: now})))
		req.Len(s.Answers(9), 1)
	})

	t.Run("should reject unknown event types", func(t *testing.T) {
		req := require.New(t)
		s := NewState()

		err := s.Apply(Event{Type: "question_deleted", Data: json.RawMessage(`{}`)})
		req.Error(err)
	})

	t.Run("should reject malformed payloads", func(t *testing.T) {
		req := require.New(t)
		s := NewState()

		err := s.Apply(Event{Type: EventNewQuestion, Data: json.RawMessage(`"not an object"`)})
		req.Error(err)
		req.Empty(s.Questions())
	})
}

func TestState_SetBaseline(t *testing.T) {
	req := require.New(t)
	s := NewState()
	now := time.Now()

	s.SetBaseline([]Question{{QuestionID: 1, Timestamp: now}})
	s.SetAnswers(1, []Answer{{AnswerID: 3, QuestionID: 1, Timestamp: now}})

	// Reconnect: the fresh pull replaces everything, cached answers
	// included, since they may be stale.
	s.SetBaseline([]Question{{QuestionID: 2, Timestamp: now}})

	req.Len(s.Questions(), 1)
	req.EqualValues(2, s.Questions()[0].QuestionID)
	req.Empty(s.Answers(1))
}
