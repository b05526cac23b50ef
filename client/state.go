package client

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Question mirrors the server's question wire shape.
type Question struct {
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

// Answer mirrors the server's answer wire shape.
type Answer struct {
	AnswerID   int64     `json:"answer_id"`
	QuestionID int64     `json:"question_id"`
	UserID     *int64    `json:"user_id"`
	Username   string    `json:"username"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event is one pushed update: {"type": ..., "data": <entity>}.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	EventNewQuestion     = "new_question"
	EventQuestionUpdated = "question_updated"
	EventNewAnswer       = "new_answer"
)

// State is the client's local view of the board. Pushed events carry full
// entities, so every merge below is idempotent: applying the same event
// twice leaves the state unchanged, which makes duplicate delivery and the
// baseline-pull/push race harmless.
type State struct {
	mu        sync.Mutex
	questions []Question
	answers   map[int64][]Answer
}

func NewState() *State {
	return &State{answers: make(map[int64][]Answer)}
}

// SetBaseline replaces the entire local view with a fresh pull. Called on
// every (re)connect, before any pushed event is trusted.
func (s *State) SetBaseline(questions []Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append([]Question(nil), questions...)
	s.answers = make(map[int64][]Answer)
}

// SetAnswers replaces the cached answer list for one question (pull path).
func (s *State) SetAnswers(questionID int64, answers []Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[questionID] = append([]Answer(nil), answers...)
}

// Apply merges one pushed event into the local view.
func (s *State) Apply(evt Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch evt.Type {
	case EventNewQuestion:
		var q Question
		if err := json.Unmarshal(evt.Data, &q); err != nil {
			return fmt.Errorf("decode %s: %w", evt.Type, err)
		}
		s.upsertQuestion(q, false)
	case EventQuestionUpdated:
		var q Question
		if err := json.Unmarshal(evt.Data, &q); err != nil {
			return fmt.Errorf("decode %s: %w", evt.Type, err)
		}
		s.upsertQuestion(q, true)
	case EventNewAnswer:
		var a Answer
		if err := json.Unmarshal(evt.Data, &a); err != nil {
			return fmt.Errorf("decode %s: %w", evt.Type, err)
		}
		s.addAnswer(a)
	default:
		return fmt.Errorf("unknown event type %q", evt.Type)
	}
	return nil
}

// upsertQuestion inserts q or, when replace is set, overwrites the stored
// entity with the pushed one (the server sends current state, not a
// delta, so last value wins). A new_question for a known id is a
// duplicate and is dropped.
func (s *State) upsertQuestion(q Question, replace bool) {
	for i := range s.questions {
		if s.questions[i].QuestionID == q.QuestionID {
			if replace {
				s.questions[i] = q
			}
			return
		}
	}
	s.questions = append([]Question{q}, s.questions...)
}

// addAnswer appends a (deduplicated by id) and bumps the parent question's
// displayed answer count.
func (s *State) addAnswer(a Answer) {
	for _, existing := range s.answers[a.QuestionID] {
		if existing.AnswerID == a.AnswerID {
			return
		}
	}
	s.answers[a.QuestionID] = append(s.answers[a.QuestionID], a)
	for i := range s.questions {
		if s.questions[i].QuestionID == a.QuestionID {
			s.questions[i].AnswerCount++
			return
		}
	}
}

// Questions returns a copy of the current question list, newest first.
func (s *State) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Question(nil), s.questions...)
}

// Answers returns a copy of the locally known answers for a question.
func (s *State) Answers(questionID int64) []Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Answer(nil), s.answers[questionID]...)
}
