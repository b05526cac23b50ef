package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Dashboard/internal/cache"
	dom "Dashboard/internal/domain"
	"Dashboard/internal/event"
	"Dashboard/internal/repo"
	"Dashboard/internal/utils"

	"github.com/jackc/pgx/v5"
)

// AnswerService applies answer mutations. The answer_count seen by
// subscribers is derived from the answers table, so every write here also
// invalidates the question-list cache.
type AnswerService struct {
	answers   repo.AnswerRepo
	questions repo.QuestionRepo
	cache     *cache.QuestionCache
	bus       event.Publisher
	locks     *EntityLocks
}

// NewAnswerService creates an AnswerService. If c is nil, caching is
// disabled. locks must be the same registry the question service uses.
func NewAnswerService(a repo.AnswerRepo, q repo.QuestionRepo, c *cache.QuestionCache, bus event.Publisher, locks *EntityLocks) *AnswerService {
	return &AnswerService{answers: a, questions: q, cache: c, bus: bus, locks: locks}
}

// Submit stores an answer to an existing question and publishes
// AnswerCreated. allowed is the authorization decision computed by the
// caller (answering may be admin-gated by deployment policy); it is not
// derived here.
func (s *AnswerService) Submit(ctx context.Context, questionID int64, author Author, message string, allowed bool) (dom.Answer, error) {
	if !allowed {
		return dom.Answer{}, ErrForbidden
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return dom.Answer{}, fmt.Errorf("%w: message is empty", ErrValidation)
	}
	if len(message) > dom.MaxAnswerLen {
		return dom.Answer{}, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, dom.MaxAnswerLen)
	}
	username := strings.TrimSpace(author.Username)
	if username == "" {
		username = "Guest"
	}

	// Lock on the parent question: events for one question, answer
	// inserts and status changes alike, reach the bus in commit order.
	unlock := s.locks.lock(questionID)
	defer unlock()

	a, err := s.answers.Create(ctx, dom.Answer{
		QuestionID: questionID,
		UserID:     author.UserID,
		Username:   username,
		Message:    message,
	})
	if err != nil {
		if utils.IsPGForeignKeyViolation(err) {
			return dom.Answer{}, ErrNotFound
		}
		return dom.Answer{}, err
	}
	s.invalidateCache(ctx)
	s.bus.Publish(ctx, event.AnswerCreated{Answer: a})
	return a, nil
}

// ListByQuestion returns a question's answers oldest first, or ErrNotFound
// when the question does not exist.
func (s *AnswerService) ListByQuestion(ctx context.Context, questionID int64) ([]dom.Answer, error) {
	if _, err := s.questions.GetByID(ctx, questionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.answers.ListByQuestion(ctx, questionID)
}

func (s *AnswerService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
