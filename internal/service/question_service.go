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

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// Author identifies who performed a mutation: a registered account
// (UserID set, Username taken from the account) or a guest name.
type Author struct {
	UserID   *int64
	Username string
}

// QuestionService applies question mutations and publishes one domain
// event per successful write. Events reach the bus after the row is
// committed and before the result is returned to the caller.
type QuestionService struct {
	repo  repo.QuestionRepo
	cache *cache.QuestionCache
	bus   event.Publisher
	locks *EntityLocks
	sf    singleflight.Group
}

// NewQuestionService creates a QuestionService. If c is nil, caching is
// disabled. locks must be the same registry the answer service uses.
func NewQuestionService(r repo.QuestionRepo, c *cache.QuestionCache, bus event.Publisher, locks *EntityLocks) *QuestionService {
	return &QuestionService{repo: r, cache: c, bus: bus, locks: locks}
}

// Submit validates and stores a new question, then publishes QuestionCreated.
func (s *QuestionService) Submit(ctx context.Context, author Author, message, category string) (dom.Question, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return dom.Question{}, fmt.Errorf("%w: message is empty", ErrValidation)
	}
	if len(message) > dom.MaxQuestionLen {
		return dom.Question{}, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, dom.MaxQuestionLen)
	}
	if category == "" {
		category = "General"
	}
	if !dom.ValidCategory(category) {
		return dom.Question{}, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	username := strings.TrimSpace(author.Username)
	if username == "" {
		username = "Guest"
	}

	q, err := s.repo.Create(ctx, dom.Question{
		UserID:   author.UserID,
		Username: username,
		Message:  message,
		Status:   dom.StatusPending,
		Category: category,
	})
	if err != nil {
		return dom.Question{}, err
	}
	s.invalidateCache(ctx)
	s.bus.Publish(ctx, event.QuestionCreated{Question: q})
	return q, nil
}

// ChangeStatus sets a question's status. Admin only; the status value must
// be one of the three known values but transitions are unrestricted.
func (s *QuestionService) ChangeStatus(ctx context.Context, id int64, status dom.Status, requesterIsAdmin bool) (dom.Question, error) {
	if !requesterIsAdmin {
		return dom.Question{}, ErrForbidden
	}
	if !status.Valid() {
		return dom.Question{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	// Write and publish under the per-question lock so subscribers see
	// status changes for one question in commit order.
	unlock := s.locks.lock(id)
	defer unlock()

	q, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Question{}, ErrNotFound
		}
		return dom.Question{}, err
	}
	s.invalidateCache(ctx)
	s.bus.Publish(ctx, event.QuestionStatusChanged{Question: q})
	return q, nil
}

// List returns questions newest first, optionally filtered by category.
func (s *QuestionService) List(ctx context.Context, category string) ([]dom.Question, error) {
	if s.cache != nil {
		key := "list:" + strings.ToLower(category)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, category); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, category)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, category, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Question), nil
	}
	return s.repo.List(ctx, category)
}

// Get returns one question by id.
func (s *QuestionService) Get(ctx context.Context, id int64) (dom.Question, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Question{}, ErrNotFound
		}
		return dom.Question{}, err
	}
	return q, nil
}

func (s *QuestionService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
