package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	dom "Dashboard/internal/domain"
	"Dashboard/internal/event"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// fakeQuestionRepo is an in-memory QuestionRepo with the same contract as
// the Postgres one: fresh monotone ids, ErrNoRows for unknown ids,
// answered_at set once on the first transition to Answered.
type fakeQuestionRepo struct {
	mu        sync.Mutex
	nextID    int64
	questions map[int64]dom.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[int64]dom.Question)}
}

func (r *fakeQuestionRepo) Create(_ context.Context, q dom.Question) (dom.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	q.ID = r.nextID
	q.CreatedAt = time.Now()
	r.questions[q.ID] = q
	return q, nil
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id int64) (dom.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return dom.Question{}, pgx.ErrNoRows
	}
	return q, nil
}

func (r *fakeQuestionRepo) List(_ context.Context, category string) ([]dom.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []dom.Question
	for _, q := range r.questions {
		if category != "" && category != "All" && q.Category != category {
			continue
		}
		list = append(list, q)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (r *fakeQuestionRepo) UpdateStatus(_ context.Context, id int64, status dom.Status) (dom.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id]
	if !ok {
		return dom.Question{}, pgx.ErrNoRows
	}
	q.Status = status
	if status == dom.StatusAnswered && q.AnsweredAt == nil {
		now := time.Now()
		q.AnsweredAt = &now
	}
	r.questions[id] = q
	return q, nil
}

// recordingBus captures published events in order.
type recordingBus struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (b *recordingBus) Publish(_ context.Context, e event.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) all() []event.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]event.DomainEvent(nil), b.events...)
}

func TestQuestionService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("should assign distinct ids and list all created questions", func(t *testing.T) {
		req := require.New(t)
		repo := newFakeQuestionRepo()
		bus := &recordingBus{}
		svc := NewQuestionService(repo, nil, bus, NewEntityLocks())

		seen := map[int64]bool{}
		for i := 0; i < 5; i++ {
			q, err := svc.Submit(ctx, Author{Username: "alice"}, "What is the deploy process?", "Technical")
			req.NoError(err)
			req.False(seen[q.ID], "id %d reused", q.ID)
			seen[q.ID] = true
			req.Equal(dom.StatusPending, q.Status)
		}

		list, err := svc.List(ctx, "")
		req.NoError(err)
		req.Len(list, 5)
		req.Len(bus.all(), 5)
	})

	t.Run("should publish QuestionCreated with the stored entity", func(t *testing.T) {
		req := require.New(t)
		repo := newFakeQuestionRepo()
		bus := &recordingBus{}
		svc := NewQuestionService(repo, nil, bus, NewEntityLocks())

		q, err := svc.Submit(ctx, Author{Username: "alice"}, "What is the deploy process?", "Technical")
		req.NoError(err)

		events := bus.all()
		req.Len(events, 1)
		created, ok := events[0].(event.QuestionCreated)
		req.True(ok)
		req.Equal(q, created.Question)
		req.Equal(event.TypeNewQuestion, events[0].EventType())
	})

	t.Run("should default username and category", func(t *testing.T) {
		req := require.New(t)
		svc := NewQuestionService(newFakeQuestionRepo(), nil, &recordingBus{}, NewEntityLocks())

		q, err := svc.Submit(ctx, Author{}, "anyone there?", "")
		req.NoError(err)
		req.Equal("Guest", q.Username)
		req.Equal("General", q.Category)
	})

	t.Run("should reject invalid input without publishing", func(t *testing.T) {
		req := require.New(t)
		bus := &recordingBus{}
		svc := NewQuestionService(newFakeQuestionRepo(), nil, bus, NewEntityLocks())

		_, err := svc.Submit(ctx, Author{Username: "alice"}, "   ", "General")
		req.ErrorIs(err, ErrValidation)

		_, err = svc.Submit(ctx, Author{Username: "alice"}, strings.Repeat("x", dom.MaxQuestionLen+1), "General")
		req.ErrorIs(err, ErrValidation)

		_, err = svc.Submit(ctx, Author{Username: "alice"}, "valid message", "Gossip")
		req.ErrorIs(err, ErrValidation)

		req.Empty(bus.all())
	})
}

func TestQuestionService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*QuestionService, *fakeQuestionRepo, *recordingBus, dom.Question) {
		repo := newFakeQuestionRepo()
		bus := &recordingBus{}
		svc := NewQuestionService(repo, nil, bus, NewEntityLocks())
		q, err := svc.Submit(ctx, Author{Username: "alice"}, "What is the deploy process?", "Technical")
		require.NoError(t, err)
		bus.events = nil
		return svc, repo, bus, q
	}

	t.Run("should forbid non-admins without touching the store", func(t *testing.T) {
		req := require.New(t)
		svc, repo, bus, q := setup(t)

		_, err := svc.ChangeStatus(ctx, q.ID, dom.StatusEscalated, false)
		req.ErrorIs(err, ErrForbidden)
		req.Empty(bus.all())

		stored, err := repo.GetByID(ctx, q.ID)
		req.NoError(err)
		req.Equal(dom.StatusPending, stored.Status)
	})

	t.Run("should return not found for unknown id without publishing", func(t *testing.T) {
		req := require.New(t)
		svc, _, bus, _ := setup(t)

		_, err := svc.ChangeStatus(ctx, 9999, dom.StatusEscalated, true)
		req.ErrorIs(err, ErrNotFound)
		req.Empty(bus.all())
	})

	t.Run("should reject unknown status values", func(t *testing.T) {
		req := require.New(t)
		svc, _, bus, q := setup(t)

		_, err := svc.ChangeStatus(ctx, q.ID, dom.Status("Resolved"), true)
		req.ErrorIs(err, ErrValidation)
		req.Empty(bus.all())
	})

	t.Run("should escalate without setting answered_at", func(t *testing.T) {
		req := require.New(t)
		svc, _, bus, q := setup(t)

		updated, err := svc.ChangeStatus(ctx, q.ID, dom.StatusEscalated, true)
		req.NoError(err)
		req.Equal(dom.StatusEscalated, updated.Status)
		req.Nil(updated.AnsweredAt)

		events := bus.all()
		req.Len(events, 1)
		changed, ok := events[0].(event.QuestionStatusChanged)
		req.True(ok)
		req.Equal(updated, changed.Question)
	})

	t.Run("should set answered_at once and keep it on repeat", func(t *testing.T) {
		req := require.New(t)
		svc, _, _, q := setup(t)

		first, err := svc.ChangeStatus(ctx, q.ID, dom.StatusAnswered, true)
		req.NoError(err)
		req.NotNil(first.AnsweredAt)
		req.False(first.AnsweredAt.Before(q.CreatedAt))

		second, err := svc.ChangeStatus(ctx, q.ID, dom.StatusAnswered, true)
		req.NoError(err)
		req.NotNil(second.AnsweredAt)
		req.Equal(*first.AnsweredAt, *second.AnsweredAt)
	})

	t.Run("should allow reopening an answered question", func(t *testing.T) {
		req := require.New(t)
		svc, _, _, q := setup(t)

		answered, err := svc.ChangeStatus(ctx, q.ID, dom.StatusAnswered, true)
		req.NoError(err)

		reopened, err := svc.ChangeStatus(ctx, q.ID, dom.StatusPending, true)
		req.NoError(err)
		req.Equal(dom.StatusPending, reopened.Status)
		// answered_at survives the reopen.
		req.Equal(answered.AnsweredAt, reopened.AnsweredAt)
	})
}

func TestQuestionService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("should filter by category", func(t *testing.T) {
		req := require.New(t)
		svc := NewQuestionService(newFakeQuestionRepo(), nil, &recordingBus{}, NewEntityLocks())

		_, err := svc.Submit(ctx, Author{Username: "alice"}, "billing question", "Billing")
		req.NoError(err)
		_, err = svc.Submit(ctx, Author{Username: "bob"}, "tech question", "Technical")
		req.NoError(err)

		list, err := svc.List(ctx, "Billing")
		req.NoError(err)
		req.Len(list, 1)
		req.Equal("Billing", list[0].Category)

		all, err := svc.List(ctx, "All")
		req.NoError(err)
		req.Len(all, 2)
	})
}
