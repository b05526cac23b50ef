package repo

import (
	"context"

	dom "Dashboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type QuestionRepo interface {
	Create(ctx context.Context, q dom.Question) (dom.Question, error)
	GetByID(ctx context.Context, id int64) (dom.Question, error)
	// List returns questions newest first. An empty category or "All"
	// means no filter.
	List(ctx context.Context, category string) ([]dom.Question, error)
	// UpdateStatus overwrites the status (last write wins) and sets
	// answered_at exactly once, on the first transition to Answered.
	// Returns pgx.ErrNoRows for an unknown id.
	UpdateStatus(ctx context.Context, id int64, status dom.Status) (dom.Question, error)
}

const questionColumns = `
	q.question_id, q.user_id, q.username, q.message, q.status, q.category,
	q.created_at, q.answered_at,
	(SELECT COUNT(*) FROM answers a WHERE a.question_id = q.question_id) AS answer_count`

type PGQuestionRepo struct {
	db *pgxpool.Pool
}

func NewPGQuestionRepo(db *pgxpool.Pool) *PGQuestionRepo {
	return &PGQuestionRepo{db: db}
}

func (r *PGQuestionRepo) Create(ctx context.Context, q dom.Question) (dom.Question, error) {
	query := `
		INSERT INTO questions (user_id, username, message, status, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING question_id, user_id, username, message, status, category, created_at, answered_at`
	var out dom.Question
	err := r.db.QueryRow(ctx, query, q.UserID, q.Username, q.Message, q.Status, q.Category).Scan(
		&out.ID, &out.UserID, &out.Username, &out.Message, &out.Status, &out.Category,
		&out.CreatedAt, &out.AnsweredAt,
	)
	// A fresh question has no answers yet.
	out.AnswerCount = 0
	return out, err
}

func (r *PGQuestionRepo) GetByID(ctx context.Context, id int64) (dom.Question, error) {
	query := `SELECT` + questionColumns + ` FROM questions q WHERE q.question_id = $1`
	var q dom.Question
	err := r.db.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.UserID, &q.Username, &q.Message, &q.Status, &q.Category,
		&q.CreatedAt, &q.AnsweredAt, &q.AnswerCount,
	)
	return q, err
}

func (r *PGQuestionRepo) List(ctx context.Context, category string) ([]dom.Question, error) {
	query := `SELECT` + questionColumns + ` FROM questions q`
	args := []any{}
	if category != "" && category != "All" {
		query += ` WHERE q.category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY q.created_at DESC, q.question_id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Question
	for rows.Next() {
		var q dom.Question
		if err := rows.Scan(&q.ID, &q.UserID, &q.Username, &q.Message, &q.Status, &q.Category,
			&q.CreatedAt, &q.AnsweredAt, &q.AnswerCount); err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func (r *PGQuestionRepo) UpdateStatus(ctx context.Context, id int64, status dom.Status) (dom.Question, error) {
	// answered_at is set once and never cleared, so repeating Answered is
	// idempotent on the timestamp.
	query := `
		UPDATE questions q SET
			status = $2,
			answered_at = CASE WHEN $2 = 'Answered' AND q.answered_at IS NULL THEN NOW() ELSE q.answered_at END
		WHERE q.question_id = $1
		RETURNING` + questionColumns
	var q dom.Question
	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&q.ID, &q.UserID, &q.Username, &q.Message, &q.Status, &q.Category,
		&q.CreatedAt, &q.AnsweredAt, &q.AnswerCount,
	)
	return q, err
}
