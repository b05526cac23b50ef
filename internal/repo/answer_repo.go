package repo

import (
	"context"

	dom "Dashboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AnswerRepo interface {
	// Create inserts an answer. The questions FK makes an insert against a
	// missing question fail with a foreign-key violation.
	Create(ctx context.Context, a dom.Answer) (dom.Answer, error)
	// ListByQuestion returns answers oldest first.
	ListByQuestion(ctx context.Context, questionID int64) ([]dom.Answer, error)
}

type PGAnswerRepo struct {
	db *pgxpool.Pool
}

func NewPGAnswerRepo(db *pgxpool.Pool) *PGAnswerRepo {
	return &PGAnswerRepo{db: db}
}

func (r *PGAnswerRepo) Create(ctx context.Context, a dom.Answer) (dom.Answer, error) {
	query := `
		INSERT INTO answers (question_id, user_id, username, message)
		VALUES ($1, $2, $3, $4)
		RETURNING answer_id, question_id, user_id, username, message, created_at`
	var out dom.Answer
	err := r.db.QueryRow(ctx, query, a.QuestionID, a.UserID, a.Username, a.Message).Scan(
		&out.ID, &out.QuestionID, &out.UserID, &out.Username, &out.Message, &out.CreatedAt,
	)
	return out, err
}

func (r *PGAnswerRepo) ListByQuestion(ctx context.Context, questionID int64) ([]dom.Answer, error) {
	query := `
		SELECT answer_id, question_id, user_id, username, message, created_at
		FROM answers WHERE question_id = $1
		ORDER BY created_at ASC, answer_id ASC`
	rows, err := r.db.Query(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Answer
	for rows.Next() {
		var a dom.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.UserID, &a.Username, &a.Message, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
