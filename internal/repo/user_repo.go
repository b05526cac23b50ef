package repo

import (
	"context"

	dom "Dashboard/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence. Users are created at registration
// and read-only afterwards.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	Create(ctx context.Context, username, email, passwordHash string, isAdmin bool) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByUsername returns the user by username (case-sensitive).
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, is_admin, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

// GetByEmail returns the user by email.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, is_admin, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, username, email, passwordHash string, isAdmin bool) (dom.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, username, email, password_hash, is_admin, created_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, username, email, passwordHash, isAdmin).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt,
	)
	return u, err
}
