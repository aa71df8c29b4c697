package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/medekit/clinic-core/internal/credential"
	"github.com/medekit/clinic-core/internal/user/entity"
)

// UserRepo provides data access for the users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table if not exists (idempotent).
// Convenience for early development; prefer migrations in production.
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE EXTENSION IF NOT EXISTS citext;
CREATE TABLE IF NOT EXISTS users (
  id BIGSERIAL PRIMARY KEY,
  email CITEXT UNIQUE NOT NULL,
  full_name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL,
  active BOOLEAN NOT NULL DEFAULT true,
  password_hash TEXT NOT NULL,
  password_scheme TEXT NOT NULL DEFAULT 'bcrypt',
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

const userColumns = `id, email, full_name, role, active, password_hash, password_scheme, created_at, updated_at`

// Create inserts a new user row and returns its ID.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) (int64, error) {
	const q = `INSERT INTO users (email, full_name, role, active, password_hash, password_scheme)
	           VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`
	if err := r.db.GetContext(ctx, &u.ID, q, u.Email, u.FullName, u.Role, u.Active, u.PasswordHash, u.PasswordScheme); err != nil {
		return 0, err
	}
	return u.ID, nil
}

// GetByEmail returns the user for an email (case-insensitive via citext) or
// sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, email); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByID fetches a full user row.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	var row entity.User
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns users ordered by ID with offset/limit pagination.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows := []entity.User{}
	if err := r.db.SelectContext(ctx, &rows, q, limit, offset); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdatePassword replaces the stored credential and its scheme tag. Used by
// the legacy-hash migration on login and by password changes.
func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string, scheme credential.Scheme) error {
	const q = `UPDATE users SET password_hash=$2, password_scheme=$3, updated_at=NOW() WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, id, hash, scheme)
	return err
}

// UpdateRole sets the user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, id int64, role entity.Role) error {
	const q = `UPDATE users SET role=$2, updated_at=NOW() WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, id, role)
	return err
}

// SetActive toggles the active flag. Accounts are deactivated, never
// hard-deleted, so issued tokens for them still resolve and get rejected by
// the active check.
func (r *UserRepo) SetActive(ctx context.Context, id int64, active bool) error {
	const q = `UPDATE users SET active=$2, updated_at=NOW() WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, id, active)
	return err
}
