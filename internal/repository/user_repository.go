package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// User mirrors the 'users' table.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	IsVerified   bool
	RefreshToken sql.NullString
	AvatarURL    sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,is_verified,refresh_token,avatar_url,created_at,updated_at"

// Create inserts an unverified user and returns the stored row. A
// duplicate email surfaces as ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (User, error) {
	email = strings.TrimSpace(email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?,?)",
		email, passwordHash)
	if err != nil {
		if isDuplicateKey(err) {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.TrimSpace(email)
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsVerified, &u.RefreshToken, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsVerified, &u.RefreshToken, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ConfirmEmail flips the verification flag. The flag is monotonic: running
// this against an already-verified user is a no-op, which makes token
// redemption idempotent.
func (r *UserRepo) ConfirmEmail(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_verified=1 WHERE id=?", id)
	return err
}

// UpdateRefreshToken replaces the stored refresh credential. Passing nil
// clears it (logout). Each account holds at most one live credential, so
// a successful login implicitly invalidates the previous session.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, id uint64, token *string) error {
	var v sql.NullString
	if token != nil {
		v = sql.NullString{String: *token, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=?", v, id)
	return err
}

// UpdateAvatar overwrites the avatar reference unconditionally.
func (r *UserRepo) UpdateAvatar(ctx context.Context, id uint64, url string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar_url=? WHERE id=?", url, id)
	return err
}
