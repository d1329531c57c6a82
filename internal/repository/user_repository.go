package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/cankorkmaz/city-hotel-garage/internal/model"
)

// UserRepo is the credential store. All username/email lookups are
// case-insensitive and every mutating call persists immediately.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, username, email, password_hash, first_name, last_name,
	role, is_active, created_date, last_login_date, refresh_token_hash, refresh_token_expires_at`

func scanUser(row *sql.Row) (*model.User, error) {
	var (
		u         model.User
		lastLogin sql.NullTime
		tokenHash sql.NullString
		tokenExp  sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName,
		&u.LastName, &u.Role, &u.IsActive, &u.CreatedDate, &lastLogin, &tokenHash, &tokenExp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if lastLogin.Valid {
		u.LastLoginDate = &lastLogin.Time
	}
	if tokenHash.Valid {
		u.RefreshTokenHash = &tokenHash.String
	}
	if tokenExp.Valid {
		u.RefreshTokenExpiry = &tokenExp.Time
	}
	return &u, nil
}

// FindByID fetches a user by primary key.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
}

// FindByUsername fetches a user by username, case-insensitively.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(username) = LOWER(?) LIMIT 1",
		strings.TrimSpace(username)))
}

// FindByEmail fetches a user by email, case-insensitively.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER(?) LIMIT 1",
		strings.TrimSpace(email)))
}

// FindByRefreshToken fetches the user holding an unexpired refresh token hash.
func (r *UserRepo) FindByRefreshToken(ctx context.Context, tokenHash string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+` FROM users
		 WHERE refresh_token_hash = ? AND refresh_token_expires_at > UTC_TIMESTAMP() LIMIT 1`,
		tokenHash))
}

// IsUsernameUnique reports whether no other user holds the username.
// excludeID > 0 skips that user's own row for "update self" checks.
func (r *UserRepo) IsUsernameUnique(ctx context.Context, username string, excludeID uint64) (bool, error) {
	return r.isUnique(ctx, "username", username, excludeID)
}

// IsEmailUnique reports whether no other user holds the email.
func (r *UserRepo) IsEmailUnique(ctx context.Context, email string, excludeID uint64) (bool, error) {
	return r.isUnique(ctx, "email", email, excludeID)
}

func (r *UserRepo) isUnique(ctx context.Context, column, value string, excludeID uint64) (bool, error) {
	q := "SELECT COUNT(*) FROM users WHERE LOWER(" + column + ") = LOWER(?)"
	args := []any{strings.TrimSpace(value)}
	if excludeID > 0 {
		q += " AND id <> ?"
		args = append(args, excludeID)
	}
	var n int64
	if err := r.DB.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// Create inserts the user and populates its ID and CreatedDate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, first_name, last_name, role, is_active)
		 VALUES (?,?,?,?,?,?,?)`,
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	return r.DB.QueryRowContext(ctx,
		"SELECT created_date FROM users WHERE id = ?", u.ID).Scan(&u.CreatedDate)
}

// UpdatePasswordHash replaces the stored password hash.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	return err
}

// UpdateLastLogin stamps the last successful login.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET last_login_date = UTC_TIMESTAMP() WHERE id = ?", id)
	return err
}

// SetRefreshToken stores a refresh token hash and its expiry, replacing any
// previously active token.
func (r *UserRepo) SetRefreshToken(ctx context.Context, id uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ? WHERE id = ?",
		tokenHash, exp, id)
	return err
}

// RotateRefreshToken atomically swaps the stored refresh token, but only when
// the stored hash still equals oldHash. It reports whether the swap happened;
// a false result means another rotation won the race and the supplied token
// generation is stale.
func (r *UserRepo) RotateRefreshToken(ctx context.Context, id uint64, oldHash, newHash string, exp time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ?
		 WHERE id = ? AND refresh_token_hash = ?`,
		newHash, exp, id, oldHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// RevokeRefreshToken clears the stored refresh token. Revoking a user with no
// active token is a no-op, which keeps logout idempotent.
func (r *UserRepo) RevokeRefreshToken(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash = NULL, refresh_token_expires_at = NULL WHERE id = ?", id)
	return err
}

// isDuplicateKey recognizes MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
