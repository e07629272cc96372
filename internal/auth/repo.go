package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockmaster-erp/stockmaster/internal/platform/httpx"
	"github.com/stockmaster-erp/stockmaster/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	FindByLoginID(ctx context.Context, loginID string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error

	InsertOTP(ctx context.Context, otp PasswordResetOTP) (PasswordResetOTP, error)
	FindOTP(ctx context.Context, userID int64, code string) (PasswordResetOTP, error)
	MarkOTPUsed(ctx context.Context, otpID int64) error
}

const userColumns = `id, login_id, email, password_hash, is_active, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) CreateUser(ctx context.Context, user User) (User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (login_id, email, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, NOW(), NOW())
		RETURNING `+userColumns,
		user.LoginID, user.Email, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		return User{}, mapUserPgError(err)
	}
	return created, nil
}

func (r *PGRepository) FindByLoginID(ctx context.Context, loginID string) (User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE login_id = $1`, loginID)
	return findUser(row)
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return findUser(row)
}

func (r *PGRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, userID)
	if err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) InsertOTP(ctx context.Context, otp PasswordResetOTP) (PasswordResetOTP, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO password_reset_otps (user_id, code, expires_at, used, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
		RETURNING id, user_id, code, expires_at, used, created_at`,
		otp.UserID, otp.Code, otp.ExpiresAt)
	return scanOTP(row)
}

// FindOTP returns the most recent matching code regardless of its used or
// expired state so the service can distinguish the rejection reason.
func (r *PGRepository) FindOTP(ctx context.Context, userID int64, code string) (PasswordResetOTP, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, code, expires_at, used, created_at
		FROM password_reset_otps
		WHERE user_id = $1 AND code = $2
		ORDER BY created_at DESC
		LIMIT 1`,
		userID, code)
	otp, err := scanOTP(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PasswordResetOTP{}, shared.ErrNotFound
		}
		return PasswordResetOTP{}, err
	}
	return otp, nil
}

func (r *PGRepository) MarkOTPUsed(ctx context.Context, otpID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE password_reset_otps SET used = TRUE WHERE id = $1`, otpID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.LoginID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func findUser(row rowScanner) (User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func scanOTP(row rowScanner) (PasswordResetOTP, error) {
	var o PasswordResetOTP
	err := row.Scan(&o.ID, &o.UserID, &o.Code, &o.ExpiresAt, &o.Used, &o.CreatedAt)
	return o, err
}

func mapUserPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_login_id_key":
			return shared.FieldErrors{"login_id": "already taken"}
		case "users_email_key":
			return shared.FieldErrors{"email": "already registered"}
		}
		return fmt.Errorf("%w: user", httpx.ErrDuplicate)
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
