package repository

import (
	"context"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/database/postgres"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

const userColumns = `id, full_name, email, phone_number, password_hash, role,
	bio, skills, resume_url, resume_original_name, resume_key, profile_photo_url,
	otp_code, otp_expires_at, created_at, updated_at`

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	now := time.Now().UTC()
	var id uuid.UUID
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (id, full_name, email, phone_number, password_hash, role,
			bio, skills, resume_url, resume_original_name, resume_key, profile_photo_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		 ON CONFLICT ON CONSTRAINT users_email_key DO NOTHING
		 RETURNING id`,
		u.ID, u.FullName, u.Email, u.PhoneNumber, u.PasswordHash, string(u.Role),
		u.Profile.Bio, nonNilStrings(u.Profile.Skills), u.Profile.ResumeURL, u.Profile.ResumeOriginalName,
		u.Profile.ResumeKey, u.Profile.ProfilePhotoURL, now,
	).Scan(&id)
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users
		 SET full_name = $2, email = $3, phone_number = $4, bio = $5, skills = $6,
		     resume_url = $7, resume_original_name = $8, resume_key = $9, profile_photo_url = $10, updated_at = now()
		 WHERE id = $1`,
		u.ID, u.FullName, u.Email, u.PhoneNumber, u.Profile.Bio, nonNilStrings(u.Profile.Skills),
		u.Profile.ResumeURL, u.Profile.ResumeOriginalName, u.Profile.ResumeKey, u.Profile.ProfilePhotoURL,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "users_email_key") {
			return user.ErrEmailTaken
		}
		return err
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) SetOTP(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	return execOne(ctx, r.db, user.ErrNotFound,
		`UPDATE users SET otp_code = $2, otp_expires_at = $3, updated_at = now() WHERE id = $1`,
		id, code, expiresAt.UTC(),
	)
}

func (r *PostgresUserRepository) ClearOTP(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.db, user.ErrNotFound,
		`UPDATE users SET otp_code = NULL, otp_expires_at = NULL, updated_at = now() WHERE id = $1`,
		id,
	)
}

func (r *PostgresUserRepository) ResetPassword(ctx context.Context, id uuid.UUID, code, passwordHash string, now time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $3, otp_code = NULL, otp_expires_at = NULL, updated_at = now()
		 WHERE id = $1 AND otp_code = $2 AND otp_expires_at > $4`,
		id, code, passwordHash, now.UTC(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return user.ErrOTPRejected
	}
	return nil
}

// execOne runs a statement that must touch at least one row; otherwise it
// returns notFound. q may be the pool or an open transaction.
func execOne(ctx context.Context, q database.Querier, notFound error, query string, args ...any) error {
	n, err := q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func scanUser(row database.Row) (user.User, error) {
	var (
		u    user.User
		role string
	)
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PhoneNumber, &u.PasswordHash, &role,
		&u.Profile.Bio, &u.Profile.Skills, &u.Profile.ResumeURL, &u.Profile.ResumeOriginalName,
		&u.Profile.ResumeKey, &u.Profile.ProfilePhotoURL, &u.OTPCode, &u.OTPExpiresAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
