package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
	// ErrOTPRejected is returned when no live OTP matched at write time.
	ErrOTPRejected = errors.New("otp rejected")
)

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u User) error

	SetOTP(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error
	ClearOTP(ctx context.Context, id uuid.UUID) error
	// ResetPassword stores a new hash and clears the OTP, but only while code
	// is still the stored, unexpired OTP at now.
	ResetPassword(ctx context.Context, id uuid.UUID, code, passwordHash string, now time.Time) error
}
