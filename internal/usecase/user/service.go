package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"job-portal/internal/domain/user"
	"job-portal/internal/upload"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidProfile         = errors.New("invalid profile")
	ErrInternal               = errors.New("internal error")
)

type Uploader interface {
	Persist(ctx context.Context, fh *multipart.FileHeader, folder string, persist func(upload.Asset) error) (upload.Asset, error)
	Discard(ctx context.Context, a upload.Asset)
}

// UpdateProfileInput carries a partial update. Empty strings leave the
// stored value untouched.
type UpdateProfileInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Bio         string
	Skills      string
	Resume      *multipart.FileHeader
}

type Service struct {
	users   user.Repository
	uploads Uploader
	logger  *log.Logger
}

func NewService(users user.Repository, uploads Uploader, logger *log.Logger) *Service {
	return &Service{users: users, uploads: uploads, logger: logger}
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, s.internal("get user", err)
	}

	if v := strings.TrimSpace(in.FullName); v != "" {
		usr.FullName = v
	}
	if v := strings.TrimSpace(in.PhoneNumber); v != "" {
		usr.PhoneNumber = v
	}
	if v := strings.TrimSpace(in.Bio); v != "" {
		usr.Profile.Bio = v
	}
	if strings.TrimSpace(in.Skills) != "" {
		usr.Profile.Skills = user.ParseSkills(in.Skills)
	}
	if email := user.NormalizeEmail(in.Email); email != "" && email != usr.Email {
		exists, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return user.User{}, s.internal("exists by email", err)
		}
		if exists {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		usr.Email = email
	}

	save := func() error {
		if err := usr.Profile.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		}
		return s.users.Update(ctx, usr)
	}

	if in.Resume != nil {
		previous := usr.Profile.ResumeKey
		var stored upload.Asset
		stored, err = s.uploads.Persist(ctx, in.Resume, upload.FolderResumes, func(a upload.Asset) error {
			usr.Profile.ResumeURL = a.URL
			usr.Profile.ResumeOriginalName = a.OriginalName
			usr.Profile.ResumeKey = a.Key
			return save()
		})
		if err == nil && previous != "" && previous != stored.Key {
			s.uploads.Discard(ctx, upload.Asset{Key: previous})
		}
	} else {
		err = save()
	}
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			return user.User{}, ErrEmailAlreadyRegistered
		case errors.Is(err, user.ErrNotFound):
			return user.User{}, ErrUserNotFound
		case errors.Is(err, ErrInvalidProfile),
			errors.Is(err, upload.ErrUnsupportedType),
			errors.Is(err, upload.ErrTooLarge),
			errors.Is(err, upload.ErrUpstream):
			return user.User{}, err
		default:
			return user.User{}, s.internal("update user", err)
		}
	}

	updated, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, s.internal("reload user", err)
	}
	return updated.Sanitized(), nil
}

func (s *Service) internal(op string, err error) error {
	if s.logger != nil {
		s.logger.Printf("[User] %s: %v", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
