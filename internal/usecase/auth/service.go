package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"job-portal/internal/domain/user"
	"job-portal/internal/infrastructure/mail"
	"job-portal/internal/pkg/jwt"
	"job-portal/internal/pkg/otp"
	"job-portal/internal/upload"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	DefaultOTPTTL     = 10 * time.Minute
)

var (
	ErrMissingFields          = errors.New("missing required fields")
	ErrWeakPassword           = errors.New("password too short")
	ErrInvalidRole            = errors.New("invalid role")
	ErrPhotoRequired          = errors.New("profile photo is required")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidPassword        = errors.New("invalid password")
	ErrSessionRevoked         = errors.New("session revoked")
	ErrOTPInvalid             = errors.New("otp invalid or already used")
	ErrOTPExpired             = errors.New("otp expired")
	ErrMailFailed             = errors.New("could not deliver email")
	ErrInternal               = errors.New("internal error")
)

type Uploader interface {
	Persist(ctx context.Context, fh *multipart.FileHeader, folder string, persist func(upload.Asset) error) (upload.Asset, error)
}

type SessionRegistry interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Photo       *multipart.FileHeader
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User    user.User
	Token   string
	Session jwt.Session
}

type ResetPasswordInput struct {
	Email       string
	OTP         string
	NewPassword string
}

type Service struct {
	users    user.Repository
	tokens   jwt.Service
	sessions SessionRegistry
	uploads  Uploader
	mailer   Mailer
	otpTTL   time.Duration
	logger   *log.Logger

	now func() time.Time
}

type Options struct {
	Sessions SessionRegistry
	Uploads  Uploader
	Mailer   Mailer
	OTPTTL   time.Duration
	Logger   *log.Logger
}

func NewService(users user.Repository, tokens jwt.Service, opts Options) *Service {
	ttl := opts.OTPTTL
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		sessions: opts.Sessions,
		uploads:  opts.Uploads,
		mailer:   opts.Mailer,
		otpTTL:   ttl,
		logger:   opts.Logger,
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	fullName := strings.TrimSpace(in.FullName)
	email := user.NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)
	if fullName == "" || email == "" || phone == "" || in.Password == "" || strings.TrimSpace(in.Role) == "" {
		return user.User{}, ErrMissingFields
	}
	if len(in.Password) < MinPasswordLength {
		return user.User{}, ErrWeakPassword
	}
	role, err := user.ParseRole(in.Role)
	if err != nil {
		return user.User{}, ErrInvalidRole
	}
	if in.Photo == nil {
		return user.User{}, ErrPhotoRequired
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return user.User{}, s.internal("exists by email", err)
	}
	if exists {
		return user.User{}, ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, s.internal("hash password", err)
	}

	u := user.User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Role:         role,
		Profile:      user.Profile{Skills: []string{}},
	}

	_, err = s.uploads.Persist(ctx, in.Photo, upload.FolderUserPhotos, func(a upload.Asset) error {
		u.Profile.ProfilePhotoURL = a.URL
		return s.users.Create(ctx, u)
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			return user.User{}, ErrEmailAlreadyRegistered
		case isUploadError(err):
			return user.User{}, err
		default:
			return user.User{}, s.internal("create user", err)
		}
	}

	created, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return user.User{}, s.internal("reload user", err)
	}
	if s.logger != nil {
		s.logger.Printf("[Auth] registered | user_id=%s role=%s", created.ID, created.Role)
	}
	return created.Sanitized(), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	email := user.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return LoginResult{}, ErrMissingFields
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return LoginResult{}, ErrUserNotFound
		}
		return LoginResult{}, s.internal("get by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return LoginResult{}, ErrInvalidPassword
	}

	tok, sess, err := s.tokens.Issue(u.ID)
	if err != nil {
		return LoginResult{}, s.internal("issue token", err)
	}
	return LoginResult{User: u.Sanitized(), Token: tok, Session: sess}, nil
}

// Authenticate verifies token and rejects sessions revoked by Logout.
// Registry outages fall back to the stateless verification result.
func (s *Service) Authenticate(ctx context.Context, token string) (jwt.Session, error) {
	sess, err := s.tokens.Verify(token)
	if err != nil {
		return jwt.Session{}, err
	}
	if s.sessions == nil || sess.TokenID == "" {
		return sess, nil
	}
	revoked, err := s.sessions.IsRevoked(ctx, sess.TokenID)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("[Auth] session registry lookup failed | jti=%s err=%v", sess.TokenID, err)
		}
		return sess, nil
	}
	if revoked {
		return jwt.Session{}, ErrSessionRevoked
	}
	return sess, nil
}

// Logout revokes the presented token when it is still valid. It never fails:
// clearing the cookie is enough for a client that holds no other copy.
func (s *Service) Logout(ctx context.Context, token string) {
	if s.sessions == nil || strings.TrimSpace(token) == "" {
		return
	}
	sess, err := s.tokens.Verify(token)
	if err != nil || sess.TokenID == "" {
		return
	}
	if err := s.sessions.Revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil && s.logger != nil {
		s.logger.Printf("[Auth] revoke failed | jti=%s err=%v", sess.TokenID, err)
	}
}

func (s *Service) SendOTP(ctx context.Context, email string) error {
	email = user.NormalizeEmail(email)
	if email == "" {
		return ErrMissingFields
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return s.internal("get by email", err)
	}

	code, err := otp.Generate()
	if err != nil {
		return s.internal("generate otp", err)
	}
	expiresAt := s.now().Add(s.otpTTL)
	if err := s.users.SetOTP(ctx, u.ID, code, expiresAt); err != nil {
		return s.internal("store otp", err)
	}

	msg := mail.Message{
		To:      u.Email,
		Subject: "Password reset code",
		Body: fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in %d minutes.\n\nIf you did not ask for a reset, ignore this email.\n",
			u.FullName, code, int(s.otpTTL.Minutes())),
	}
	if s.mailer == nil {
		err = mail.ErrNotConfigured
	} else {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		if cerr := s.users.ClearOTP(context.WithoutCancel(ctx), u.ID); cerr != nil && s.logger != nil {
			s.logger.Printf("[Auth] clear otp after mail failure | user_id=%s err=%v", u.ID, cerr)
		}
		if s.logger != nil {
			s.logger.Printf("[Auth] otp mail failed | user_id=%s err=%v", u.ID, err)
		}
		return ErrMailFailed
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	email := user.NormalizeEmail(in.Email)
	code := strings.TrimSpace(in.OTP)
	if email == "" || code == "" || in.NewPassword == "" {
		return ErrMissingFields
	}
	if len(in.NewPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return s.internal("get by email", err)
	}

	if u.OTPCode == nil || u.OTPExpiresAt == nil {
		return ErrOTPInvalid
	}
	now := s.now()
	if !now.Before(*u.OTPExpiresAt) {
		if err := s.users.ClearOTP(ctx, u.ID); err != nil && s.logger != nil {
			s.logger.Printf("[Auth] clear expired otp | user_id=%s err=%v", u.ID, err)
		}
		return ErrOTPExpired
	}
	if !otp.Equal(*u.OTPCode, code) {
		return ErrOTPInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return s.internal("hash password", err)
	}
	if err := s.users.ResetPassword(ctx, u.ID, *u.OTPCode, string(hash), now); err != nil {
		if errors.Is(err, user.ErrOTPRejected) {
			return ErrOTPInvalid
		}
		return s.internal("reset password", err)
	}
	if s.logger != nil {
		s.logger.Printf("[Auth] password reset | user_id=%s", u.ID)
	}
	return nil
}

func (s *Service) internal(op string, err error) error {
	if s.logger != nil {
		s.logger.Printf("[Auth] %s: %v", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

func isUploadError(err error) bool {
	return errors.Is(err, upload.ErrUnsupportedType) ||
		errors.Is(err, upload.ErrTooLarge) ||
		errors.Is(err, upload.ErrNoFile) ||
		errors.Is(err, upload.ErrUpstream)
}
