package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultExpiresIn = 24 * time.Hour

var (
	ErrTokenMissing   = errors.New("token missing")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenMalformed = errors.New("token payload malformed")
)

type Claims struct {
	UserID string `json:"userId"`

	jwtlib.RegisteredClaims
}

// Session is what a verified token resolves to.
type Session struct {
	UserID    uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

// Service issues and verifies session tokens. Verification never touches the
// database: a user removed after issuance stays authenticated until expiry
// unless a session registry revokes the token id.
type Service interface {
	Issue(userID uuid.UUID) (string, Session, error)
	Verify(token string) (Session, error)
}

type HMACService struct {
	secret    []byte
	expiresIn time.Duration

	now func() time.Time
}

func NewHMACService(secret string, expiresIn time.Duration) *HMACService {
	if expiresIn <= 0 {
		expiresIn = DefaultExpiresIn
	}
	return &HMACService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

func (s *HMACService) ExpiresIn() time.Duration {
	return s.expiresIn
}

func (s *HMACService) Issue(userID uuid.UUID) (string, Session, error) {
	if len(s.secret) == 0 || userID == uuid.Nil {
		return "", Session{}, ErrTokenInvalid
	}

	now := s.now().UTC()
	exp := now.Add(s.expiresIn)
	jti := uuid.NewString()

	c := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", Session{}, err
	}
	return signed, Session{UserID: userID, TokenID: jti, ExpiresAt: exp.Truncate(time.Second)}, nil
}

func (s *HMACService) Verify(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrTokenMissing
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
	)

	var c Claims
	tok, err := p.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Session{}, ErrTokenExpired
		}
		return Session{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Session{}, ErrTokenInvalid
	}

	userID, err := uuid.Parse(c.UserID)
	if err != nil || userID == uuid.Nil {
		return Session{}, ErrTokenMalformed
	}

	sess := Session{UserID: userID, TokenID: c.ID}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	return sess, nil
}
