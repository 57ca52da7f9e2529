package user

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
)

var (
	ErrInvalidRole = errors.New("invalid role")
	ErrInvalidURL  = errors.New("invalid url")
)

var urlRe = regexp.MustCompile(`^(ftp|http|https)://[^ "]+$`)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleRecruiter:
		return RoleRecruiter, nil
	default:
		return "", ErrInvalidRole
	}
}

type Profile struct {
	Bio                string
	Skills             []string
	ResumeURL          string
	ResumeKey          string
	ResumeOriginalName string
	ProfilePhotoURL    string
}

// Validate checks the stored asset links. Empty links are allowed.
func (p Profile) Validate() error {
	for _, u := range []string{p.ResumeURL, p.ProfilePhotoURL} {
		if u != "" && !urlRe.MatchString(u) {
			return ErrInvalidURL
		}
	}
	return nil
}

type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	Profile      Profile

	OTPCode      *string
	OTPExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized drops the credential and one-time-password state.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.OTPCode = nil
	u.OTPExpiresAt = nil
	return u
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
