package application

import (
	"errors"
	"strings"
	"time"

	"job-portal/internal/domain/job"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var (
	ErrStatusRequired = errors.New("status is required")
	ErrInvalidStatus  = errors.New("invalid status")
)

// ParseStatus case-normalizes s into one of the known statuses.
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", ErrStatusRequired
	}
	switch st := Status(s); st {
	case StatusPending, StatusAccepted, StatusRejected:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Application struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	ApplicantID uuid.UUID
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Job       *job.Job
	Applicant *user.User
}
