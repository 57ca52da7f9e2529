package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("already applied")
)

type Repository interface {
	// Create inserts a pending application and appends its id to the job in
	// one transaction. Returns job.ErrNotFound or ErrAlreadyApplied.
	Create(ctx context.Context, a Application) error
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (Application, error)
	// ListByApplicant returns applications with job and company populated, newest first.
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]Application, error)
	// ListByJob returns applications with the applicant populated, newest first.
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]Application, error)
}
