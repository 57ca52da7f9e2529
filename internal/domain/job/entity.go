package job

import (
	"context"
	"errors"
	"time"

	"job-portal/internal/domain/company"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID              uuid.UUID
	Title           string
	Description     string
	Requirements    []string
	Salary          float64
	ExperienceLevel string
	Location        string
	JobType         string
	Position        int
	CompanyID       uuid.UUID
	CreatedBy       uuid.UUID
	ApplicationIDs  []uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Company *company.Company
}

type Repository interface {
	Create(ctx context.Context, j Job) error
	// GetByID returns the job with its company populated.
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	// Search matches keyword case-insensitively against title or description,
	// newest first. An empty keyword matches every job.
	Search(ctx context.Context, keyword string) ([]Job, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]Job, error)
}
