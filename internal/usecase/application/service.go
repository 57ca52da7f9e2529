package application

import (
	"context"
	"errors"
	"fmt"
	"log"

	"job-portal/internal/domain/application"
	"job-portal/internal/domain/job"
	jobuc "job-portal/internal/usecase/job"

	"github.com/google/uuid"
)

const (
	EventApplicationReceived      = "application_received"
	EventApplicationStatusUpdated = "application_status_updated"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrAlreadyApplied      = errors.New("already applied")
	ErrApplicationNotFound = errors.New("application not found")
	ErrNoApplications      = errors.New("no applications")
	ErrStatusRequired      = errors.New("status is required")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrNotJobOwner         = errors.New("not the job owner")
	ErrInternal            = errors.New("internal error")
)

// Notifier pushes an event to every live connection of a user.
type Notifier interface {
	Notify(userID uuid.UUID, event string, data any)
}

type JobApplicants struct {
	Job          job.Job
	Applications []application.Application
}

type Service struct {
	applications application.Repository
	jobs         job.Repository
	notifier     Notifier
	searches     jobuc.SearchInvalidator
	ownerCheck   bool
	logger       *log.Logger
}

type Options struct {
	Notifier Notifier
	// Searches is cleared after an apply; cached searches carry application ids.
	Searches jobuc.SearchInvalidator
	// OwnerCheck restricts status updates to the creator of the job.
	OwnerCheck bool
	Logger     *log.Logger
}

func NewService(applications application.Repository, jobs job.Repository, opts Options) *Service {
	return &Service{
		applications: applications,
		jobs:         jobs,
		notifier:     opts.Notifier,
		searches:     opts.Searches,
		ownerCheck:   opts.OwnerCheck,
		logger:       opts.Logger,
	}
}

func (s *Service) Apply(ctx context.Context, applicantID, jobID uuid.UUID) (application.Application, error) {
	a := application.Application{
		ID:          uuid.New(),
		JobID:       jobID,
		ApplicantID: applicantID,
		Status:      application.StatusPending,
	}
	if err := s.applications.Create(ctx, a); err != nil {
		switch {
		case errors.Is(err, job.ErrNotFound):
			return application.Application{}, ErrJobNotFound
		case errors.Is(err, application.ErrAlreadyApplied):
			return application.Application{}, ErrAlreadyApplied
		default:
			return application.Application{}, s.internal("create application", err)
		}
	}
	jobuc.InvalidateSearches(ctx, s.searches, s.logger)

	created, err := s.applications.GetByID(ctx, a.ID)
	if err != nil {
		return application.Application{}, s.internal("reload application", err)
	}

	if s.notifier != nil {
		if j, err := s.jobs.GetByID(ctx, jobID); err == nil {
			s.notifier.Notify(j.CreatedBy, EventApplicationReceived, map[string]any{
				"applicationId": created.ID,
				"jobId":         j.ID,
				"jobTitle":      j.Title,
				"applicantId":   applicantID,
			})
		} else if s.logger != nil {
			s.logger.Printf("[Applications] notify lookup failed | job_id=%s err=%v", jobID, err)
		}
	}
	return created, nil
}

func (s *Service) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]application.Application, error) {
	items, err := s.applications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, s.internal("list by applicant", err)
	}
	if len(items) == 0 {
		return nil, ErrNoApplications
	}
	return items, nil
}

func (s *Service) ListApplicants(ctx context.Context, jobID uuid.UUID) (JobApplicants, error) {
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return JobApplicants{}, ErrJobNotFound
		}
		return JobApplicants{}, s.internal("get job", err)
	}

	items, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		return JobApplicants{}, s.internal("list by job", err)
	}
	for i := range items {
		if items[i].Applicant != nil {
			u := items[i].Applicant.Sanitized()
			items[i].Applicant = &u
		}
	}
	return JobApplicants{Job: j, Applications: items}, nil
}

func (s *Service) UpdateStatus(ctx context.Context, actorID, applicationID uuid.UUID, rawStatus string) (application.Application, error) {
	status, err := application.ParseStatus(rawStatus)
	if err != nil {
		if errors.Is(err, application.ErrStatusRequired) {
			return application.Application{}, ErrStatusRequired
		}
		return application.Application{}, ErrInvalidStatus
	}

	if s.ownerCheck {
		current, err := s.applications.GetByID(ctx, applicationID)
		if err != nil {
			return application.Application{}, s.mapNotFound("get application", err)
		}
		j, err := s.jobs.GetByID(ctx, current.JobID)
		if err != nil {
			return application.Application{}, s.mapNotFound("get job", err)
		}
		if j.CreatedBy != actorID {
			return application.Application{}, ErrNotJobOwner
		}
	}

	updated, err := s.applications.UpdateStatus(ctx, applicationID, status)
	if err != nil {
		return application.Application{}, s.mapNotFound("update status", err)
	}

	if s.notifier != nil {
		s.notifier.Notify(updated.ApplicantID, EventApplicationStatusUpdated, map[string]any{
			"applicationId": updated.ID,
			"jobId":         updated.JobID,
			"status":        updated.Status,
		})
	}
	return updated, nil
}

func (s *Service) mapNotFound(op string, err error) error {
	if errors.Is(err, application.ErrNotFound) || errors.Is(err, job.ErrNotFound) {
		return ErrApplicationNotFound
	}
	return s.internal(op, err)
}

func (s *Service) internal(op string, err error) error {
	if s.logger != nil {
		s.logger.Printf("[Applications] %s: %v", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
