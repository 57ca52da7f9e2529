package job

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"job-portal/internal/domain/company"
	"job-portal/internal/domain/job"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrNotRecruiter    = errors.New("only recruiters can post jobs")
	ErrCompanyNotFound = errors.New("company not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrJobsNotFound    = errors.New("jobs not found")
	ErrInternal        = errors.New("internal error")
)

type PostInput struct {
	Title        string
	Description  string
	Requirements []string
	Salary       float64
	Experience   string
	Location     string
	JobType      string
	Position     int
	CompanyID    uuid.UUID
}

type Service struct {
	jobs      job.Repository
	companies company.Repository
	users     user.Repository
	cache     SearchCache
	cacheTTL  time.Duration
	logger    *log.Logger
}

func NewService(jobs job.Repository, companies company.Repository, users user.Repository, cache SearchCache, cacheTTL time.Duration, logger *log.Logger) *Service {
	return &Service{jobs: jobs, companies: companies, users: users, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *Service) Post(ctx context.Context, userID uuid.UUID, in PostInput) (job.Job, error) {
	reqs := make([]string, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	j := job.Job{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Requirements:    reqs,
		Salary:          in.Salary,
		ExperienceLevel: strings.TrimSpace(in.Experience),
		Location:        strings.TrimSpace(in.Location),
		JobType:         strings.TrimSpace(in.JobType),
		Position:        in.Position,
		CompanyID:       in.CompanyID,
		CreatedBy:       userID,
		ApplicationIDs:  []uuid.UUID{},
	}
	if j.Title == "" || j.Description == "" || len(j.Requirements) == 0 || j.Salary <= 0 ||
		j.ExperienceLevel == "" || j.Location == "" || j.JobType == "" || j.Position <= 0 || j.CompanyID == uuid.Nil {
		return job.Job{}, ErrMissingFields
	}

	poster, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return job.Job{}, ErrNotRecruiter
		}
		return job.Job{}, s.internal("get poster", err)
	}
	if poster.Role != user.RoleRecruiter {
		return job.Job{}, ErrNotRecruiter
	}

	if _, err := s.companies.GetByID(ctx, in.CompanyID); err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return job.Job{}, ErrCompanyNotFound
		}
		return job.Job{}, s.internal("get company", err)
	}

	if err := s.jobs.Create(ctx, j); err != nil {
		return job.Job{}, s.internal("create job", err)
	}

	if s.cache != nil {
		InvalidateSearches(ctx, s.cache, s.logger)
	}

	created, err := s.jobs.GetByID(ctx, j.ID)
	if err != nil {
		return job.Job{}, s.internal("reload job", err)
	}
	return created, nil
}

// Search returns jobs whose title or description contains keyword, newest
// first. Results are cached per normalized keyword until a job, application
// or company write invalidates them.
func (s *Service) Search(ctx context.Context, keyword string) ([]job.Job, error) {
	cacheKey := SearchCacheKey(keyword)
	lockKey := SearchLockKey(cacheKey)

	if s.cache != nil {
		var cached []job.Job
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit && len(cached) > 0 {
			if s.logger != nil {
				s.logger.Printf("[Jobs] Cache HIT: %s", cacheKey)
			}
			return cached, nil
		}
		if s.logger != nil {
			s.logger.Printf("[Jobs] Cache MISS: %s", cacheKey)
		}

		ok, err := s.cache.SetIfNotExists(ctx, lockKey, "1", 30*time.Second)
		switch {
		case err == nil && ok:
			defer func() { _ = s.cache.Delete(context.WithoutCancel(ctx), lockKey) }()
		case err == nil && !ok:
			jitter := time.Duration(time.Now().UnixNano()%201) * time.Millisecond
			select {
			case <-time.After(300*time.Millisecond + jitter):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
			if err == nil && hit && len(cached) > 0 {
				return cached, nil
			}
			if s.logger != nil {
				s.logger.Printf("[Jobs] Lock wait fallback: %s", lockKey)
			}
		}
	}

	items, err := s.jobs.Search(ctx, strings.TrimSpace(keyword))
	if err != nil {
		return nil, s.internal("search jobs", err)
	}
	if len(items) == 0 {
		return nil, ErrJobsNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, items, s.cacheTTL); err != nil && s.logger != nil {
			s.logger.Printf("[Jobs] Cache set failed: %s err=%v", cacheKey, err)
		}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, s.internal("get job", err)
	}
	return j, nil
}

func (s *Service) ListByCreator(ctx context.Context, userID uuid.UUID) ([]job.Job, error) {
	items, err := s.jobs.ListByCreator(ctx, userID)
	if err != nil {
		return nil, s.internal("list admin jobs", err)
	}
	if len(items) == 0 {
		return nil, ErrJobsNotFound
	}
	return items, nil
}

func (s *Service) internal(op string, err error) error {
	if s.logger != nil {
		s.logger.Printf("[Jobs] %s: %v", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
