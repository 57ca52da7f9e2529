package company

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"job-portal/internal/domain/company"
	"job-portal/internal/upload"
	jobuc "job-portal/internal/usecase/job"

	"github.com/google/uuid"
)

var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrCompanyExists   = errors.New("company already registered")
	ErrCompanyNotFound = errors.New("company not found")
	ErrInternal        = errors.New("internal error")
)

type Uploader interface {
	Persist(ctx context.Context, fh *multipart.FileHeader, folder string, persist func(upload.Asset) error) (upload.Asset, error)
	Discard(ctx context.Context, a upload.Asset)
}

type Input struct {
	Name        string
	Description string
	Location    string
	Website     string
	Logo        *multipart.FileHeader
}

type Service struct {
	companies company.Repository
	uploads   Uploader
	searches  jobuc.SearchInvalidator
	logger    *log.Logger
}

// NewService wires the company use cases. searches may be nil; when set,
// cached job searches are dropped after a company changes since they embed it.
func NewService(companies company.Repository, uploads Uploader, searches jobuc.SearchInvalidator, logger *log.Logger) *Service {
	return &Service{companies: companies, uploads: uploads, searches: searches, logger: logger}
}

func (s *Service) Register(ctx context.Context, ownerID uuid.UUID, in Input) (company.Company, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if name == "" || desc == "" {
		return company.Company{}, ErrMissingFields
	}

	c := company.Company{
		ID:          uuid.New(),
		Name:        name,
		Description: desc,
		Location:    strings.TrimSpace(in.Location),
		Website:     strings.TrimSpace(in.Website),
		UserID:      ownerID,
	}

	err := s.withLogo(ctx, in.Logo, &c, func() error {
		return s.companies.Create(ctx, c)
	})
	if err != nil {
		if errors.Is(err, company.ErrNameTaken) {
			return company.Company{}, ErrCompanyExists
		}
		return company.Company{}, s.mapErr("create company", err)
	}

	created, err := s.companies.GetByID(ctx, c.ID)
	if err != nil {
		return company.Company{}, s.mapErr("reload company", err)
	}
	return created, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]company.Company, error) {
	items, err := s.companies.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.mapErr("list companies", err)
	}
	if len(items) == 0 {
		return nil, ErrCompanyNotFound
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (company.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return company.Company{}, s.mapErr("get company", err)
	}
	return c, nil
}

// Update edits a company owned by ownerID. Companies owned by someone else
// are reported as not found.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, in Input) (company.Company, error) {
	c, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return company.Company{}, s.mapErr("get company", err)
	}
	if c.UserID != ownerID {
		return company.Company{}, ErrCompanyNotFound
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(in.Description); v != "" {
		c.Description = v
	}
	if v := strings.TrimSpace(in.Location); v != "" {
		c.Location = v
	}
	if v := strings.TrimSpace(in.Website); v != "" {
		c.Website = v
	}

	err = s.withLogo(ctx, in.Logo, &c, func() error {
		return s.companies.Update(ctx, c)
	})
	if err != nil {
		if errors.Is(err, company.ErrNameTaken) {
			return company.Company{}, ErrCompanyExists
		}
		return company.Company{}, s.mapErr("update company", err)
	}
	jobuc.InvalidateSearches(ctx, s.searches, s.logger)

	updated, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return company.Company{}, s.mapErr("reload company", err)
	}
	return updated, nil
}

// withLogo stores a new logo before save runs. The logo it replaces is
// removed once save succeeds.
func (s *Service) withLogo(ctx context.Context, logo *multipart.FileHeader, c *company.Company, save func() error) error {
	if logo == nil {
		return save()
	}
	previous := c.LogoKey
	stored, err := s.uploads.Persist(ctx, logo, upload.FolderCompanyLogos, func(a upload.Asset) error {
		c.LogoURL = a.URL
		c.LogoKey = a.Key
		return save()
	})
	if err != nil {
		return err
	}
	if previous != "" && previous != stored.Key {
		s.uploads.Discard(ctx, upload.Asset{Key: previous})
	}
	return nil
}

func (s *Service) mapErr(op string, err error) error {
	switch {
	case errors.Is(err, company.ErrNotFound):
		return ErrCompanyNotFound
	case errors.Is(err, upload.ErrUnsupportedType),
		errors.Is(err, upload.ErrTooLarge),
		errors.Is(err, upload.ErrUpstream):
		return err
	}
	if s.logger != nil {
		s.logger.Printf("[Company] %s: %v", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
