package handler

import (
	"context"
	"errors"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/job"
	"job-portal/internal/pkg/response"
	jobuc "job-portal/internal/usecase/job"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type JobUsecase interface {
	Post(ctx context.Context, userID uuid.UUID, in jobuc.PostInput) (job.Job, error)
	Search(ctx context.Context, keyword string) ([]job.Job, error)
	Get(ctx context.Context, id uuid.UUID) (job.Job, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]job.Job, error)
}

type JobHandler struct {
	uc JobUsecase
}

func NewJobHandler(uc JobUsecase) *JobHandler {
	return &JobHandler{uc: uc}
}

// RegisterRoutes mounts the job routes; auth guards the recruiter-side ones.
// /admin is registered before /:id so it is not captured as an id.
func (h *JobHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/post", auth, h.Post)
	r.Get("/admin", auth, h.ListAdmin)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
}

func (h *JobHandler) Post(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.PostJobRequest
	if err := bindJSON(c, &req, "Something is missing."); err != nil {
		return err
	}
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Something is missing.", nil, err)
	}

	j, err := h.uc.Post(c.Context(), userID, jobuc.PostInput{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Salary:       float64(req.Salary),
		Experience:   req.Experience,
		Location:     req.Location,
		JobType:      req.JobType,
		Position:     int(req.Position),
		CompanyID:    companyID,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "New job created successfully.", fiber.Map{
		"job": dto.NewJobResponse(j),
	})
}

func (h *JobHandler) List(c fiber.Ctx) error {
	items, err := h.uc.Search(c.Context(), c.Query("keyword"))
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{
		"jobs": dto.NewJobListResponse(items),
	})
}

func (h *JobHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c, "job")
	if err != nil {
		return err
	}

	j, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{
		"job": dto.NewJobResponse(j),
	})
}

func (h *JobHandler) ListAdmin(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListByCreator(c.Context(), userID)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{
		"jobs": dto.NewJobListResponse(items),
	})
}

func mapJobUsecaseError(err error) error {
	switch {
	case errors.Is(err, jobuc.ErrMissingFields):
		return middleware.NewAppError(fiber.StatusBadRequest, "Something is missing.", nil, err)
	case errors.Is(err, jobuc.ErrNotRecruiter):
		return middleware.NewAppError(fiber.StatusForbidden, "Only recruiters can post jobs", nil, err)
	case errors.Is(err, jobuc.ErrCompanyNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Company not found.", nil, err)
	case errors.Is(err, jobuc.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found.", nil, err)
	case errors.Is(err, jobuc.ErrJobsNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Jobs not found.", nil, err)
	default:
		return internalError(err)
	}
}
