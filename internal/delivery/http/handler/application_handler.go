package handler

import (
	"context"
	"errors"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/application"
	"job-portal/internal/pkg/response"
	appuc "job-portal/internal/usecase/application"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationUsecase interface {
	Apply(ctx context.Context, applicantID, jobID uuid.UUID) (application.Application, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]application.Application, error)
	ListApplicants(ctx context.Context, jobID uuid.UUID) (appuc.JobApplicants, error)
	UpdateStatus(ctx context.Context, actorID, applicationID uuid.UUID, status string) (application.Application, error)
}

type ApplicationHandler struct {
	uc ApplicationUsecase
}

func NewApplicationHandler(uc ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/apply/:id", auth, h.Apply)
	r.Get("/get", auth, h.ListApplied)
	r.Get("/:id/applicants", auth, h.ListApplicants)
	r.Patch("/status/:id/update", auth, h.UpdateStatus)
	r.Post("/status/:id/update", auth, h.UpdateStatus)
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "job")
	if err != nil {
		return err
	}

	a, err := h.uc.Apply(c.Context(), userID, jobID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Job applied successfully.", fiber.Map{
		"application": dto.NewApplicationResponse(a),
	})
}

func (h *ApplicationHandler) ListApplied(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListByApplicant(c.Context(), userID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{
		"applications": dto.NewApplicationListResponse(items),
	})
}

func (h *ApplicationHandler) ListApplicants(c fiber.Ctx) error {
	jobID, err := pathID(c, "job")
	if err != nil {
		return err
	}

	res, err := h.uc.ListApplicants(c.Context(), jobID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{
		"job": dto.JobApplicantsResponse{
			JobResponse:  dto.NewJobResponse(res.Job),
			Applications: dto.NewApplicationListResponse(res.Applications),
		},
	})
}

func (h *ApplicationHandler) UpdateStatus(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "application")
	if err != nil {
		return err
	}

	var req dto.UpdateStatusRequest
	if err := bindJSON(c, &req, "Status is required"); err != nil {
		return err
	}

	a, err := h.uc.UpdateStatus(c.Context(), userID, id, req.Status)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Status updated successfully.", fiber.Map{
		"application": dto.NewApplicationResponse(a),
	})
}

func mapApplicationUsecaseError(err error) error {
	switch {
	case errors.Is(err, appuc.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found.", nil, err)
	case errors.Is(err, appuc.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusConflict, "You have already applied for this job.", nil, err)
	case errors.Is(err, appuc.ErrNoApplications):
		return middleware.NewAppError(fiber.StatusNotFound, "No applications found", nil, err)
	case errors.Is(err, appuc.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found.", nil, err)
	case errors.Is(err, appuc.ErrStatusRequired):
		return middleware.NewAppError(fiber.StatusBadRequest, "Status is required", nil, err)
	case errors.Is(err, appuc.ErrInvalidStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Status must be pending, accepted or rejected", nil, err)
	case errors.Is(err, appuc.ErrNotJobOwner):
		return middleware.NewAppError(fiber.StatusForbidden, "Only the job owner can update this application", nil, err)
	default:
		return internalError(err)
	}
}
