package handler

import (
	"context"
	"errors"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/company"
	"job-portal/internal/pkg/response"
	companyuc "job-portal/internal/usecase/company"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CompanyUsecase interface {
	Register(ctx context.Context, ownerID uuid.UUID, in companyuc.Input) (company.Company, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]company.Company, error)
	Get(ctx context.Context, id uuid.UUID) (company.Company, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, in companyuc.Input) (company.Company, error)
}

type CompanyHandler struct {
	uc CompanyUsecase
}

func NewCompanyHandler(uc CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

func (h *CompanyHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/register", auth, h.Register)
	r.Get("/", auth, h.List)
	r.Get("/:id", auth, h.Get)
	r.Put("/:id", auth, h.Update)
}

func (h *CompanyHandler) Register(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	co, err := h.uc.Register(c.Context(), userID, companyInput(c))
	if err != nil {
		return mapCompanyUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Company registered successfully.", fiber.Map{
		"company": dto.NewCompanyResponse(co),
	})
}

func (h *CompanyHandler) List(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	items, err := h.uc.List(c.Context(), userID)
	if err != nil {
		if errors.Is(err, companyuc.ErrCompanyNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Companies not found.", nil, err)
		}
		return mapCompanyUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "", fiber.Map{
		"companies": dto.NewCompanyListResponse(items),
	})
}

func (h *CompanyHandler) Get(c fiber.Ctx) error {
	id, err := pathID(c, "company")
	if err != nil {
		return err
	}

	co, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapCompanyUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "", fiber.Map{
		"company": dto.NewCompanyResponse(co),
	})
}

func (h *CompanyHandler) Update(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "company")
	if err != nil {
		return err
	}

	co, err := h.uc.Update(c.Context(), userID, id, companyInput(c))
	if err != nil {
		return mapCompanyUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Company information updated.", fiber.Map{
		"company": dto.NewCompanyResponse(co),
	})
}

func companyInput(c fiber.Ctx) companyuc.Input {
	return companyuc.Input{
		Name:        c.FormValue("companyName", c.FormValue("name")),
		Description: c.FormValue("description"),
		Location:    c.FormValue("location"),
		Website:     c.FormValue("website"),
		Logo:        optionalFile(c, "logo"),
	}
}

func mapCompanyUsecaseError(err error) error {
	if appErr, ok := uploadError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, companyuc.ErrMissingFields):
		return middleware.NewAppError(fiber.StatusBadRequest, "Company name and description are required.", nil, err)
	case errors.Is(err, companyuc.ErrCompanyExists):
		return middleware.NewAppError(fiber.StatusConflict, "You can't register same company.", nil, err)
	case errors.Is(err, companyuc.ErrCompanyNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Company not found.", nil, err)
	default:
		return internalError(err)
	}
}
