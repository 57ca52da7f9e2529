package handler

import (
	"context"
	"errors"

	"job-portal/internal/delivery/http/dto"
	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/domain/user"
	"job-portal/internal/pkg/response"
	useruc "job-portal/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserUsecase interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, in useruc.UpdateProfileInput) (user.User, error)
}

type UserHandler struct {
	uc UserUsecase
}

func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/profile/update", auth, h.UpdateProfile)
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	usr, err := h.uc.UpdateProfile(c.Context(), userID, useruc.UpdateProfileInput{
		FullName:    c.FormValue("fullName"),
		Email:       c.FormValue("email"),
		PhoneNumber: c.FormValue("phoneNumber"),
		Bio:         c.FormValue("bio"),
		Skills:      c.FormValue("skills"),
		Resume:      optionalFile(c, "file"),
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Profile updated successfully.", fiber.Map{
		"user": dto.NewUserResponse(usr),
	})
}

func mapUserUsecaseError(err error) error {
	if appErr, ok := uploadError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, useruc.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found.", nil, err)
	case errors.Is(err, useruc.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "User already exist with this email.", nil, err)
	case errors.Is(err, useruc.ErrInvalidProfile):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid profile", nil, err)
	default:
		return internalError(err)
	}
}
