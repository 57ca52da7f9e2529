package handler

import (
	"errors"
	"mime/multipart"

	"job-portal/internal/delivery/http/middleware"
	"job-portal/internal/pkg/response"
	"job-portal/internal/pkg/validate"
	"job-portal/internal/upload"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func currentUserID(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "User is not authenticated", nil, nil)
	}
	return id, nil
}

// pathID parses the uuid route param. entity names it in the 400 message,
// e.g. "Invalid job ID format.".
func pathID(c fiber.Ctx, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+entity+" ID format.", nil, err)
	}
	return id, nil
}

// bindJSON decodes and validates the body. Validation failures are reported
// with missingMsg, decode failures with a generic message.
func bindJSON(c fiber.Ctx, out any, missingMsg string) error {
	if err := c.Bind().Body(out); err != nil {
		var verr *validate.Error
		if errors.As(err, &verr) {
			return middleware.NewAppError(fiber.StatusBadRequest, missingMsg, nil, err)
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	return nil
}

func optionalFile(c fiber.Ctx, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Size == 0 {
		return nil
	}
	return fh
}

// uploadError maps upload pipeline failures; ok is false for anything else.
func uploadError(err error) (*middleware.AppError, bool) {
	switch {
	case errors.Is(err, upload.ErrUnsupportedType):
		return middleware.NewAppError(fiber.StatusBadRequest, "Only images and PDF are allowed!", nil, err), true
	case errors.Is(err, upload.ErrTooLarge):
		return middleware.NewAppError(fiber.StatusBadRequest, "File is too large", nil, err), true
	case errors.Is(err, upload.ErrNoFile):
		return middleware.NewAppError(fiber.StatusBadRequest, "File is required", nil, err), true
	case errors.Is(err, upload.ErrUpstream):
		return middleware.NewAppError(fiber.StatusInternalServerError, "File upload failed", nil, err), true
	}
	return nil, false
}

func internalError(err error) error {
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
