package middleware

import (
	"errors"
	"log"

	"job-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       fiber.Map
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data fiber.Map, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

type ErrorMiddleware struct {
	logger *log.Logger
}

func NewErrorMiddleware(logger *log.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("panic recovered | rid=%s path=%s panic=%v", requestID(c), c.OriginalURL(), r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= fiber.StatusInternalServerError {
			m.logger.Printf("request failed | rid=%s method=%s path=%s status=%d err=%v", requestID(c), c.Method(), c.OriginalURL(), status, err)
		}
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, fiber.Map) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode <= 0 || appErr.StatusCode >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(appErr.StatusCode)
		}
		return appErr.StatusCode, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}

func requestID(c fiber.Ctx) string {
	if rid := c.GetRespHeader("X-Request-ID"); rid != "" {
		return rid
	}
	return c.Get("X-Request-ID")
}
