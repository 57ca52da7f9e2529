package response

import "github.com/gofiber/fiber/v3"

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageInternalServerError = "Internal Server Error"
	MessageError               = "error"
)

// Success writes {"success": true, "message": ..., <payload keys>...}.
// Payload keys never override success or message.
func Success(c fiber.Ctx, status int, message string, payload fiber.Map) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(envelope(true, message, payload))
}

// Error writes {"success": false, "message": ...}. The message is always set.
func Error(c fiber.Ctx, status int, message string, payload fiber.Map) error {
	st := normalizeStatus(status)
	return c.Status(st).JSON(envelope(false, normalizeMessage(message, st), payload))
}

func envelope(success bool, message string, payload fiber.Map) fiber.Map {
	body := make(fiber.Map, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = success
	if message != "" {
		body["message"] = message
	} else {
		delete(body, "message")
	}
	return body
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func normalizeMessage(message string, status int) string {
	if message != "" {
		return message
	}
	return DefaultMessageForStatus(status)
}

func DefaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusOK, fiber.StatusCreated:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
