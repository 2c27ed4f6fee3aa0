// Package response writes the JSON envelope every API endpoint answers with.
package response

import "github.com/gofiber/fiber/v3"

// SemanticResponse is the envelope: the HTTP status repeated in the body, a
// human readable message and an optional payload.
type SemanticResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

const (
	MessageOK                  = "ok"
	MessageInternalServerError = "internal server error"
)

var statusMessages = map[int]string{
	fiber.StatusOK:                  MessageOK,
	fiber.StatusCreated:             "created",
	fiber.StatusBadRequest:          "bad request",
	fiber.StatusUnauthorized:        "unauthorized",
	fiber.StatusForbidden:           "forbidden",
	fiber.StatusNotFound:            "not found",
	fiber.StatusConflict:            "conflict",
	fiber.StatusUnprocessableEntity: "unprocessable entity",
	fiber.StatusInternalServerError: MessageInternalServerError,
	fiber.StatusBadGateway:          "bad gateway",
	fiber.StatusServiceUnavailable:  "service unavailable",
}

// Message is the envelope message used when a caller supplies none.
func Message(status int) string {
	if m, ok := statusMessages[status]; ok {
		return m
	}
	switch {
	case status >= 500:
		return MessageInternalServerError
	case status >= 400:
		return "error"
	default:
		return MessageOK
	}
}

func Success(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

// Error writes a failure envelope. Callers decide what data is safe to expose.
func Error(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data)
}

func write(c fiber.Ctx, status int, message string, data interface{}) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = Message(status)
	}
	return c.Status(status).JSON(SemanticResponse{Status: status, Message: message, Data: data})
}
