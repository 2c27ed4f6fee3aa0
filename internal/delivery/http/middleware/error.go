package middleware

import (
	"errors"

	"job-scraping/internal/pkg/response"
	"job-scraping/internal/pkg/serrors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AppError is a failure with a client-facing message. A zero StatusCode is
// derived from the serrors kind found in Cause.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// Public attaches a client-facing message to err and lets its kind pick the
// status.
func Public(err error, message string) *AppError {
	return &AppError{Message: message, Cause: err}
}

// StatusForKind maps a failure kind onto an HTTP status.
func StatusForKind(k serrors.Kind) int {
	switch k {
	case serrors.ErrBadRequest, serrors.ErrParse:
		return fiber.StatusBadRequest
	case serrors.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case serrors.ErrNotFound:
		return fiber.StatusNotFound
	case serrors.ErrConflict:
		return fiber.StatusConflict
	case serrors.ErrUnprocessable:
		return fiber.StatusUnprocessableEntity
	case serrors.ErrTransport:
		return fiber.StatusBadGateway
	case serrors.ErrNetwork, serrors.ErrRenderTimeout:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(logger *zap.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Path()))
				err = response.Error(c, fiber.StatusInternalServerError, "", nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
		return response.Error(c, status, msg, data)
	}
}

// normalizeError decides what a failed request shows the client. A 500 never
// leaks its message or data; other 5xx keep a message but drop data.
func normalizeError(err error) (int, string, interface{}) {
	status := fiber.StatusInternalServerError
	var msg string
	var data interface{}

	var appErr *AppError
	var fiberErr *fiber.Error
	switch {
	case err == nil:
	case errors.As(err, &appErr):
		status, msg, data = appErr.StatusCode, appErr.Message, appErr.Data
		if status == 0 {
			status = StatusForKind(serrors.KindOf(appErr.Cause))
		}
	case errors.As(err, &fiberErr):
		status, msg = fiberErr.Code, fiberErr.Message
		if status >= 500 {
			msg = ""
		}
	default:
		status = StatusForKind(serrors.KindOf(err))
	}

	if status < 400 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if status == fiber.StatusInternalServerError {
		return status, response.MessageInternalServerError, nil
	}
	if msg == "" {
		msg = response.Message(status)
	}
	if status > 500 {
		data = nil
	}
	return status, msg, data
}
