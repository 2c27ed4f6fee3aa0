package handler

import (
	"errors"
	"reflect"
	"strings"

	"job-scraping/internal/delivery/http/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
// Failures come back as a 400 AppError listing the offending fields.
func bindAndValidate(c fiber.Ctx, req interface{}) error {
	if err := c.Bind().Body(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return validateRequest(req)
}

func bindQueryAndValidate(c fiber.Ctx, req interface{}) error {
	if err := c.Bind().Query(req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid query parameters", nil, err)
	}
	return validateRequest(req)
}

func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]fieldError, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag()})
			}
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", fields, err)
		}
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return nil
}

func requireUser(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return id, nil
}
