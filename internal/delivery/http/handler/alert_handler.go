package handler

import (
	"job-scraping/internal/delivery/http/dto"
	"job-scraping/internal/delivery/http/middleware"
	"job-scraping/internal/pkg/response"
	"job-scraping/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AlertHandler struct {
	uc usecase.AlertUsecase
}

func NewAlertHandler(uc usecase.AlertUsecase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

func (h *AlertHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/alerts", auth, h.Create)
	r.Get("/alerts", auth, h.List)
	r.Delete("/alerts/:id", auth, h.Delete)
}

func (h *AlertHandler) Create(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateAlertRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.uc.CreateAlert(c.Context(), userID, usecase.CreateAlertInput{
		Keyword:    req.Keyword,
		Location:   req.Location,
		MinSalary:  req.MinSalary,
		Experience: req.Experience,
	})
	if err != nil {
		return usecaseError(err, alertMessages)
	}
	return response.Success(c, fiber.StatusCreated, "Alert created", dto.NewAlertResponse(a))
}

func (h *AlertHandler) List(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	items, err := h.uc.ListAlerts(c.Context(), userID)
	if err != nil {
		return usecaseError(err, alertMessages)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAlertResponses(items))
}

func (h *AlertHandler) Delete(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	alertID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid alert id", nil, err)
	}
	if err := h.uc.DeleteAlert(c.Context(), userID, alertID); err != nil {
		return usecaseError(err, alertMessages)
	}
	return response.Success(c, fiber.StatusOK, "Alert deleted", nil)
}
