package handler

import (
	"job-scraping/internal/delivery/http/dto"
	"job-scraping/internal/pkg/response"
	"job-scraping/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SavedJobHandler struct {
	uc usecase.SavedJobUsecase
}

func NewSavedJobHandler(uc usecase.SavedJobUsecase) *SavedJobHandler {
	return &SavedJobHandler{uc: uc}
}

func (h *SavedJobHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/saved-jobs", auth, h.Save)
	r.Get("/saved-jobs", auth, h.List)
	r.Delete("/saved-jobs", auth, h.Clear)
	r.Post("/saved-jobs/send", auth, h.Send)
}

func (h *SavedJobHandler) Save(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.SaveJobRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	saved, err := h.uc.SaveJob(c.Context(), userID, usecase.SaveJobInput{
		Title:    req.Title,
		Company:  req.Company,
		Location: req.Location,
		Salary:   req.Salary,
		Source:   req.Source,
		Link:     req.Link,
	})
	if err != nil {
		return usecaseError(err, savedJobMessages)
	}
	return response.Success(c, fiber.StatusCreated, "Job saved", dto.NewSavedJobResponse(saved))
}

func (h *SavedJobHandler) List(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	items, err := h.uc.ListSavedJobs(c.Context(), userID)
	if err != nil {
		return usecaseError(err, savedJobMessages)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSavedJobResponses(items))
}

func (h *SavedJobHandler) Clear(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	n, err := h.uc.ClearSavedJobs(c.Context(), userID)
	if err != nil {
		return usecaseError(err, savedJobMessages)
	}
	return response.Success(c, fiber.StatusOK, "Saved jobs cleared", dto.ClearSavedJobsResponse{Deleted: n})
}

func (h *SavedJobHandler) Send(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	n, err := h.uc.SendSavedJobs(c.Context(), userID)
	if err != nil {
		return usecaseError(err, savedJobMessages)
	}
	return response.Success(c, fiber.StatusOK, "Saved jobs sent", dto.SendSavedJobsResponse{Sent: n})
}
