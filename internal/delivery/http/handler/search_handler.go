package handler

import (
	"job-scraping/internal/delivery/http/dto"
	"job-scraping/internal/delivery/http/middleware"
	"job-scraping/internal/domain/job"
	"job-scraping/internal/domain/user"
	"job-scraping/internal/pkg/response"
	"job-scraping/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SearchHandler struct {
	uc usecase.SearchUsecase
}

func NewSearchHandler(uc usecase.SearchUsecase) *SearchHandler {
	return &SearchHandler{uc: uc}
}

// RegisterRoutes mounts search on r. Searching works anonymously behind
// optionalAuth; history needs requiredAuth.
func (h *SearchHandler) RegisterRoutes(r fiber.Router, optionalAuth, requiredAuth fiber.Handler) {
	if r == nil {
		return
	}

	r.Post("/search", optionalAuth, h.Search)
	r.Get("/search/history", requiredAuth, h.History)
}

func (h *SearchHandler) Search(c fiber.Ctx) error {
	var req dto.SearchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	q := job.Query{Keyword: req.Keyword, Location: req.Location}
	if id, ok := middleware.UserID(c); ok {
		q.RequesterID = &id
	}

	res, err := h.uc.Search(c.Context(), q)
	if err != nil {
		return usecaseError(err, searchMessages)
	}

	return response.Success(c, fiber.StatusOK, res.Message, dto.SearchResponse{
		Keyword:  res.Query.Keyword,
		Location: res.Query.Location,
		Count:    len(res.Listings),
		Jobs:     dto.NewListingResponses(res.Listings),
		Matched:  res.Matched,
		Notified: res.Notified,
	})
}

func (h *SearchHandler) History(c fiber.Ctx) error {
	userID, err := requireUser(c)
	if err != nil {
		return err
	}
	var q dto.SearchHistoryQuery
	if err := bindQueryAndValidate(c, &q); err != nil {
		return err
	}
	items, err := h.uc.History(c.Context(), userID, user.HistoryPage{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		return usecaseError(err, searchMessages)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSearchHistoryResponses(items))
}
