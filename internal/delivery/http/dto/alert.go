package dto

import (
	"time"

	"job-scraping/internal/domain/alert"

	"github.com/google/uuid"
)

type CreateAlertRequest struct {
	Keyword    string  `json:"keyword" validate:"required,max=200"`
	Location   *string `json:"location" validate:"omitempty,max=200"`
	MinSalary  *int    `json:"min_salary" validate:"omitempty,gte=0"`
	Experience *string `json:"experience" validate:"omitempty,max=100"`
}

type AlertResponse struct {
	ID         uuid.UUID `json:"id"`
	Keyword    string    `json:"keyword"`
	Location   *string   `json:"location"`
	MinSalary  *int      `json:"min_salary"`
	Experience *string   `json:"experience"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewAlertResponse(a alert.Alert) AlertResponse {
	return AlertResponse{
		ID:         a.ID,
		Keyword:    a.Keyword,
		Location:   a.Location,
		MinSalary:  a.MinSalary,
		Experience: a.Experience,
		CreatedAt:  a.CreatedAt,
	}
}

func NewAlertResponses(in []alert.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(in))
	for _, a := range in {
		out = append(out, NewAlertResponse(a))
	}
	return out
}
