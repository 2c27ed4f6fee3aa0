package dto

import (
	"time"

	"job-scraping/internal/domain/alert"

	"github.com/google/uuid"
)

type SaveJobRequest struct {
	Title    string  `json:"title" validate:"required,max=500"`
	Company  string  `json:"company" validate:"required,max=500"`
	Location *string `json:"location" validate:"omitempty,max=500"`
	Salary   *string `json:"salary" validate:"omitempty,max=200"`
	Source   *string `json:"source" validate:"omitempty,max=100"`
	Link     *string `json:"link" validate:"omitempty,url"`
}

type SavedJobResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Location  *string   `json:"location"`
	Salary    *string   `json:"salary"`
	Source    *string   `json:"source"`
	Link      *string   `json:"link"`
	Notified  bool      `json:"is_notified"`
	CreatedAt time.Time `json:"created_at"`
}

type SendSavedJobsResponse struct {
	Sent int `json:"sent"`
}

type ClearSavedJobsResponse struct {
	Deleted int64 `json:"deleted"`
}

func NewSavedJobResponse(j alert.SavedJob) SavedJobResponse {
	return SavedJobResponse{
		ID:        j.ID,
		Title:     j.Title,
		Company:   j.Company,
		Location:  j.Location,
		Salary:    j.Salary,
		Source:    j.Source,
		Link:      j.Link,
		Notified:  j.Notified,
		CreatedAt: j.CreatedAt,
	}
}

func NewSavedJobResponses(in []alert.SavedJob) []SavedJobResponse {
	out := make([]SavedJobResponse, 0, len(in))
	for _, j := range in {
		out = append(out, NewSavedJobResponse(j))
	}
	return out
}
