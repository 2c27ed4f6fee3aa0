package dto

import (
	"time"

	"job-scraping/internal/domain/job"
	"job-scraping/internal/domain/user"

	"github.com/google/uuid"
)

type SearchRequest struct {
	Keyword  string `json:"keyword" validate:"required,max=200"`
	Location string `json:"location" validate:"max=200"`
}

type ListingResponse struct {
	Title         string  `json:"title"`
	Company       string  `json:"company"`
	Location      string  `json:"location"`
	Salary        *string `json:"salary"`
	SalaryNumeric int     `json:"salary_numeric"`
	Source        string  `json:"source"`
	Link          *string `json:"link"`
}

type SearchResponse struct {
	Keyword  string            `json:"keyword"`
	Location string            `json:"location"`
	Count    int               `json:"count"`
	Jobs     []ListingResponse `json:"jobs"`
	Matched  int               `json:"alerts_matched"`
	Notified bool              `json:"alert_email_sent"`
}

type SearchHistoryQuery struct {
	Limit  int `query:"limit" json:"limit" validate:"omitempty,gte=1,lte=100"`
	Offset int `query:"offset" json:"offset" validate:"omitempty,gte=0"`
}

type SearchHistoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Keyword   string    `json:"keyword"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

func NewListingResponses(in []job.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(in))
	for _, l := range in {
		out = append(out, ListingResponse{
			Title:         l.Title,
			Company:       l.Company,
			Location:      l.Location,
			Salary:        l.Salary,
			SalaryNumeric: l.SalaryNumeric,
			Source:        string(l.Source),
			Link:          l.Link,
		})
	}
	return out
}

func NewSearchHistoryResponses(in []user.SearchHistory) []SearchHistoryResponse {
	out := make([]SearchHistoryResponse, 0, len(in))
	for _, h := range in {
		out = append(out, SearchHistoryResponse{ID: h.ID, Keyword: h.Keyword, Location: h.Location, CreatedAt: h.CreatedAt})
	}
	return out
}
