package job

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Source string

const (
	SourceLinkedIn  Source = "LinkedIn"
	SourceTimesJobs Source = "TimesJobs"
)

// LocationNotSpecified is stored when a card carries no location.
const LocationNotSpecified = "Location not specified"

// Listing is one posting as fetched from a source. Salary and SalaryNumeric
// are filled by the aggregator.
type Listing struct {
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
	SalaryRaw     *string   `json:"salary_raw,omitempty"`
	Salary        *string   `json:"salary,omitempty"`
	SalaryNumeric int       `json:"salary_numeric"`
	Source        Source    `json:"source"`
	Link          *string   `json:"link,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// Key identifies the same posting across sources.
type Key struct {
	Title   string
	Company string
}

func (l Listing) Key() Key {
	return Key{Title: strings.ToLower(l.Title), Company: strings.ToLower(l.Company)}
}

type Query struct {
	Keyword     string
	Location    string
	RequesterID *uuid.UUID
}

// WithDefaults trims the query and fills an empty location.
func (q Query) WithDefaults(defaultLocation string) Query {
	q.Keyword = strings.TrimSpace(q.Keyword)
	q.Location = strings.TrimSpace(q.Location)
	if q.Location == "" {
		q.Location = defaultLocation
	}
	return q
}
