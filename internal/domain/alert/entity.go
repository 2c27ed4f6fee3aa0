package alert

import (
	"time"

	"github.com/google/uuid"
)

// Alert is a stored subscription. Nil optional fields mean "no filter".
type Alert struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Keyword    string
	Location   *string
	MinSalary  *int
	Experience *string
	CreatedAt  time.Time
}

// SavedJob is a listing snapshot a user kept. Notified only ever goes from
// false to true.
type SavedJob struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	Company   string
	Location  *string
	Salary    *string
	Source    *string
	Link      *string
	Notified  bool
	CreatedAt time.Time
}
