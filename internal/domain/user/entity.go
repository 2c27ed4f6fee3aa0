package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	CreatedAt time.Time
}

type SearchHistory struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Keyword   string
	Location  string
	CreatedAt time.Time
}
