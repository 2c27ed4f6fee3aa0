package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
}

// HistoryPage selects a window of a user's history, newest first.
type HistoryPage struct {
	Limit  int
	Offset int
}

type HistoryRepository interface {
	Create(ctx context.Context, h SearchHistory) (SearchHistory, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page HistoryPage) ([]SearchHistory, error)
}
