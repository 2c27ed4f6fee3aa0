package alert

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("alert not found")
	ErrAlreadySaved = errors.New("job already saved")
)

type Repository interface {
	Create(ctx context.Context, a Alert) (Alert, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Alert, error)
	ListAll(ctx context.Context) ([]Alert, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type SavedJobRepository interface {
	Create(ctx context.Context, j SavedJob) (SavedJob, error)
	ExistsByOwnerTitleCompany(ctx context.Context, ownerID uuid.UUID, title, company string) (bool, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]SavedJob, error)
	ListUnnotified(ctx context.Context, ownerID uuid.UUID) ([]SavedJob, error)
	// MarkNotified flips every id in one transaction, or none of them.
	MarkNotified(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}
