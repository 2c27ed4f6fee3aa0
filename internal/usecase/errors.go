package usecase

import (
	"job-scraping/internal/notification"
	"job-scraping/internal/pkg/serrors"
)

// Usecase errors carry an serrors kind, which the HTTP layer turns into a
// status code.
var (
	ErrInvalidInput error = serrors.With(serrors.ErrBadRequest, "invalid input")
	ErrNotFound     error = serrors.With(serrors.ErrNotFound, "not found")
	ErrAlreadySaved error = serrors.With(serrors.ErrConflict, "job already saved")
	ErrInternal     error = serrors.With(serrors.ErrInternal, "internal error")

	ErrNothingToSend = notification.ErrNothingToSend
)
