package usecase

import (
	"context"
	"errors"
	"strings"

	"job-scraping/internal/domain/alert"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateAlertInput struct {
	Keyword    string
	Location   *string
	MinSalary  *int
	Experience *string
}

type AlertUsecase interface {
	CreateAlert(ctx context.Context, ownerID uuid.UUID, in CreateAlertInput) (alert.Alert, error)
	ListAlerts(ctx context.Context, ownerID uuid.UUID) ([]alert.Alert, error)
	DeleteAlert(ctx context.Context, ownerID, alertID uuid.UUID) error
}

type Alerts struct {
	repo   alert.Repository
	logger *zap.Logger
}

func NewAlertUsecase(repo alert.Repository, logger *zap.Logger) *Alerts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Alerts{repo: repo, logger: logger}
}

func (u *Alerts) CreateAlert(ctx context.Context, ownerID uuid.UUID, in CreateAlertInput) (alert.Alert, error) {
	keyword := strings.TrimSpace(in.Keyword)
	if ownerID == uuid.Nil || keyword == "" {
		return alert.Alert{}, ErrInvalidInput
	}
	if in.MinSalary != nil && *in.MinSalary < 0 {
		return alert.Alert{}, ErrInvalidInput
	}

	created, err := u.repo.Create(ctx, alert.Alert{
		OwnerID:    ownerID,
		Keyword:    keyword,
		Location:   trimmedOrNil(in.Location),
		MinSalary:  in.MinSalary,
		Experience: trimmedOrNil(in.Experience),
	})
	if err != nil {
		u.logger.Error("create alert failed", zap.String("user_id", ownerID.String()), zap.Error(err))
		return alert.Alert{}, ErrInternal
	}
	u.logger.Info("alert created", zap.String("user_id", ownerID.String()), zap.String("alert_id", created.ID.String()))
	return created, nil
}

func (u *Alerts) ListAlerts(ctx context.Context, ownerID uuid.UUID) ([]alert.Alert, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	items, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		u.logger.Error("list alerts failed", zap.String("user_id", ownerID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Alerts) DeleteAlert(ctx context.Context, ownerID, alertID uuid.UUID) error {
	if ownerID == uuid.Nil || alertID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.repo.Delete(ctx, ownerID, alertID); err != nil {
		if errors.Is(err, alert.ErrNotFound) {
			return ErrNotFound
		}
		u.logger.Error("delete alert failed", zap.String("alert_id", alertID.String()), zap.Error(err))
		return ErrInternal
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

var _ AlertUsecase = (*Alerts)(nil)
