package usecase

import (
	"context"
	"errors"
	"strings"

	"job-scraping/internal/domain/alert"
	"job-scraping/internal/domain/user"
	"job-scraping/internal/pkg/serrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SaveJobInput struct {
	Title    string
	Company  string
	Location *string
	Salary   *string
	Source   *string
	Link     *string
}

type SavedJobSender interface {
	SendSavedJobs(ctx context.Context, u user.User) (int, error)
}

type SavedJobUsecase interface {
	SaveJob(ctx context.Context, ownerID uuid.UUID, in SaveJobInput) (alert.SavedJob, error)
	ListSavedJobs(ctx context.Context, ownerID uuid.UUID) ([]alert.SavedJob, error)
	ClearSavedJobs(ctx context.Context, ownerID uuid.UUID) (int64, error)
	// SendSavedJobs emails every unnotified saved job. Transport failures
	// keep their serrors.ErrTransport kind.
	SendSavedJobs(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type SavedJobs struct {
	repo   alert.SavedJobRepository
	users  user.Repository
	sender SavedJobSender
	logger *zap.Logger
}

func NewSavedJobUsecase(repo alert.SavedJobRepository, users user.Repository, sender SavedJobSender, logger *zap.Logger) *SavedJobs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavedJobs{repo: repo, users: users, sender: sender, logger: logger}
}

func (u *SavedJobs) SaveJob(ctx context.Context, ownerID uuid.UUID, in SaveJobInput) (alert.SavedJob, error) {
	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)
	if ownerID == uuid.Nil || title == "" || company == "" {
		return alert.SavedJob{}, ErrInvalidInput
	}

	exists, err := u.repo.ExistsByOwnerTitleCompany(ctx, ownerID, title, company)
	if err != nil {
		u.logger.Error("check saved job failed", zap.String("user_id", ownerID.String()), zap.Error(err))
		return alert.SavedJob{}, ErrInternal
	}
	if exists {
		return alert.SavedJob{}, ErrAlreadySaved
	}

	saved, err := u.repo.Create(ctx, alert.SavedJob{
		OwnerID:  ownerID,
		Title:    title,
		Company:  company,
		Location: trimmedOrNil(in.Location),
		Salary:   trimmedOrNil(in.Salary),
		Source:   trimmedOrNil(in.Source),
		Link:     trimmedOrNil(in.Link),
	})
	if err != nil {
		if errors.Is(err, alert.ErrAlreadySaved) {
			return alert.SavedJob{}, ErrAlreadySaved
		}
		u.logger.Error("save job failed", zap.String("user_id", ownerID.String()), zap.Error(err))
		return alert.SavedJob{}, ErrInternal
	}
	u.logger.Info("job saved", zap.String("user_id", ownerID.String()), zap.String("title", title), zap.String("company", company))
	return saved, nil
}

func (u *SavedJobs) ListSavedJobs(ctx context.Context, ownerID uuid.UUID) ([]alert.SavedJob, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	items, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		u.logger.Error("list saved jobs failed", zap.String("user_id", ownerID.String()), zap.Error(err))
		return nil, ErrInternal
	}
	return items, nil
}

func (u *SavedJobs) ClearSavedJobs(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	if ownerID == uuid.Nil {
		return 0, ErrInvalidInput
	}
	n, err := u.repo.DeleteByOwner(ctx, ownerID)
	if err != nil {
		u.logger.Error("clear saved jobs failed", zap.String("user_id", ownerID.String()), zap.Error(err))
		return 0, ErrInternal
	}
	return n, nil
}

func (u *SavedJobs) SendSavedJobs(ctx context.Context, ownerID uuid.UUID) (int, error) {
	if ownerID == uuid.Nil {
		return 0, ErrInvalidInput
	}
	owner, err := u.users.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, ErrInternal
	}

	n, err := u.sender.SendSavedJobs(ctx, owner)
	switch {
	case err == nil:
		return n, nil
	case errors.Is(err, ErrNothingToSend), errors.Is(err, serrors.ErrTransport):
		return 0, err
	default:
		u.logger.Error("send saved jobs failed", zap.String("user_id", ownerID.String()), zap.Error(err))
		return 0, ErrInternal
	}
}

var _ SavedJobUsecase = (*SavedJobs)(nil)
