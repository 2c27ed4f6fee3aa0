package repository

import (
	"context"
	"fmt"

	"job-scraping/internal/database"
	"job-scraping/internal/domain/alert"

	"github.com/google/uuid"
)

const savedJobColumns = `id, user_id, title, company, location, salary, source, link, is_notified, created_at`

type PostgresSavedJobRepository struct {
	db database.DB
}

func NewPostgresSavedJobRepository(db database.DB) *PostgresSavedJobRepository {
	return &PostgresSavedJobRepository{db: db}
}

func (r *PostgresSavedJobRepository) Create(ctx context.Context, j alert.SavedJob) (alert.SavedJob, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO saved_jobs (id, user_id, title, company, location, salary, source, link, is_notified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
		 RETURNING `+savedJobColumns,
		j.ID, j.OwnerID, j.Title, j.Company, j.Location, j.Salary, j.Source, j.Link,
	)
	created, err := scanSavedJob(row)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return alert.SavedJob{}, alert.ErrAlreadySaved
		}
		return alert.SavedJob{}, err
	}
	return created, nil
}

func (r *PostgresSavedJobRepository) ExistsByOwnerTitleCompany(ctx context.Context, ownerID uuid.UUID, title, company string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM saved_jobs WHERE user_id = $1 AND title = $2 AND company = $3)`,
		ownerID, title, company,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresSavedJobRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]alert.SavedJob, error) {
	return r.list(ctx,
		`SELECT `+savedJobColumns+` FROM saved_jobs WHERE user_id = $1 ORDER BY created_at DESC, id`,
		ownerID,
	)
}

func (r *PostgresSavedJobRepository) ListUnnotified(ctx context.Context, ownerID uuid.UUID) ([]alert.SavedJob, error) {
	return r.list(ctx,
		`SELECT `+savedJobColumns+` FROM saved_jobs WHERE user_id = $1 AND is_notified = FALSE ORDER BY created_at, id`,
		ownerID,
	)
}

// MarkNotified updates every id in one transaction. If any id is missing,
// already notified or owned by someone else the transaction rolls back.
func (r *PostgresSavedJobRepository) MarkNotified(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	return database.InTx(ctx, r.db, func(tx database.Tx) error {
		affected, err := tx.Exec(ctx,
			`UPDATE saved_jobs SET is_notified = TRUE
			 WHERE user_id = $1 AND id = ANY($2) AND is_notified = FALSE`,
			ownerID, ids,
		)
		if err != nil {
			return err
		}
		if affected != int64(len(ids)) {
			return fmt.Errorf("mark notified: expected %d rows, updated %d", len(ids), affected)
		}
		return nil
	})
}

func (r *PostgresSavedJobRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM saved_jobs WHERE user_id = $1`, ownerID)
}

func (r *PostgresSavedJobRepository) list(ctx context.Context, query string, args ...any) ([]alert.SavedJob, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]alert.SavedJob, 0)
	for rows.Next() {
		j, err := scanSavedJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanSavedJob(row database.Row) (alert.SavedJob, error) {
	var j alert.SavedJob
	err := row.Scan(&j.ID, &j.OwnerID, &j.Title, &j.Company, &j.Location, &j.Salary, &j.Source, &j.Link, &j.Notified, &j.CreatedAt)
	return j, err
}

var _ alert.SavedJobRepository = (*PostgresSavedJobRepository)(nil)
