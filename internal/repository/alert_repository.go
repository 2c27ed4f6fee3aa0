package repository

import (
	"context"

	"job-scraping/internal/database"
	"job-scraping/internal/domain/alert"

	"github.com/google/uuid"
)

const alertColumns = `id, user_id, keyword, location, min_salary, experience, created_at`

type PostgresAlertRepository struct {
	db database.DB
}

func NewPostgresAlertRepository(db database.DB) *PostgresAlertRepository {
	return &PostgresAlertRepository{db: db}
}

func (r *PostgresAlertRepository) Create(ctx context.Context, a alert.Alert) (alert.Alert, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO alerts (id, user_id, keyword, location, min_salary, experience)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+alertColumns,
		a.ID, a.OwnerID, a.Keyword, a.Location, a.MinSalary, a.Experience,
	)
	return scanAlert(row)
}

func (r *PostgresAlertRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]alert.Alert, error) {
	return r.list(ctx,
		`SELECT `+alertColumns+` FROM alerts WHERE user_id = $1 ORDER BY created_at DESC, id`,
		ownerID,
	)
}

func (r *PostgresAlertRepository) ListAll(ctx context.Context) ([]alert.Alert, error) {
	return r.list(ctx, `SELECT `+alertColumns+` FROM alerts ORDER BY user_id, created_at`)
}

func (r *PostgresAlertRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM alerts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return alert.ErrNotFound
	}
	return nil
}

func (r *PostgresAlertRepository) list(ctx context.Context, query string, args ...any) ([]alert.Alert, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]alert.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAlert(row database.Row) (alert.Alert, error) {
	var a alert.Alert
	var minSalary *int32
	if err := row.Scan(&a.ID, &a.OwnerID, &a.Keyword, &a.Location, &minSalary, &a.Experience, &a.CreatedAt); err != nil {
		return alert.Alert{}, err
	}
	if minSalary != nil {
		v := int(*minSalary)
		a.MinSalary = &v
	}
	return a, nil
}

var _ alert.Repository = (*PostgresAlertRepository)(nil)
