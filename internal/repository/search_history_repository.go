package repository

import (
	"context"
	"strings"

	"job-scraping/internal/database"
	"job-scraping/internal/domain/user"

	"github.com/google/uuid"
)

const defaultHistoryLimit = 20

type PostgresSearchHistoryRepository struct {
	db database.DB
}

func NewPostgresSearchHistoryRepository(db database.DB) *PostgresSearchHistoryRepository {
	return &PostgresSearchHistoryRepository{db: db}
}

func (r *PostgresSearchHistoryRepository) Create(ctx context.Context, h user.SearchHistory) (user.SearchHistory, error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	var location *string
	if l := strings.TrimSpace(h.Location); l != "" {
		location = &l
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO search_history (id, user_id, keyword, location)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, keyword, COALESCE(location, ''), created_at`,
		h.ID, h.UserID, h.Keyword, location,
	)
	var out user.SearchHistory
	if err := row.Scan(&out.ID, &out.UserID, &out.Keyword, &out.Location, &out.CreatedAt); err != nil {
		return user.SearchHistory{}, err
	}
	return out, nil
}

// ListByUser returns the newest entries first.
func (r *PostgresSearchHistoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, page user.HistoryPage) ([]user.SearchHistory, error) {
	limit, offset := page.Limit, page.Offset
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, keyword, COALESCE(location, ''), created_at
		 FROM search_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.SearchHistory, 0)
	for rows.Next() {
		var h user.SearchHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.Keyword, &h.Location, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ user.HistoryRepository = (*PostgresSearchHistoryRepository)(nil)
