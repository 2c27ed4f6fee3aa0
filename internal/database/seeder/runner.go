// Package seeder loads bootstrap rows, such as the operator's first users,
// after migrations have run.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-scraping/internal/database"

	"go.uber.org/zap"
)

// Seeder inserts rows idempotently; running it twice is a no-op.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

// Run applies the seeders in order and stops at the first failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		started := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder applied", zap.String("seeder", s.Name()), zap.Duration("took", time.Since(started)))
	}
	return nil
}
