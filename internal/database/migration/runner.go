package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// goose keeps its base FS and dialect in package state.
var gooseMu sync.Mutex

type Runner struct {
	FS     fs.FS
	Dir    string
	Logger *zap.Logger
}

// Run applies every pending migration.
func (r Runner) Run(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	if r.FS == nil {
		return errors.New("nil migrations fs")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(r.FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{l: r.logger().Sugar()})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("could not set goose dialect to postgres: %w", err)
	}
	if err := goose.UpContext(ctx, db, r.dir()); err != nil {
		return fmt.Errorf("could not migrate: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("could not read schema version: %w", err)
	}
	r.logger().Info("schema migrated", zap.Int64("version", version))
	return nil
}

func (r Runner) dir() string {
	if r.Dir == "" {
		return "migrations"
	}
	return r.Dir
}

func (r Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

type gooseLogger struct {
	l *zap.SugaredLogger
}

func (g gooseLogger) Fatalf(format string, v ...any) { g.l.Errorf(format, v...) }
func (g gooseLogger) Printf(format string, v ...any) { g.l.Infof(format, v...) }
