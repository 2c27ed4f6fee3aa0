package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsNoRows(t *testing.T) {
	require.True(t, IsNoRows(sql.ErrNoRows))
	require.True(t, IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
	require.False(t, IsNoRows(errors.New("boom")))
	require.False(t, IsNoRows(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolation})))
	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, IsUniqueViolation(errors.New("23505")))
}

type txDB struct {
	DB
	tx       *recordingTx
	beginErr error
}

func (d *txDB) Begin(context.Context) (Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.tx, nil
}

type recordingTx struct {
	Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *recordingTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}

func (t *recordingTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func TestInTx(t *testing.T) {
	ctx := context.Background()

	db := &txDB{tx: &recordingTx{}}
	require.NoError(t, InTx(ctx, db, func(Tx) error { return nil }))
	require.True(t, db.tx.committed)
	require.False(t, db.tx.rolledBack)

	db = &txDB{tx: &recordingTx{}}
	boom := errors.New("boom")
	require.ErrorIs(t, InTx(ctx, db, func(Tx) error { return boom }), boom)
	require.False(t, db.tx.committed)
	require.True(t, db.tx.rolledBack)

	db = &txDB{tx: &recordingTx{commitErr: errors.New("serialization failure")}}
	require.ErrorContains(t, InTx(ctx, db, func(Tx) error { return nil }), "commit")
	require.True(t, db.tx.rolledBack)

	db = &txDB{beginErr: errors.New("pool closed")}
	called := false
	require.ErrorContains(t, InTx(ctx, db, func(Tx) error { called = true; return nil }), "begin")
	require.False(t, called)
}
