package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// txRows ends the read-only transaction once the rows are closed.
type txRows struct {
	*sql.Rows
	tx *sql.Tx
}

func (r *txRows) Close() error {
	err := r.Rows.Close()
	if rbErr := r.tx.Rollback(); err == nil && !errors.Is(rbErr, sql.ErrTxDone) {
		err = rbErr
	}
	return err
}

type sqlDB struct {
	db *sql.DB
}

// NewSQLDB wraps db so that every query runs in its own read-only transaction.
func NewSQLDB(db *sql.DB) DB {
	return &sqlDB{db: db}
}

func (s *sqlDB) QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin read-only tx: %w", err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	return &txRows{Rows: rows, tx: tx}, nil
}
