package database

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/allisson/posrecovery/internal/errors"
)

type txKey struct{}

// Querier is satisfied by both *sql.DB and *sql.Tx, so repositories run the same queries
// inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager runs a unit of work atomically. The ledger uses it to update a POS transaction
// and append its audit event together.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type sqlTxManager struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// NewTxManager creates a TxManager using read-committed isolation.
func NewTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db, opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted}}
}

// WithTx executes fn within a transaction carried by ctx. Nested calls join the outer
// transaction. The transaction is rolled back when fn returns an error or panics.
func (m *sqlTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, m.opts)
	if err != nil {
		return apperrors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, apperrors.Wrap(rbErr, "failed to rollback transaction"))
		}
		return err
	}

	return apperrors.Wrap(tx.Commit(), "failed to commit transaction")
}

// GetTx returns the transaction carried by ctx, or db when there is none.
func GetTx(ctx context.Context, db *sql.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}
