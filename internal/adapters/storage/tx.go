package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

type txKey struct{}

// WithTx returns a context carrying tx.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the transaction carried by ctx, if any.
func TxFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// Conn returns the transaction in ctx when present, otherwise db.
// Stores call this for every statement so writes inside InTx share one transaction.
func Conn(ctx context.Context, db SQLDB) Execer {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return db
}

// Transactor runs functions inside a database transaction.
type Transactor struct {
	db SQLDB
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db SQLDB) *Transactor {
	return &Transactor{db: db}
}

// InTx runs fn with a context carrying a new transaction, committing when fn
// returns nil and rolling back otherwise. A context that already carries a
// transaction is reused, so nested calls join the outer transaction.
// PRE: fn only touches the database through stores that resolve Conn(ctx)
// POST: Either every write made by fn is committed or none is
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("tx_rollback_failed", "error", rbErr, "cause", err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
