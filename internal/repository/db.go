package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
)

// Querier is the subset of pgx shared by pools, connections and transactions
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner is a Querier that can open database transactions
type TxBeginner interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repositories groups the stores that take part in one unit of work
type Repositories struct {
	Transactions TransactionRepository
	Goals        SavingsGoalRepository
}

// UnitOfWork runs fn with repositories bound to a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

type pgUnitOfWork struct {
	db     TxBeginner
	logger *zap.Logger
}

// NewUnitOfWork creates a UnitOfWork on top of a pgx pool
func NewUnitOfWork(db TxBeginner, logger *zap.Logger) UnitOfWork {
	return &pgUnitOfWork{db: db, logger: logger}
}

func (u *pgUnitOfWork) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return persistenceErr("begin transaction", err)
	}

	repos := Repositories{
		Transactions: NewTransactionRepository(tx),
		Goals:        NewSavingsGoalRepository(tx),
	}
	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			u.logger.Error("Failed to roll back transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return persistenceErr("commit transaction", err)
	}
	return nil
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, model.ErrPersistence, err)
}
