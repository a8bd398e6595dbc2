package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"budget_tracker/internal/model"
)

// TransactionRepository defines operations for transaction data
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	FindByID(ctx context.Context, id string) (*model.Transaction, error)
	// FindByIDForUpdate also locks the row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id string) (*model.Transaction, error)
	FindAll(ctx context.Context) ([]model.Transaction, error)
	Update(ctx context.Context, id string, patch model.TransactionPatch) error
	Delete(ctx context.Context, id string) error
}

const transactionColumns = `id::text, type, category, item, description, amount::text, transaction_date,
            COALESCE(savings_goal_id, 0), created_at, updated_at`

type transactionRepository struct {
	db Querier
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db Querier) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create inserts a new transaction. The id must already be assigned.
func (r *transactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	sql := `INSERT INTO transactions (id, type, category, item, description, amount, transaction_date, savings_goal_id)
            VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, t.ID, t.Type, t.Category, t.Item, t.Description, t.Amount.String(), t.Date, nullableID(t.SavingsGoalID)).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return persistenceErr("create transaction", err)
	}
	return nil
}

// FindByID retrieves a transaction by its ID
func (r *transactionRepository) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	return r.findOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id::text = $1`, id)
}

func (r *transactionRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Transaction, error) {
	return r.findOne(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id::text = $1 FOR UPDATE`, id)
}

func (r *transactionRepository) findOne(ctx context.Context, sql, id string) (*model.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, persistenceErr("find transaction by ID", err)
	}
	return t, nil
}

// FindAll retrieves every transaction, newest first
func (r *transactionRepository) FindAll(ctx context.Context) ([]model.Transaction, error) {
	sql := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY transaction_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, persistenceErr("query transactions", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, persistenceErr("scan transaction row", err)
		}
		transactions = append(transactions, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, persistenceErr("iterate transaction rows", err)
	}
	return transactions, nil
}

// Update writes only the fields present in the patch
func (r *transactionRepository) Update(ctx context.Context, id string, p model.TransactionPatch) error {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("UPDATE transactions SET updated_at = NOW()")
	args := []any{}
	argCount := 1

	set := func(column string, value any) {
		queryBuilder.WriteString(fmt.Sprintf(", %s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if p.Type != nil {
		set("type", *p.Type)
	}
	if p.Category != nil {
		set("category", *p.Category)
	}
	if p.Item != nil {
		set("item", *p.Item)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Amount != nil {
		queryBuilder.WriteString(fmt.Sprintf(", amount = $%d::numeric", argCount))
		args = append(args, p.Amount.String())
		argCount++
	}
	if p.Date != nil {
		set("transaction_date", *p.Date)
	}
	if p.ClearSavingsGoalID {
		queryBuilder.WriteString(", savings_goal_id = NULL")
	} else if p.SavingsGoalID != nil {
		set("savings_goal_id", *p.SavingsGoalID)
	}

	queryBuilder.WriteString(fmt.Sprintf(" WHERE id::text = $%d", argCount))
	args = append(args, id)

	cmdTag, err := r.db.Exec(ctx, queryBuilder.String(), args...)
	if err != nil {
		return persistenceErr("update transaction", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes a transaction from the database
func (r *transactionRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id::text = $1`, id)
	if err != nil {
		return persistenceErr("delete transaction", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var (
		t      model.Transaction
		amount string
		goalID int64
	)
	if err := row.Scan(
		&t.ID, &t.Type, &t.Category, &t.Item, &t.Description, &amount,
		&t.Date, &goalID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if goalID != 0 {
		t.SavingsGoalID = &goalID
	}
	return &t, nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
