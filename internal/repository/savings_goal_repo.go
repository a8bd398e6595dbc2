package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"budget_tracker/internal/model"
)

// SavingsGoalRepository defines operations for savings goal data
type SavingsGoalRepository interface {
	Create(ctx context.Context, goal *model.SavingsGoal) error
	FindByID(ctx context.Context, id int64) (*model.SavingsGoal, error)
	FindAll(ctx context.Context) ([]model.SavingsGoal, error)
	// FindAllForUpdate locks every goal row, in id order, until the surrounding
	// transaction ends
	FindAllForUpdate(ctx context.Context) ([]model.SavingsGoal, error)
	Update(ctx context.Context, id int64, name string, target decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
	// AdjustSavedAmount adds delta (which may be negative) in a single statement
	AdjustSavedAmount(ctx context.Context, id int64, delta decimal.Decimal) error
	// SetSavedAmounts overwrites saved_amount for every goal in amounts
	SetSavedAmounts(ctx context.Context, amounts map[int64]decimal.Decimal) error
}

const goalColumns = `id, name, target_amount::text, saved_amount::text, created_at, updated_at`

type savingsGoalRepository struct {
	db Querier
}

// NewSavingsGoalRepository creates a new SavingsGoalRepository
func NewSavingsGoalRepository(db Querier) SavingsGoalRepository {
	return &savingsGoalRepository{db: db}
}

func (r *savingsGoalRepository) Create(ctx context.Context, g *model.SavingsGoal) error {
	sql := `INSERT INTO savings_goals (name, target_amount, saved_amount)
            VALUES ($1, $2::numeric, 0) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, g.Name, g.TargetAmount.String()).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return persistenceErr("create savings goal", err)
	}
	g.SavedAmount = decimal.Zero
	return nil
}

func (r *savingsGoalRepository) FindByID(ctx context.Context, id int64) (*model.SavingsGoal, error) {
	g, err := scanGoal(r.db.QueryRow(ctx, `SELECT `+goalColumns+` FROM savings_goals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, persistenceErr("find savings goal by ID", err)
	}
	return g, nil
}

func (r *savingsGoalRepository) FindAll(ctx context.Context) ([]model.SavingsGoal, error) {
	return r.findMany(ctx, `SELECT `+goalColumns+` FROM savings_goals ORDER BY id`)
}

func (r *savingsGoalRepository) FindAllForUpdate(ctx context.Context) ([]model.SavingsGoal, error) {
	return r.findMany(ctx, `SELECT `+goalColumns+` FROM savings_goals ORDER BY id FOR UPDATE`)
}

func (r *savingsGoalRepository) findMany(ctx context.Context, sql string) ([]model.SavingsGoal, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, persistenceErr("query savings goals", err)
	}
	defer rows.Close()

	goals := []model.SavingsGoal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, persistenceErr("scan savings goal row", err)
		}
		goals = append(goals, *g)
	}
	if err = rows.Err(); err != nil {
		return nil, persistenceErr("iterate savings goal rows", err)
	}
	return goals, nil
}

func (r *savingsGoalRepository) Update(ctx context.Context, id int64, name string, target decimal.Decimal) error {
	sql := `UPDATE savings_goals SET name = $1, target_amount = $2::numeric, updated_at = NOW() WHERE id = $3`
	cmdTag, err := r.db.Exec(ctx, sql, name, target.String(), id)
	if err != nil {
		return persistenceErr("update savings goal", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *savingsGoalRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM savings_goals WHERE id = $1`, id)
	if err != nil {
		return persistenceErr("delete savings goal", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *savingsGoalRepository) AdjustSavedAmount(ctx context.Context, id int64, delta decimal.Decimal) error {
	sql := `UPDATE savings_goals SET saved_amount = saved_amount + $1::numeric, updated_at = NOW() WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, delta.String(), id)
	if err != nil {
		return persistenceErr("adjust saved amount", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *savingsGoalRepository) SetSavedAmounts(ctx context.Context, amounts map[int64]decimal.Decimal) error {
	ids := make([]int64, 0, len(amounts))
	for id := range amounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	sql := `UPDATE savings_goals SET saved_amount = $1::numeric, updated_at = NOW()
            WHERE id = $2 AND saved_amount <> $1::numeric`
	for _, id := range ids {
		if _, err := r.db.Exec(ctx, sql, amounts[id].String(), id); err != nil {
			return persistenceErr(fmt.Sprintf("set saved amount of goal %d", id), err)
		}
	}
	return nil
}

func scanGoal(row pgx.Row) (*model.SavingsGoal, error) {
	var (
		g             model.SavingsGoal
		target, saved string
	)
	if err := row.Scan(&g.ID, &g.Name, &target, &saved, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return nil, fmt.Errorf("invalid target amount %q: %w", target, err)
	}
	if g.SavedAmount, err = decimal.NewFromString(saved); err != nil {
		return nil, fmt.Errorf("invalid saved amount %q: %w", saved, err)
	}
	return &g, nil
}
