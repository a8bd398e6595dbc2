package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
	"budget_tracker/internal/reconcile"
	"budget_tracker/internal/repository"
)

// GoalService manages savings goals and their saved amounts
type GoalService interface {
	CreateGoal(ctx context.Context, req model.SavingsGoalRequest) (*model.SavingsGoal, error)
	GetGoal(ctx context.Context, id int64) (*model.SavingsGoal, error)
	ListGoals(ctx context.Context) ([]model.SavingsGoal, error)
	UpdateGoal(ctx context.Context, id int64, req model.SavingsGoalRequest) (*model.SavingsGoal, error)
	DeleteGoal(ctx context.Context, id int64) error
	// Recalculate rebuilds every saved amount from the full transaction list and
	// returns the goals afterwards. Running it twice gives the same result.
	Recalculate(ctx context.Context) ([]model.SavingsGoal, error)
}

type goalService struct {
	uow    repository.UnitOfWork
	repo   repository.SavingsGoalRepository
	cls    reconcile.Classifier
	logger *zap.Logger
}

// NewGoalService creates a new GoalService
func NewGoalService(uow repository.UnitOfWork, repo repository.SavingsGoalRepository, cls reconcile.Classifier, logger *zap.Logger) GoalService {
	return &goalService{uow: uow, repo: repo, cls: cls, logger: logger}
}

func (s *goalService) CreateGoal(ctx context.Context, req model.SavingsGoalRequest) (*model.SavingsGoal, error) {
	name, target, err := validateGoal(req)
	if err != nil {
		return nil, err
	}

	goal := &model.SavingsGoal{Name: name, TargetAmount: target}
	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create savings goal: %w", err)
	}
	s.logger.Info("Savings goal created", zap.Int64("goal_id", goal.ID), zap.String("name", goal.Name))
	return goal, nil
}

func (s *goalService) GetGoal(ctx context.Context, id int64) (*model.SavingsGoal, error) {
	goal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to find savings goal: %w", err)
	}
	return goal, nil
}

func (s *goalService) ListGoals(ctx context.Context) ([]model.SavingsGoal, error) {
	goals, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	return goals, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, id int64, req model.SavingsGoalRequest) (*model.SavingsGoal, error) {
	name, target, err := validateGoal(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, name, target); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to update savings goal: %w", err)
	}
	return s.GetGoal(ctx, id)
}

// DeleteGoal removes a goal. Transactions that referenced it keep their category
// and lose the reference.
func (s *goalService) DeleteGoal(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return ErrGoalNotFound
		}
		return fmt.Errorf("failed to delete savings goal: %w", err)
	}
	s.logger.Info("Savings goal deleted", zap.Int64("goal_id", id))
	return nil
}

func (s *goalService) Recalculate(ctx context.Context) ([]model.SavingsGoal, error) {
	var goals []model.SavingsGoal
	err := s.uow.WithinTx(ctx, func(repos repository.Repositories) error {
		// Goal rows stay locked until commit; adjustments queue behind this write.
		var err error
		goals, err = repos.Goals.FindAllForUpdate(ctx)
		if err != nil {
			return err
		}
		txs, err := repos.Transactions.FindAll(ctx)
		if err != nil {
			return err
		}

		sums, orphans := reconcile.ComputeSavedAmounts(goals, txs, s.cls)
		for _, id := range orphans {
			s.logger.Warn("Transactions reference a missing savings goal", zap.Int64("goal_id", id))
		}
		for i := range goals {
			if !goals[i].SavedAmount.Equal(sums[goals[i].ID]) {
				s.logger.Info("Correcting saved amount",
					zap.Int64("goal_id", goals[i].ID),
					zap.String("stored", goals[i].SavedAmount.String()),
					zap.String("computed", sums[goals[i].ID].String()))
			}
			goals[i].SavedAmount = sums[goals[i].ID]
		}
		return repos.Goals.SetSavedAmounts(ctx, sums)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to recalculate saved amounts: %w", err)
	}
	return goals, nil
}

func validateGoal(req model.SavingsGoalRequest) (string, decimal.Decimal, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", decimal.Zero, model.NewValidationError("name", "is required")
	}
	target, err := decimal.NewFromString(strings.TrimSpace(req.TargetAmount))
	if err != nil {
		return "", decimal.Zero, model.NewValidationError("target_amount", "must be a decimal number")
	}
	if !target.IsPositive() {
		return "", decimal.Zero, model.NewValidationError("target_amount", "must be greater than zero")
	}
	if err := model.CheckMoney("target_amount", target); err != nil {
		return "", decimal.Zero, err
	}
	return name, target, nil
}
