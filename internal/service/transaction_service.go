package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
	"budget_tracker/internal/reconcile"
	"budget_tracker/internal/report"
	"budget_tracker/internal/repository"
)

var (
	ErrTransactionNotFound = fmt.Errorf("transaction %w", model.ErrNotFound)
	ErrGoalNotFound        = fmt.Errorf("savings goal %w", model.ErrNotFound)
)

// TransactionService defines operations for transactions. Every mutation keeps
// the saved amount of the referenced savings goals in step within one unit of work.
type TransactionService interface {
	CreateTransaction(ctx context.Context, req model.CreateTransactionRequest) (*model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, filters model.TransactionFilters) (*model.TransactionPage, error)
	UpdateTransaction(ctx context.Context, id string, req model.UpdateTransactionRequest) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

type transactionService struct {
	uow      repository.UnitOfWork
	repo     repository.TransactionRepository
	settings SettingsService
	cls      reconcile.Classifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewTransactionService creates a new TransactionService. Dates default to today in loc.
func NewTransactionService(uow repository.UnitOfWork, repo repository.TransactionRepository, settings SettingsService,
	cls reconcile.Classifier, loc *time.Location, logger *zap.Logger) TransactionService {
	return &transactionService{
		uow:      uow,
		repo:     repo,
		settings: settings,
		cls:      cls,
		logger:   logger,
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

func (s *transactionService) CreateTransaction(ctx context.Context, req model.CreateTransactionRequest) (*model.Transaction, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	t := model.Transaction{
		ID:            uuid.NewString(),
		Type:          req.Type,
		Category:      strings.TrimSpace(req.Category),
		Item:          strings.TrimSpace(req.Item),
		Description:   req.Description,
		Amount:        amount,
		Date:          date,
		SavingsGoalID: req.SavingsGoalID,
	}
	if err := s.validate(ctx, &t, true); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := s.checkGoal(ctx, repos, &t); err != nil {
			return err
		}
		if err := repos.Transactions.Create(ctx, &t); err != nil {
			return err
		}
		return s.applyDeltas(ctx, repos, reconcile.EditDeltas(nil, &t, s.cls))
	})
	if err != nil {
		return nil, wrapUnlessDomain("failed to create transaction", err)
	}

	s.logger.Info("Transaction created", zap.String("transaction_id", t.ID), zap.String("type", t.Type), zap.String("category", t.Category))
	return &t, nil
}

func (s *transactionService) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID: %w", err)
	}
	return t, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, filters model.TransactionFilters) (*model.TransactionPage, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	report.SortByDateDesc(all)
	page := report.Paginate(report.Search(all, filters.SearchQuery), filters.Page, filters.PerPage)
	return &page, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, id string, req model.UpdateTransactionRequest) (*model.Transaction, error) {
	patch, err := s.buildPatch(req)
	if err != nil {
		return nil, err
	}

	var updated model.Transaction
	err = s.uow.WithinTx(ctx, func(repos repository.Repositories) error {
		before, err := repos.Transactions.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}

		after := patch.Apply(*before)
		if !s.cls.IsGoalSavings(after.Category) && after.SavingsGoalID != nil {
			patch.ClearSavingsGoalID = true
			after.SavingsGoalID = nil
		}
		categoryChanged := patch.Category != nil || patch.Type != nil
		if err := s.validate(ctx, &after, categoryChanged); err != nil {
			return err
		}
		if err := s.checkGoal(ctx, repos, &after); err != nil {
			return err
		}

		if !patch.IsEmpty() {
			if err := repos.Transactions.Update(ctx, id, patch); err != nil {
				return err
			}
		}
		if err := s.applyDeltas(ctx, repos, reconcile.EditDeltas(before, &after, s.cls)); err != nil {
			return err
		}

		fresh, err := repos.Transactions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		updated = *fresh
		return nil
	})
	if err != nil {
		return nil, wrapUnlessDomain("failed to update transaction", err)
	}

	s.logger.Info("Transaction updated", zap.String("transaction_id", id))
	return &updated, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, id string) error {
	err := s.uow.WithinTx(ctx, func(repos repository.Repositories) error {
		before, err := repos.Transactions.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if err := repos.Transactions.Delete(ctx, id); err != nil {
			return err
		}
		return s.applyDeltas(ctx, repos, reconcile.EditDeltas(before, nil, s.cls))
	})
	if err != nil {
		return wrapUnlessDomain("failed to delete transaction", err)
	}

	s.logger.Info("Transaction deleted", zap.String("transaction_id", id))
	return nil
}

// validate checks the cross-field rules of a complete transaction and drops a
// goal reference on categories that cannot carry one. Category membership in the
// settings is only checked when checkCategory is set.
func (s *transactionService) validate(ctx context.Context, t *model.Transaction, checkCategory bool) error {
	if t.Type != model.TransactionTypeIncome && t.Type != model.TransactionTypeExpense {
		return model.NewValidationError("type", "must be income or expense")
	}
	if t.Category == "" {
		return model.NewValidationError("category", "is required")
	}
	if t.Amount.IsNegative() {
		return model.NewValidationError("amount", "must not be negative")
	}

	isSavings := s.cls.IsGoalSavings(t.Category) || s.cls.IsGeneralSavings(t.Category)
	if isSavings && t.Type != model.TransactionTypeExpense {
		return model.NewValidationError("category", t.Category+" is only valid for expenses")
	}
	if !isSavings && checkCategory {
		settings, err := s.settings.GetSettings(ctx)
		if err != nil {
			return err
		}
		if !settings.HasCategory(t.Type, t.Category) {
			return model.NewValidationError("category", fmt.Sprintf("unknown %s category %q", t.Type, t.Category))
		}
	}

	if s.cls.IsGoalSavings(t.Category) {
		if t.SavingsGoalID == nil {
			return model.NewValidationError("savings_goal_id", "is required for "+t.Category)
		}
	} else {
		t.SavingsGoalID = nil
	}
	return nil
}

// checkGoal makes sure the goal a transaction contributes to exists
func (s *transactionService) checkGoal(ctx context.Context, repos repository.Repositories, t *model.Transaction) error {
	goalID, _, ok := reconcile.Contribution(*t, s.cls)
	if !ok {
		return nil
	}
	if _, err := repos.Goals.FindByID(ctx, goalID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewValidationError("savings_goal_id", fmt.Sprintf("savings goal %d does not exist", goalID))
		}
		return err
	}
	return nil
}

// applyDeltas writes saved amount adjustments in goal id order, the same order
// Recalculate locks goals in. A goal that disappeared is logged, the transaction
// write still goes through.
func (s *transactionService) applyDeltas(ctx context.Context, repos repository.Repositories, deltas []reconcile.Delta) error {
	slices.SortFunc(deltas, func(a, b reconcile.Delta) int { return cmp.Compare(a.GoalID, b.GoalID) })
	for _, d := range deltas {
		err := repos.Goals.AdjustSavedAmount(ctx, d.GoalID, d.Amount)
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Savings goal referenced by transaction no longer exists",
				zap.Int64("goal_id", d.GoalID), zap.String("delta", d.Amount.String()))
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *transactionService) buildPatch(req model.UpdateTransactionRequest) (model.TransactionPatch, error) {
	patch := model.TransactionPatch{
		Type:          req.Type,
		Description:   req.Description,
		SavingsGoalID: req.SavingsGoalID,
	}
	if req.Category != nil {
		c := strings.TrimSpace(*req.Category)
		patch.Category = &c
	}
	if req.Item != nil {
		item := strings.TrimSpace(*req.Item)
		patch.Item = &item
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return patch, err
		}
		patch.Amount = &amount
	}
	if req.Date != nil {
		date, err := s.parseDate(*req.Date)
		if err != nil {
			return patch, err
		}
		patch.Date = &date
	}
	return patch, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, model.NewValidationError("amount", "must be a decimal number")
	}
	if amount.IsNegative() {
		return decimal.Zero, model.NewValidationError("amount", "must not be negative")
	}
	if err := model.CheckMoney("amount", amount); err != nil {
		return decimal.Zero, err
	}
	return amount, nil
}

// parseDate parses a YYYY-MM-DD date to midnight UTC. An empty value means today.
func (s *transactionService) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return time.Time{}, model.NewValidationError("date", "invalid date, use YYYY-MM-DD")
	}
	return date, nil
}

// wrapUnlessDomain adds context to infrastructure errors and passes validation
// and not-found errors through untouched
func wrapUnlessDomain(msg string, err error) error {
	if errors.Is(err, model.ErrValidation) || errors.Is(err, model.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
