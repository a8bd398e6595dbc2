package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
	"budget_tracker/internal/repository"
)

// SettingsService provides the configured categories and the monthly savings goal
type SettingsService interface {
	GetSettings(ctx context.Context) (*model.Settings, error)
	UpdateMonthlySavingsGoal(ctx context.Context, amount string) (*model.Settings, error)
}

type settingsService struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) SettingsService {
	return &settingsService{repo: repo, logger: logger}
}

// GetSettings loads the stored settings, filling missing sections with defaults.
// The defaults are persisted on first use.
func (s *settingsService) GetSettings(ctx context.Context) (*model.Settings, error) {
	stored, err := s.repo.Get(ctx)
	if errors.Is(err, model.ErrNotFound) {
		defaults := model.DefaultSettings()
		if err := s.repo.Save(ctx, &defaults); err != nil {
			return nil, fmt.Errorf("failed to store default settings: %w", err)
		}
		s.logger.Info("Stored default settings")
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	merged := stored.WithDefaults()
	return &merged, nil
}

func (s *settingsService) UpdateMonthlySavingsGoal(ctx context.Context, amount string) (*model.Settings, error) {
	goal, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, model.NewValidationError("monthly_savings_goal", "must be a number")
	}
	if goal.IsNegative() {
		return nil, model.NewValidationError("monthly_savings_goal", "must not be negative")
	}
	if err := model.CheckMoney("monthly_savings_goal", goal); err != nil {
		return nil, err
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	settings.MonthlySavingsGoal = goal
	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info("Monthly savings goal updated", zap.String("monthly_savings_goal", goal.String()))
	return settings, nil
}
