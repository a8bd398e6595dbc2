package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"budget_tracker/internal/model"
	"budget_tracker/internal/reconcile"
	"budget_tracker/internal/report"
	"budget_tracker/internal/repository"
)

// ReportService builds report views over all stored transactions
type ReportService interface {
	GenerateReport(ctx context.Context, req model.ReportRequest) (*model.ReportView, error)
}

type reportService struct {
	repo     repository.TransactionRepository
	goals    GoalService
	settings SettingsService
	cls      reconcile.Classifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a new ReportService. Periods are anchored at the current time in loc.
func NewReportService(repo repository.TransactionRepository, goals GoalService, settings SettingsService,
	cls reconcile.Classifier, loc *time.Location, logger *zap.Logger) ReportService {
	return &reportService{
		repo:     repo,
		goals:    goals,
		settings: settings,
		cls:      cls,
		logger:   logger,
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

func (s *reportService) GenerateReport(ctx context.Context, req model.ReportRequest) (*model.ReportView, error) {
	var (
		txs      []model.Transaction
		settings *model.Settings
		goals    []model.SavingsGoal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.repo.FindAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.settings.GetSettings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = s.goals.Recalculate(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load report data: %w", err)
	}

	rep, err := report.Generate(txs, s.cls, report.Params{
		Period:    req.Period,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if rep.SkippedTransactions > 0 {
		s.logger.Warn("Transactions without a usable date were left out of the report", zap.Int("count", rep.SkippedTransactions))
	}

	searched := report.Search(rep.Transactions, req.SearchQuery)
	view := &model.ReportView{
		Report:                rep,
		Displayed:             report.Paginate(searched, req.Page, req.PerPage),
		DisplayedTotalExpense: report.TotalExpense(searched),
		SavingsGoals:          make([]model.SavingsGoalView, 0, len(goals)),
		GeneralSavingsTotal:   reconcile.GeneralSavingsTotal(txs, s.cls),
	}
	for _, goal := range goals {
		view.SavingsGoals = append(view.SavingsGoals, model.NewSavingsGoalView(goal))
	}

	if rep.Period == model.PeriodMonthly {
		view.Budget = &model.MonthlyBudget{
			TotalBudget:       rep.TotalIncome,
			SavingsGoal:       settings.MonthlySavingsGoal,
			RemainingSpending: rep.TotalIncome.Sub(settings.MonthlySavingsGoal).Sub(view.DisplayedTotalExpense),
		}
	}
	return view, nil
}
