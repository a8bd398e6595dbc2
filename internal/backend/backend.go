package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"budget_tracker/internal/config"
	"budget_tracker/internal/reconcile"
	"budget_tracker/internal/repository"
	"budget_tracker/internal/repository/memory"
	"budget_tracker/internal/service"
	"budget_tracker/internal/utils"
)

// Stores groups the repositories of one data backend
type Stores struct {
	UnitOfWork   repository.UnitOfWork
	Transactions repository.TransactionRepository
	Goals        repository.SavingsGoalRepository
	Settings     repository.SettingsRepository
	Users        repository.UserRepository

	// Ping reports whether the backend is reachable
	Ping  func(ctx context.Context) error
	Close func()
}

// Open connects the backend selected by cfg.DataBackend. For postgres the
// pending migrations are applied before the stores are returned.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.DataBackend {
	case config.BackendMemory:
		logger.Warn("Using the in-memory backend, data is lost on restart")
		return Memory(memory.NewStore()), nil

	case config.BackendPostgres:
		pool, err := config.ConnectDB(ctx, cfg.DSN(), logger)
		if err != nil {
			return nil, err
		}
		if err := config.RunMigrations(pool, logger); err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			UnitOfWork:   repository.NewUnitOfWork(pool, logger),
			Transactions: repository.NewTransactionRepository(pool),
			Goals:        repository.NewSavingsGoalRepository(pool),
			Settings:     repository.NewSettingsRepository(pool),
			Users:        repository.NewUserRepository(pool),
			Ping:         pool.Ping,
			Close:        pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
}

// Memory wraps an in-memory store
func Memory(store *memory.Store) *Stores {
	return &Stores{
		UnitOfWork:   store,
		Transactions: store.Transactions(),
		Goals:        store.Goals(),
		Settings:     store.Settings(),
		Users:        store.Users(),
		Ping:         func(context.Context) error { return nil },
		Close:        func() {},
	}
}

// Services is the full service layer built on one set of stores
type Services struct {
	Transactions service.TransactionService
	Goals        service.GoalService
	Reports      service.ReportService
	Settings     service.SettingsService
	Auth         service.AuthService
}

func NewServices(s *Stores, cfg *config.Config, jwtUtil *utils.JWTUtil, logger *zap.Logger) *Services {
	cls := reconcile.DefaultClassifier
	loc := cfg.Location()

	settings := service.NewSettingsService(s.Settings, logger.Named("settings"))
	goals := service.NewGoalService(s.UnitOfWork, s.Goals, cls, logger.Named("goals"))
	return &Services{
		Transactions: service.NewTransactionService(s.UnitOfWork, s.Transactions, settings, cls, loc, logger.Named("transactions")),
		Goals:        goals,
		Reports:      service.NewReportService(s.Transactions, goals, settings, cls, loc, logger.Named("reports")),
		Settings:     settings,
		Auth:         service.NewAuthService(s.Users, jwtUtil, cfg.InitialAdminUsername, logger.Named("auth")),
	}
}
