/*budgetctl runs maintenance tasks against the configured data backend*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"budget_tracker/internal/backend"
	"budget_tracker/internal/config"
	"budget_tracker/internal/logger"
	"budget_tracker/internal/model"
	"budget_tracker/internal/utils"
)

// runContext is handed to every command
type runContext struct {
	cfg    *config.Config
	logger *zap.Logger
}

var cli struct {
	EnvFile string `name:"env-file" default:".env" help:"Optional .env file to load before reading the environment."`

	Migrate     migrateCmd     `cmd help:"Apply pending database migrations."`
	Recalculate recalculateCmd `cmd help:"Recompute every savings goal's saved amount from the transactions."`
	Report      reportCmd      `cmd help:"Print a period report as JSON."`
}

type migrateCmd struct{}

func (c *migrateCmd) Run(rc *runContext) error {
	if rc.cfg.DataBackend != config.BackendPostgres {
		return fmt.Errorf("migrations only apply to the postgres backend, got %q", rc.cfg.DataBackend)
	}
	pool, err := config.ConnectDB(context.Background(), rc.cfg.DSN(), rc.logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	return config.RunMigrations(pool, rc.logger)
}

type recalculateCmd struct{}

func (c *recalculateCmd) Run(rc *runContext) error {
	return withServices(rc, func(svc *backend.Services) error {
		goals, err := svc.Goals.Recalculate(context.Background())
		if err != nil {
			return err
		}
		views := make([]model.SavingsGoalView, 0, len(goals))
		for _, g := range goals {
			views = append(views, model.NewSavingsGoalView(g))
		}
		return printJSON(views)
	})
}

type reportCmd struct {
	Period  string `default:"monthly" help:"Report period (daily, weekly, monthly, yearly, last_year_to_date, custom)."`
	Start   string `name:"start" help:"Start date (YYYY-MM-DD) for custom periods."`
	End     string `name:"end" help:"End date (YYYY-MM-DD) for custom periods."`
	Search  string `help:"Only list transactions matching this text."`
	Page    int    `default:"1" help:"Page of the transaction list."`
	PerPage int    `name:"per-page" default:"50" help:"Transactions per page."`
}

func (c *reportCmd) Run(rc *runContext) error {
	return withServices(rc, func(svc *backend.Services) error {
		view, err := svc.Reports.GenerateReport(context.Background(), model.ReportRequest{
			Period:      c.Period,
			StartDate:   c.Start,
			EndDate:     c.End,
			SearchQuery: c.Search,
			Page:        c.Page,
			PerPage:     c.PerPage,
		})
		if err != nil {
			return err
		}
		return printJSON(view)
	})
}

func withServices(rc *runContext, fn func(*backend.Services) error) error {
	stores, err := backend.Open(context.Background(), rc.cfg, rc.logger)
	if err != nil {
		return err
	}
	defer stores.Close()
	return fn(backend.NewServices(stores, rc.cfg, utils.NewJWTUtil(rc.cfg.JWTSecretKey, rc.cfg.JWTExpirationHours), rc.logger))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx := kong.Parse(&cli, kong.Description("Maintenance commands for the budget tracker."))

	_ = godotenv.Load(cli.EnvFile)
	cfg := config.Load()
	// The CLI never issues tokens
	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = "unused"
	}
	if err := cfg.Validate(); err != nil {
		ctx.FatalIfErrorf(err)
	}

	zlog, err := logger.InitJSONLogger(cfg.LogLevel)
	ctx.FatalIfErrorf(err)
	defer zlog.Sync()

	err = ctx.Run(&runContext{cfg: cfg, logger: zlog})
	ctx.FatalIfErrorf(err)
}
