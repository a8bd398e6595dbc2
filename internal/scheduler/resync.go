package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"budget_tracker/internal/model"
)

// Recalculator is the part of the goal service the scheduler drives
type Recalculator interface {
	Recalculate(ctx context.Context) ([]model.SavingsGoal, error)
}

// ResyncScheduler periodically recomputes every savings goal's saved amount
// from the transactions, correcting drift left by failed or concurrent writes.
type ResyncScheduler struct {
	cron    *cron.Cron
	goals   Recalculator
	timeout time.Duration
	logger  *zap.Logger
}

func NewResyncScheduler(goals Recalculator, loc *time.Location, logger *zap.Logger) *ResyncScheduler {
	return &ResyncScheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		goals:   goals,
		timeout: time.Minute,
		logger:  logger,
	}
}

// Start runs one resync immediately and then on every tick of schedule
func (s *ResyncScheduler) Start(schedule string) error {
	s.logger.Info("Starting the savings goal resync handler..", zap.String("schedule", schedule))

	if _, err := s.cron.AddFunc(schedule, s.resync); err != nil {
		return fmt.Errorf("failed to schedule goal resync: %w", err)
	}
	s.resync()
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running resync to finish
func (s *ResyncScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *ResyncScheduler) resync() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	goals, err := s.goals.Recalculate(ctx)
	if err != nil {
		s.logger.Error("Error resyncing savings goals", zap.Error(err))
		return
	}
	s.logger.Info("Savings goals resynced", zap.Int("goals", len(goals)), zap.Duration("took", time.Since(start)))
}
