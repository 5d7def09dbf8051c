package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/fleetsight/gasdash-backend/internal/platform/dbctx"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
	"github.com/fleetsight/gasdash-backend/internal/services"
)

// Scheduler runs the two background jobs: the periodic incremental sync and
// the daily month-end check. The month-end job itself decides whether today
// is the first of the month; here it just gets a daily chance.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

func newScheduler(cfg Config, serviceset Services, log *logger.Logger) (*Scheduler, error) {
	schedLog := log.With("component", "Scheduler")
	c := cron.New()

	_, err := c.AddFunc(fmt.Sprintf("@every %s", cfg.SyncInterval), func() {
		result, err := serviceset.Sync.IncrementalResync(dbctx.Context{Ctx: context.Background()}, cfg.IncrementalLookback)
		if err != nil {
			schedLog.Error("scheduled incremental sync failed", "error", err)
			return
		}
		schedLog.Info("scheduled incremental sync done",
			"total", result.Total, "failed", result.Failed)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule incremental sync: %w", err)
	}

	// 00:10 daily; a no-op on every day but the 1st.
	_, err = c.AddFunc("10 0 * * *", func() {
		_, err := serviceset.History.MonthEndSnapshot(dbctx.Context{Ctx: context.Background()}, services.MonthEndOptions{
			RequestedBy: "scheduler",
			Reason:      "routine month-end snapshot",
		})
		if errors.Is(err, services.ErrNotMonthStart) {
			return
		}
		if err != nil {
			schedLog.Error("scheduled month-end snapshot failed", "error", err)
			return
		}
		schedLog.Info("scheduled month-end snapshot done")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule month-end snapshot: %w", err)
	}

	return &Scheduler{cron: c, log: schedLog}, nil
}

func (s *Scheduler) Start() {
	s.log.Info("Scheduler starting")
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}
