// Package scheduler runs the ingest job on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers one job on a standard five-field cron spec. Runs never
// overlap: a tick that fires while the job is still running is skipped.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	stop context.CancelFunc
}

// New registers job under spec. The job receives a context that is
// cancelled by Stop.
func New(spec string, job func(ctx context.Context)) (*Scheduler, error) {
	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() { job(ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("register ingest job %q: %w", spec, err)
	}
	return &Scheduler{cron: c, ctx: ctx, stop: cancel}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("scheduler started", "next", s.cron.Entries()[0].Next)
}

// Stop cancels a running job and waits for it to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.stop()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	slog.Info("scheduler stopped")
}
