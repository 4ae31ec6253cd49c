// Package scheduler runs saved scheduled policies on their cron
// schedules, for the headless daemon mode.
package scheduler

import (
	"context"
	"io"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/sgaunet/s3migrate/pkg/policy"
)

// Runner applies a policy. *orchestrate.Orchestrator satisfies it.
type Runner interface {
	ApplyPolicy(ctx context.Context, p policy.Policy) error
}

// Scheduler manages the cron entries for scheduled policies.
type Scheduler struct {
	cron   *cron.Cron
	store  *policy.Store
	runner Runner
	log    *slog.Logger
}

// New creates a scheduler instance.
func New(store *policy.Store, runner Runner) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		runner: runner,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the scheduler.
func (s *Scheduler) SetLogger(log *slog.Logger) {
	s.log = log
}

// Start registers one cron entry per scheduled policy and starts the
// scheduler. Policies with an invalid schedule are skipped and logged,
// they cannot stop the others from running.
func (s *Scheduler) Start(ctx context.Context) error {
	registered := 0
	for _, p := range s.store.Policies() {
		if !p.Scheduled {
			continue
		}
		p := p
		_, err := s.cron.AddFunc(p.Schedule, func() {
			s.log.Info("Running scheduled policy",
				slog.String("policy", p.ID),
				slog.String("bucket", p.Bucket))
			if err := s.runner.ApplyPolicy(ctx, p); err != nil {
				s.log.Error("Scheduled policy failed",
					slog.String("policy", p.ID),
					slog.String("error", err.Error()))
			}
		})
		if err != nil {
			s.log.Error("Skipping policy with invalid schedule",
				slog.String("policy", p.ID),
				slog.String("schedule", p.Schedule),
				slog.String("error", err.Error()))
			continue
		}
		registered++
	}
	s.log.Info("Starting scheduler", slog.Int("policies", registered))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler")
	s.cron.Stop()
}
