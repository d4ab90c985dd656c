package scheduler

import (
	"context"
	"fmt"
	"time"

	"sarana/config"
	"sarana/infras/otel"
	approvalService "sarana/internal/domains/approval/service"
	catalogService "sarana/internal/domains/catalog/service"
	notificationService "sarana/internal/domains/notification/service"
	"sarana/shared/constant"
	"sarana/shared/timezone"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const jobTimeout = 50 * time.Second

type job struct {
	name string
	spec string
	run  func(ctx context.Context) (int, error)
}

// Scheduler runs the periodic maintenance jobs: lapsed approvals become completed, unit statuses
// follow the clock, and undelivered notifications are redriven.
type Scheduler struct {
	cron *cron.Cron
	cfg  *config.Config
	otel otel.Otel
	jobs []job
}

func New(
	cfg *config.Config,
	otel otel.Otel,
	approvals approvalService.Approval,
	catalog catalogService.Catalog,
	notifier notificationService.Notifier,
) *Scheduler {
	logger := cronLogger{}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(timezone.GetLocation()),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		cfg:  cfg,
		otel: otel,
		jobs: []job{
			{name: "sweep_lapsed", spec: cfg.Scheduler.SweepSpec, run: approvals.SweepLapsed},
			{name: "refresh_statuses", spec: cfg.Scheduler.RefreshSpec, run: catalog.RefreshStatuses},
			{name: "redrive_notifications", spec: cfg.Scheduler.RedriveSpec, run: notifier.Redrive},
		},
	}
}

// Start registers every job and starts the cron loop. It is a no-op when the scheduler is disabled.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Scheduler.Enable {
		log.Info().Msg("scheduler disabled")

		return nil
	}

	for _, j := range s.jobs {
		if _, err := s.cron.AddFunc(j.spec, func() { s.run(ctx, j) }); err != nil {
			return fmt.Errorf("failed to schedule %s (%q): %w", j.name, j.spec, err)
		}

		log.Info().Str("job", j.name).Str("spec", j.spec).Msg("job scheduled")
	}

	s.cron.Start()

	return nil
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run(parent context.Context, j job) {
	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	ctx, scope := s.otel.NewScope(ctx, constant.OtelSchedulerScopeName, constant.OtelSchedulerScopeName+"."+j.name)
	defer scope.End()

	started := time.Now()

	n, err := j.run(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("job", j.name).Msg("scheduled job failed")

		return
	}

	scope.SetAttribute("affected", n)

	if n > 0 {
		log.Info().Str("job", j.name).Int("affected", n).Dur("took", time.Since(started)).Msg("scheduled job finished")
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
