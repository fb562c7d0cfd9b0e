package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// Scheduler owns the periodic jobs: the report runner, the alert evaluator
// and the SLA breach sweep. Each job runs on its own ticker goroutine.
type Scheduler struct {
	cfg     config.SchedulerConfig
	reports *service.ReportService
	alerts  *service.AlertService
	breach  *service.BreachService
	logger  *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler wires the jobs.
func NewScheduler(cfg config.SchedulerConfig, reports *service.ReportService, alerts *service.AlertService, breach *service.BreachService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		reports: reports,
		alerts:  alerts,
		breach:  breach,
		logger:  logger,
	}
}

// Start launches the job loops. No-op when the scheduler is disabled.
func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.run(ctx, "auto_reports", time.Duration(s.cfg.ReportIntervalSeconds)*time.Second, func(ctx context.Context, now time.Time) error {
		ran, err := s.reports.RunDue(ctx, now)
		if err == nil && ran > 0 {
			s.logger.Info("reports generated", zap.Int("count", ran))
		}
		return err
	})
	s.run(ctx, "smart_alerts", time.Duration(s.cfg.AlertIntervalSeconds)*time.Second, func(ctx context.Context, now time.Time) error {
		_, err := s.alerts.Evaluate(ctx, now)
		return err
	})
	s.run(ctx, "sla_breach_sweep", time.Duration(s.cfg.BreachIntervalSeconds)*time.Second, func(ctx context.Context, now time.Time) error {
		_, err := s.breach.Sweep(ctx, now)
		return err
	})

	s.logger.Info("scheduler started",
		zap.Int("report_interval_s", s.cfg.ReportIntervalSeconds),
		zap.Int("alert_interval_s", s.cfg.AlertIntervalSeconds),
		zap.Int("breach_interval_s", s.cfg.BreachIntervalSeconds))
}

// Stop signals all job loops and waits for the running pass to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, name string, interval time.Duration, job func(context.Context, time.Time) error) {
	if interval <= 0 {
		interval = time.Minute
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if err := job(ctx, now); err != nil && ctx.Err() == nil {
					s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
				}
			}
		}
	}()
}
