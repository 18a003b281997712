// Package jobs runs the background schedules.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"questline/internal/clock"
	"questline/internal/domain"
	"questline/internal/logger"
	"questline/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

const sweepTimeout = time.Minute

var (
	sweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "questline",
			Subsystem: "daily_reset",
			Name:      "sweeps_total",
			Help:      "Daily reset sweeps, by timezone and outcome",
		},
		[]string{"timezone", "status"},
	)
	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "questline",
		Subsystem: "daily_reset",
		Name:      "sweep_duration_seconds",
		Help:      "Time spent on one timezone sweep",
		Buckets:   prometheus.DefBuckets,
	})
)

// Scheduler fires the daily reset at local midnight of every configured
// timezone. Daily repeatability is derived from completion history, so a
// sweep only reports what became completable; it never mutates tasks.
type Scheduler struct {
	cron      *cron.Cron
	tasks     service.TaskStore
	audit     *service.AuditService
	clock     clock.Clock
	timezones []string
	log       *logger.Logger

	mu        sync.Mutex
	lastSwept map[string]string // timezone -> local day
}

func NewScheduler(tasks service.TaskStore, audit *service.AuditService, clk clock.Clock, timezones []string) *Scheduler {
	log := logger.With("component", "daily_reset")
	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.Recover(cronLogger{log}))),
		tasks:     tasks,
		audit:     audit,
		clock:     clk,
		timezones: timezones,
		log:       log,
		lastSwept: map[string]string{},
	}
}

// Start registers one midnight entry per timezone and starts the cron loop.
func (s *Scheduler) Start() error {
	for _, tz := range s.timezones {
		if _, err := clock.Location(tz); err != nil {
			return fmt.Errorf("timezone %q: %w", tz, err)
		}
		tz := tz
		if _, err := s.cron.AddFunc("CRON_TZ="+tz+" 0 0 * * *", func() { s.scheduled(tz) }); err != nil {
			return fmt.Errorf("schedule %q: %w", tz, err)
		}
	}
	s.cron.Start()
	s.log.Info("daily reset scheduler started", "timezones", s.timezones)
	return nil
}

// Stop waits for running sweeps or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("daily reset scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("daily reset scheduler stop timed out")
	}
}

// scheduled runs one cron firing. A failed run is logged and not retried;
// the next midnight covers the following day.
func (s *Scheduler) scheduled(tz string) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if _, err := s.Sweep(ctx, tz, false); err != nil {
		s.log.Error("daily reset failed", "timezone", tz, "error", err)
	}
}

// Sweep processes one timezone for the local day that contains now.
// Unforced sweeps of an already swept day are skipped.
func (s *Scheduler) Sweep(ctx context.Context, tz string, forced bool) (domain.DailySweep, error) {
	started := time.Now()
	defer func() { sweepDuration.Observe(time.Since(started).Seconds()) }()

	loc, err := clock.Location(tz)
	if err != nil {
		sweepsTotal.WithLabelValues(tz, "error").Inc()
		return domain.DailySweep{}, fmt.Errorf("timezone %q: %w", tz, err)
	}
	sweep := domain.DailySweep{Timezone: tz, LocalDay: clock.DayKey(s.clock.Now(), loc)}

	if !forced && !s.claim(tz, sweep.LocalDay) {
		sweepsTotal.WithLabelValues(tz, "skipped").Inc()
		s.log.Debug("daily reset already ran", "timezone", tz, "local_day", sweep.LocalDay)
		return sweep, nil
	}

	sweep.Users, sweep.DailyTasks, err = s.tasks.DailyDue(ctx, tz)
	if err != nil {
		sweepsTotal.WithLabelValues(tz, "error").Inc()
		return sweep, fmt.Errorf("count daily tasks in %s: %w", tz, err)
	}

	sweepsTotal.WithLabelValues(tz, "ok").Inc()
	s.log.Info("daily tasks reset",
		"timezone", tz, "local_day", sweep.LocalDay,
		"users", sweep.Users, "daily_tasks", sweep.DailyTasks, "forced", forced)
	s.audit.LogSweep(ctx, sweep, forced)
	return sweep, nil
}

func (s *Scheduler) claim(tz, day string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSwept[tz] == day {
		return false
	}
	s.lastSwept[tz] = day
	return true
}

// ForceReset sweeps every configured timezone now.
func (s *Scheduler) ForceReset(ctx context.Context) domain.ResetResult {
	g, ctx := errgroup.WithContext(ctx)
	for _, tz := range s.timezones {
		tz := tz
		g.Go(func() error {
			_, err := s.Sweep(ctx, tz, true)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("forced daily reset failed", "error", err)
		return domain.ResetResult{Success: false, Message: "Error: " + err.Error()}
	}
	return domain.ResetResult{Success: true, Message: "Daily tasks reset successfully"}
}

// Entries reports the next firing time per timezone, in schedule order.
func (s *Scheduler) Entries() []time.Time {
	var res []time.Time
	for _, e := range s.cron.Entries() {
		res = append(res, e.Next)
	}
	return res
}

type cronLogger struct{ l *logger.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
