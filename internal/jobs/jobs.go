// Package jobs runs the server's scheduled maintenance tasks.
package jobs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/lobby/internal/metrics"
)

const defaultJobTimeout = 5 * time.Minute

// Func is one run of a job.
type Func func(ctx context.Context) error

// Scheduler runs jobs on cron schedules in a fixed timezone.
type Scheduler struct {
	cron    *cron.Cron
	metrics *metrics.Metrics
	timeout time.Duration
	base    context.Context
}

func NewScheduler(loc *time.Location, m *metrics.Metrics) *Scheduler {
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		metrics: m,
		timeout: defaultJobTimeout,
		base:    context.Background(),
	}
}

// DailySpec turns a wall clock time "HH:MM" into a cron spec.
func DailySpec(at string) (string, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(at), ":")
	if !ok {
		return "", fmt.Errorf("invalid time of day %q, want HH:MM", at)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", at)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", at)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// AddDaily schedules fn once a day at "HH:MM" in the scheduler's timezone.
func (s *Scheduler) AddDaily(name, at string, fn Func) error {
	spec, err := DailySpec(at)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, s.wrap(name, fn)); err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	log.Info().Str("job", name).Str("at", at).Str("spec", spec).Msg("[jobs] scheduled")
	return nil
}

func (s *Scheduler) wrap(name string, fn Func) func() {
	return func() {
		ctx, cancel := context.WithTimeout(s.base, s.timeout)
		defer cancel()

		start := time.Now()
		err := fn(ctx)
		s.metrics.JobRun(name, err)
		if err != nil {
			log.Error().Err(err).Str("job", name).Msg("[jobs] run failed")
			return
		}
		log.Info().Str("job", name).Dur("took", time.Since(start)).Msg("[jobs] run finished")
	}
}

// Start runs the scheduler until ctx is done. Running jobs see ctx canceled.
func (s *Scheduler) Start(ctx context.Context) {
	s.base = ctx
	s.cron.Start()
	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		log.Info().Msg("[jobs] scheduler stopped")
	}()
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("[jobs] " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("[jobs] " + msg)
}
