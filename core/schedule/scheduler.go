package schedule

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Job is the work run at each scheduled time.
type Job func(ctx context.Context)

// Scheduler fires a job at fixed times of day.
type Scheduler struct {
	clock  Clock
	logger *zap.Logger
}

// New creates a scheduler. A nil clock uses the system clock.
func New(clock Clock, logger *zap.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{clock: clock, logger: logger}
}

// Run fires job at each of times until ctx is cancelled. It returns
// ctx.Err() on cancellation.
func (s *Scheduler) Run(ctx context.Context, times []Time, job Job) error {
	if len(times) == 0 {
		return errors.New("no refresh times configured")
	}
	for {
		now := s.clock.Now()
		next := Next(now, times)
		s.logger.Debug("Next scheduled run", zap.Time("at", next))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(next.Sub(now)):
			job(ctx)
		}
	}
}
