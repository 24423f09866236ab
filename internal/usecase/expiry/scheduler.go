// Package expiry removes job postings whose expiry has passed.
package expiry

import (
	"context"
	"sync"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/logger"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Sweeper deletes jobs that expired strictly before now.
type Sweeper interface {
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler runs one sweep per interval until stopped. A failed sweep is
// logged and retried at the next tick.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	timeout  time.Duration
	onStart  bool
	logger   *zap.Logger

	now       func() time.Time
	newTicker func(time.Duration) (<-chan time.Time, func())

	mu      sync.Mutex
	stop    chan struct{}
	running sync.WaitGroup
}

func NewScheduler(sweeper Sweeper, cfg config.ExpiryConfig, log *zap.Logger) *Scheduler {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = time.Hour
	}
	timeout := cfg.SweepTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		timeout:  timeout,
		onStart:  cfg.SweepOnStart,
		logger:   logger.Named(log, "expiry"),
		now:      time.Now,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

var ErrAlreadyStarted = errors.New("expiry scheduler already started")

// Start launches the loop. It returns once the loop is running; cancelling
// ctx has the same effect as Stop without the wait.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return ErrAlreadyStarted
	}
	s.stop = make(chan struct{})

	tick, stopTicker := s.newTicker(s.interval)
	s.running.Add(1)
	go s.loop(ctx, s.stop, tick, stopTicker)

	s.logger.Info("expiry scheduler started",
		zap.Duration("interval", s.interval),
		zap.Bool("sweep_on_start", s.onStart),
	)
	return nil
}

// Stop prevents further ticks and waits for an in-flight sweep to finish.
// It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stop != nil {
		select {
		case <-s.stop:
		default:
			close(s.stop)
		}
	}
	s.mu.Unlock()

	s.running.Wait()
}

func (s *Scheduler) loop(ctx context.Context, stop <-chan struct{}, tick <-chan time.Time, stopTicker func()) {
	defer s.running.Done()
	defer stopTicker()

	if s.onStart {
		s.sweep()
	}

	for {
		select {
		case <-stop:
			s.logger.Info("expiry scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("expiry scheduler stopped", zap.Error(ctx.Err()))
			return
		case <-tick:
			s.sweep()
		}
	}
}

// sweep runs on its own context so shutdown never aborts a delete halfway.
func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.SweepOnce(ctx); err != nil {
		s.logger.Error("expiry sweep failed", zap.Error(err))
	}
}

// SweepOnce deletes every job that has expired by now and reports the count.
func (s *Scheduler) SweepOnce(ctx context.Context) (int64, error) {
	start := s.now()
	n, err := s.sweeper.ExpireBefore(ctx, start)
	if err != nil {
		return 0, errors.Wrap(err, "sweep expired jobs")
	}

	fields := []zap.Field{
		zap.Int64(logger.FieldCount, n),
		zap.Duration(logger.FieldLatency, s.now().Sub(start)),
	}
	if n > 0 {
		s.logger.Info("expired jobs removed", fields...)
	} else {
		s.logger.Debug("no expired jobs", fields...)
	}
	return n, nil
}
