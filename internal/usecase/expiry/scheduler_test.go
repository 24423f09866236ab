package expiry

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/domain/job"
	"jobboard/internal/testutil"
	"jobboard/internal/usecase"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// manualTicker hands the scheduler a tick channel the test drives.
func manualTicker(s *Scheduler) chan time.Time {
	ch := make(chan time.Time)
	s.newTicker = func(time.Duration) (<-chan time.Time, func()) { return ch, func() {} }
	return ch
}

type sweeperFunc func(ctx context.Context, now time.Time) (int64, error)

func (f sweeperFunc) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	return f(ctx, now)
}

func TestSweepOnce_RemovesEveryExpiredJob(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	owner := uuid.New()
	store := testutil.NewJobStore()
	for i := range 5 {
		j := testutil.NewJob(owner, job.TypePartTime, true, now.Add(-time.Duration(20+i*2)*time.Hour))
		require.NoError(t, store.Create(context.Background(), j))
	}
	events := &testutil.Events{}
	jobs := usecase.NewJobUsecase(store, testutil.NewCache(), events, zap.NewNop())

	s := NewScheduler(jobs, config.ExpiryConfig{}, zap.NewNop())
	s.now = func() time.Time { return now }

	n, err := s.SweepOnce(context.Background())
	require.NoError(t, err)
	// Jobs created 26h and 28h ago expired 2h and 4h ago; 24h exactly is still open.
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 3, store.Len())

	remaining, err := store.ListAll(context.Background())
	require.NoError(t, err)
	for _, j := range remaining {
		assert.False(t, j.IsExpired(now))
	}
	assert.Equal(t, []job.EventType{job.EventExpired}, events.Types())
}

func TestScheduler_FailedSweepDoesNotStopSchedule(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	var calls atomic.Int32
	done := make(chan struct{}, 4)
	sweeper := sweeperFunc(func(context.Context, time.Time) (int64, error) {
		defer func() { done <- struct{}{} }()
		if calls.Add(1) == 1 {
			return 0, errors.New("database is down")
		}
		return 3, nil
	})

	s := NewScheduler(sweeper, config.ExpiryConfig{SweepInterval: time.Hour}, zap.New(core))
	tick := manualTicker(s)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	tick <- time.Now()
	<-done
	tick <- time.Now()
	<-done

	assert.Equal(t, int32(2), calls.Load())
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("expiry sweep failed").Len() == 1 &&
			logs.FilterMessage("expired jobs removed").Len() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopWaitsForInflightSweep(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	sweeper := sweeperFunc(func(ctx context.Context, _ time.Time) (int64, error) {
		close(entered)
		<-release
		finished.Store(true)
		return 0, ctx.Err()
	})

	s := NewScheduler(sweeper, config.ExpiryConfig{}, zap.NewNop())
	tick := manualTicker(s)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	tick <- time.Now()
	<-entered

	// Cancelling the start context must not abort the running sweep.
	cancel()

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a sweep was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-stopped
	assert.True(t, finished.Load())
}

func TestScheduler_SweepOnStartAndDoubleStart(t *testing.T) {
	var mu sync.Mutex
	var seen []time.Time
	swept := make(chan struct{}, 1)
	sweeper := sweeperFunc(func(_ context.Context, now time.Time) (int64, error) {
		mu.Lock()
		seen = append(seen, now)
		mu.Unlock()
		swept <- struct{}{}
		return 0, nil
	})

	s := NewScheduler(sweeper, config.ExpiryConfig{SweepOnStart: true}, zap.NewNop())
	manualTicker(s)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyStarted)
	<-swept
	s.Stop()
	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 1)
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(sweeperFunc(nil), config.ExpiryConfig{}, nil)
	assert.Equal(t, time.Hour, s.interval)
	assert.Equal(t, 30*time.Second, s.timeout)

	// Stop before Start is a no-op.
	s.Stop()
}
