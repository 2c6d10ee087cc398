package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"booking-system/internal/booking/domain/repository"

	"go.uber.org/zap"
)

// Sweeper periodically removes bookings whose scheduled date has passed.
// It holds no persisted state of its own: every sweep derives entirely from
// the wall clock and the booking collection's date field.
type Sweeper struct {
	repo     repository.BookingRepository
	interval time.Duration
	logger   *zap.Logger
	clock    func() time.Time

	// running guards against overlapping sweeps: a tick that fires while a
	// sweep is still in flight is skipped, never run concurrently.
	running  atomic.Bool
	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper creates an expiration sweeper over the booking repository.
func NewSweeper(repo repository.BookingRepository, interval time.Duration, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		repo:     repo,
		interval: interval,
		logger:   logger,
		clock:    time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// WithClock overrides the wall-clock source, used by tests.
func (s *Sweeper) WithClock(clock func() time.Time) *Sweeper {
	s.clock = clock
	return s
}

// Start launches the periodic sweep loop in its own goroutine. The loop runs
// until Stop is called or the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

// Stop terminates the sweep loop and waits for it to exit. An in-flight
// sweep is not interrupted; its single bulk delete is atomic from the
// caller's viewpoint.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		if s.started.Load() {
			<-s.done
		}
	})
}

// RunOnce performs a single sweep: one bulk deletion of every booking dated
// strictly before now. Errors are logged, never propagated; the next tick
// retries naturally. Returns the number of bookings removed and whether the
// sweep actually ran.
func (s *Sweeper) RunOnce(ctx context.Context) (int64, bool) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("sweep already in progress, skipping tick")
		return 0, false
	}
	defer s.running.Store(false)

	now := s.clock()
	deleted, err := s.repo.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("expired booking sweep failed",
			zap.Time("cutoff", now),
			zap.Error(err))
		return 0, true
	}

	if deleted > 0 {
		s.logger.Info("expired bookings removed",
			zap.Time("cutoff", now),
			zap.Int64("deleted", deleted))
	}

	return deleted, true
}
