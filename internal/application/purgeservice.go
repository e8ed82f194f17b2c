package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/blogpanel/internal/domain/port/driven"
)

// PurgeService periodically removes persisted credentials that have not
// been written within maxAge. Login writes the token and every successful
// restore rewrites it. A browser session is restored whenever it comes back
// after the registry swept it as idle.
type PurgeService struct {
	purger   driven.TokenPurger
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewPurgeService creates a PurgeService. interval and maxAge must be positive.
func NewPurgeService(purger driven.TokenPurger, interval, maxAge time.Duration, logger *slog.Logger) *PurgeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PurgeService{
		purger:   purger,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
		logger:   logger,
	}
}

// Start runs an immediate purge, then one per interval. Start blocks until
// the context is canceled.
func (s *PurgeService) Start(ctx context.Context) {
	s.PurgeOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("token purge stopped")
			return
		case <-ticker.C:
			s.PurgeOnce(ctx)
		}
	}
}

// PurgeOnce removes stale tokens and returns how many were removed. Failures
// are logged and reported as zero.
func (s *PurgeService) PurgeOnce(ctx context.Context) int64 {
	cutoff := s.now().Add(-s.maxAge)
	n, err := s.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("token purge failed", "error", err)
		}
		return 0
	}
	if n > 0 {
		s.logger.Info("purged stale session tokens", "count", n, "cutoff", cutoff)
	}
	return n
}
