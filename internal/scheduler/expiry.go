package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StaleMatchExpirer is implemented by matching.Service
type StaleMatchExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

type ExpiryChecker struct {
	matches  StaleMatchExpirer
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

func New(matches StaleMatchExpirer, interval time.Duration, logger *zap.Logger) *ExpiryChecker {
	return &ExpiryChecker{
		matches:  matches,
		interval: interval,
		timeout:  time.Minute,
		logger:   logger,
	}
}

// Start sweeps once immediately and then on every tick until ctx is done
func (ec *ExpiryChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(ec.interval)
	defer ticker.Stop()

	ec.logger.Info("expiry checker started",
		zap.Duration("interval", ec.interval),
	)

	ec.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			ec.logger.Info("expiry checker stopped")
			return
		case <-ticker.C:
			ec.sweep(ctx)
		}
	}
}

func (ec *ExpiryChecker) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, ec.timeout)
	defer cancel()

	start := time.Now()

	expired, err := ec.matches.ExpireStale(sweepCtx)
	if err != nil {
		ec.logger.Error("failed to expire stale matches",
			zap.Int("expired", expired),
			zap.Error(err),
		)
		return
	}

	if expired == 0 {
		ec.logger.Debug("no stale matches")
		return
	}

	ec.logger.Info("stale matches expired",
		zap.Int("count", expired),
		zap.Duration("duration", time.Since(start)),
	)
}
