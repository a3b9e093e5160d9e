package jobs

import (
	"context"
	"time"

	"crowdfund/internal/logger"
)

// TokenPurger deletes expired refresh tokens
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// TokenCleanup removes expired refresh tokens on a fixed interval
type TokenCleanup struct {
	purger   TokenPurger
	interval time.Duration
	timeout  time.Duration
}

// NewTokenCleanup creates a new token cleanup job
func NewTokenCleanup(purger TokenPurger, interval time.Duration) *TokenCleanup {
	return &TokenCleanup{
		purger:   purger,
		interval: interval,
		timeout:  30 * time.Second,
	}
}

func (j *TokenCleanup) Name() string {
	return "refresh-token-cleanup"
}

func (j *TokenCleanup) Interval() time.Duration {
	return j.interval
}

// Execute runs one purge pass
func (j *TokenCleanup) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	removed, err := j.purger.PurgeExpiredTokens(ctx)
	if err != nil {
		logger.Error("[TokenCleanup] Failed to purge expired refresh tokens: %v", err)
		return
	}
	if removed > 0 {
		logger.Info("[TokenCleanup] Removed %d expired refresh tokens", removed)
	}
}
