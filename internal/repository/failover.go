package repository

import (
	"context"
	"sync/atomic"
	"time"

	"hotelbooking/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// failover remembers whether the primary backend is down and when it was last probed.
type failover struct {
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

// usePrimary reports whether the next call should go to the primary backend.
func (f *failover) usePrimary() bool {
	if !f.isDown.Load() {
		return true
	}
	// Try to recover after 1 minute
	return time.Since(time.Unix(0, f.lastCheck.Load())) > recoveryInterval
}

// observe records the outcome of a primary call. Domain errors such as lock
// contention are answers, not outages.
func (f *failover) observe(err error) bool {
	if err == nil || domain.KindOf(err) != nil || err == context.Canceled {
		if f.isDown.CompareAndSwap(true, false) {
			f.logger.Info().Msg("Primary backend recovered")
		}
		return true
	}
	if !f.isDown.Swap(true) {
		f.logger.Error().Err(err).Msg("Primary backend failed, falling back to memory")
	}
	f.lastCheck.Store(time.Now().UnixNano())
	return false
}

type FailoverRoomLocker struct {
	failover
	primary  domain.RoomLocker
	fallback domain.RoomLocker
}

func NewFailoverRoomLocker(primary, fallback domain.RoomLocker, logger *zerolog.Logger) *FailoverRoomLocker {
	return &FailoverRoomLocker{
		failover: failover{logger: logger},
		primary:  primary,
		fallback: fallback,
	}
}

func (r *FailoverRoomLocker) Lock(ctx context.Context, roomID int64) (func(), error) {
	if r.usePrimary() {
		unlock, err := r.primary.Lock(ctx, roomID)
		if r.observe(err) {
			return unlock, err
		}
	}
	return r.fallback.Lock(ctx, roomID)
}

type FailoverAttemptLimiter struct {
	failover
	primary  domain.AttemptLimiter
	fallback domain.AttemptLimiter
}

func NewFailoverAttemptLimiter(primary, fallback domain.AttemptLimiter, logger *zerolog.Logger) *FailoverAttemptLimiter {
	return &FailoverAttemptLimiter{
		failover: failover{logger: logger},
		primary:  primary,
		fallback: fallback,
	}
}

func (r *FailoverAttemptLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.Allow(ctx, key, limit, window)
		if r.observe(err) {
			return allowed, err
		}
	}
	return r.fallback.Allow(ctx, key, limit, window)
}
