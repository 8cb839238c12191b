package repository

import (
	"context"
	"sync"
	"time"

	"hotelbooking/internal/domain"
)

// MemoryRoomLocker serializes room sections inside one process.
type MemoryRoomLocker struct {
	locks       sync.Map // roomID -> chan struct{}
	waitTimeout time.Duration
}

func NewMemoryRoomLocker(waitTimeout time.Duration) *MemoryRoomLocker {
	return &MemoryRoomLocker{waitTimeout: waitTimeout}
}

func (l *MemoryRoomLocker) Lock(ctx context.Context, roomID int64) (func(), error) {
	val, _ := l.locks.LoadOrStore(roomID, make(chan struct{}, 1))
	sem := val.(chan struct{})

	if l.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.waitTimeout)
		defer cancel()
	}

	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return nil, lockWaitError(ctx, roomID)
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-sem })
	}, nil
}

func lockWaitError(ctx context.Context, roomID int64) error {
	if ctx.Err() == context.DeadlineExceeded {
		return domain.Conflict("room %d is busy, try again", roomID)
	}
	return ctx.Err()
}

type MemoryAttemptLimiter struct {
	attempts sync.Map
	mu       sync.Mutex
}

func NewMemoryAttemptLimiter() *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{}
}

type attemptEntry struct {
	count     int
	expiresAt time.Time
}

func (r *MemoryAttemptLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	val, ok := r.attempts.Load(key)

	var entry *attemptEntry
	if !ok {
		entry = &attemptEntry{
			count:     1,
			expiresAt: now.Add(window),
		}
	} else {
		entry = val.(*attemptEntry)
		if now.After(entry.expiresAt) {
			entry.count = 1
			entry.expiresAt = now.Add(window)
		} else {
			entry.count++
		}
	}

	r.attempts.Store(key, entry)
	return entry.count <= limit, nil
}
