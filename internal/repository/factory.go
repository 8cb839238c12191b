package repository

import (
	"fmt"

	"hotelbooking/internal/config"
	"hotelbooking/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NewRoomLocker builds the room locker selected by cfg.Backend.
// client may be nil only for the memory backend.
func NewRoomLocker(cfg config.LockingConfig, client *redis.Client, logger *zerolog.Logger) (domain.RoomLocker, error) {
	memory := NewMemoryRoomLocker(cfg.WaitTimeout)
	switch cfg.Backend {
	case "memory":
		return memory, nil
	case "redis", "failover":
		if client == nil {
			return nil, fmt.Errorf("locking backend %q requires a redis client", cfg.Backend)
		}
		redisLocker := NewRedisRoomLocker(client, cfg.TTL, cfg.WaitTimeout)
		if cfg.Backend == "redis" {
			return redisLocker, nil
		}
		return NewFailoverRoomLocker(redisLocker, memory, logger), nil
	default:
		return nil, fmt.Errorf("unknown locking backend %q", cfg.Backend)
	}
}

// NewAttemptLimiter mirrors NewRoomLocker for login throttling.
func NewAttemptLimiter(cfg config.LockingConfig, client *redis.Client, logger *zerolog.Logger) domain.AttemptLimiter {
	memory := NewMemoryAttemptLimiter()
	if client == nil || cfg.Backend == "memory" {
		return memory
	}
	if cfg.Backend == "redis" {
		return NewRedisAttemptLimiter(client)
	}
	return NewFailoverAttemptLimiter(NewRedisAttemptLimiter(client), memory, logger)
}
