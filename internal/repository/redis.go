package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelbooking/internal/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockRetryInterval = 25 * time.Millisecond

// releaseScript deletes the lock only if it is still held by our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

// RedisRoomLocker holds room locks in Redis so several API instances share them.
type RedisRoomLocker struct {
	client      *redis.Client
	ttl         time.Duration
	waitTimeout time.Duration
}

func NewRedisRoomLocker(client *redis.Client, ttl, waitTimeout time.Duration) *RedisRoomLocker {
	return &RedisRoomLocker{
		client:      client,
		ttl:         ttl,
		waitTimeout: waitTimeout,
	}
}

func roomLockKey(roomID int64) string {
	return fmt.Sprintf("room_lock:%d", roomID)
}

func (r *RedisRoomLocker) Lock(ctx context.Context, roomID int64) (func(), error) {
	if r.client == nil {
		return nil, errors.New("redis client is nil")
	}

	if r.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.waitTimeout)
		defer cancel()
	}

	key := roomLockKey(roomID)
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, lockWaitError(ctx, roomID)
			}
			return nil, fmt.Errorf("failed to acquire room lock: %w", err)
		}
		if ok {
			return r.unlockFunc(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, lockWaitError(ctx, roomID)
		case <-ticker.C:
		}
	}
}

func (r *RedisRoomLocker) unlockFunc(key, token string) func() {
	return func() {
		// контекст запроса может быть уже отменён
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, r.client, []string{key}, token).Err()
	}
}

type RedisAttemptLimiter struct {
	client *redis.Client
}

func NewRedisAttemptLimiter(client *redis.Client) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{client: client}
}

func (r *RedisAttemptLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, errors.New("redis client is nil")
	}
	redisKey := "attempts:" + key
	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set attempts window: %w", err)
		}
	}

	return count <= int64(limit), nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
