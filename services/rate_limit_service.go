package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmissionLimiter bounds how often a single client may submit feedback.
// Allow reports whether the submission may proceed and, when it may not,
// how long the client should wait before retrying.
type SubmissionLimiter interface {
	Allow(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, time.Duration, error)
}

// RedisSubmissionLimiter implements SubmissionLimiter with a fixed window
// per client in Redis. The window opens on the first submission and is not
// refreshed by later ones.
type RedisSubmissionLimiter struct {
	redis     *redis.Client
	keyPrefix string
}

// NewRedisSubmissionLimiter creates a limiter whose Redis keys are scoped
// by keyPrefix, so feedback throttling never collides with other uses of
// the same Redis instance.
func NewRedisSubmissionLimiter(redisClient *redis.Client, keyPrefix string) *RedisSubmissionLimiter {
	if keyPrefix == "" {
		keyPrefix = "feedback_rate:"
	}
	return &RedisSubmissionLimiter{
		redis:     redisClient,
		keyPrefix: keyPrefix,
	}
}

func (s *RedisSubmissionLimiter) Allow(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, time.Duration, error) {
	key := s.keyPrefix + clientKey

	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		// First submission opens the window.
		if err := s.redis.Expire(ctx, key, window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(limit) {
		ttl, err := s.redis.TTL(ctx, key).Result()
		if err != nil {
			return false, 0, err
		}
		if ttl < 0 {
			// Key lost its expiry (or never got one); the full window is
			// the safest retry hint.
			ttl = window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}
