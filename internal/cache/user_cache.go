package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"photoshare/internal/models"
)

// UserCache is a short-TTL key-value store mapping a user's email to their
// serialized record, saving a database round-trip on every authenticated
// request. Entries are rewritten on confirmation and avatar updates; other
// changes simply age out with the TTL. Role never changes after signup, so
// the residual staleness window is accepted.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewUserCache creates a UserCache around an existing redis client.
func NewUserCache(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *UserCache {
	return &UserCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached user for an email, or false when absent. Transport
// errors are treated as a miss; the caller falls back to the database.
func (c *UserCache) Get(ctx context.Context, email string) (*models.User, bool) {
	data, err := c.client.Get(ctx, key(email)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnw("cache get failed", "email", email, "error", err)
		}
		return nil, false
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		c.logger.Warnw("cache entry unreadable", "email", email, "error", err)
		return nil, false
	}
	return &user, true
}

// Set stores the user under their email with the configured TTL. Failures
// are logged and swallowed; the cache is an optimization, never a source of
// truth.
func (c *UserCache) Set(ctx context.Context, user *models.User) {
	data, err := json.Marshal(user)
	if err != nil {
		c.logger.Warnw("cache marshal failed", "email", user.Email, "error", err)
		return
	}
	if err := c.client.Set(ctx, key(user.Email), data, c.ttl).Err(); err != nil {
		c.logger.Warnw("cache set failed", "email", user.Email, "error", err)
	}
}

// Delete drops the cached entry for an email.
func (c *UserCache) Delete(ctx context.Context, email string) {
	if err := c.client.Del(ctx, key(email)).Err(); err != nil {
		c.logger.Warnw("cache delete failed", "email", email, "error", err)
	}
}

func key(email string) string {
	return "user:" + email
}

// NewRedisClient builds a redis client from explicit settings and verifies
// the connection with a short ping.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
