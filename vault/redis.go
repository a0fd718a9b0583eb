package vault

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis persists the credential under a device-scoped key. A zero TTL keeps
// the slot until an explicit Clear; a positive TTL makes stale kiosk logins
// expire on their own.
type Redis struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedis returns a Redis-backed slot stored under key.
func NewRedis(client redis.UniversalClient, key string, ttl time.Duration) *Redis {
	return &Redis{client: client, key: key, ttl: ttl}
}

func (r *Redis) Load(ctx context.Context) (string, error) {
	credential, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoCredential
		}
		return "", err
	}
	if credential == "" {
		return "", ErrNoCredential
	}
	return credential, nil
}

func (r *Redis) Store(ctx context.Context, credential string) error {
	return r.client.Set(ctx, r.key, credential, r.ttl).Err()
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}
