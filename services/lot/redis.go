package lot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"findmyspot/models"
	"findmyspot/utils"

	"github.com/go-redis/redis/v8"
)

// RedisStatusStore keeps the report under utils.LotStatusKey with an expiry.
type RedisStatusStore struct {
	client *redis.Client
}

// NewRedisStatusStore wraps a redis client.
func NewRedisStatusStore(client *redis.Client) *RedisStatusStore {
	return &RedisStatusStore{client: client}
}

func (r *RedisStatusStore) Put(ctx context.Context, status models.LotStatus, ttl time.Duration) error {
	b, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, utils.LotStatusKey, b, ttl).Err(); err != nil {
		return fmt.Errorf("%w: failed to cache lot status: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisStatusStore) Get(ctx context.Context) (*models.LotStatus, error) {
	b, err := r.client.Get(ctx, utils.LotStatusKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoStatus
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read lot status: %v", models.ErrStoreUnavailable, err)
	}
	var status models.LotStatus
	if err := json.Unmarshal(b, &status); err != nil {
		return nil, fmt.Errorf("%w: lot status: %v", models.ErrInvalidRecord, err)
	}
	return &status, nil
}
