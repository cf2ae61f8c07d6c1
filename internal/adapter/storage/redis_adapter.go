package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	demandKeyPrefix        = "demand:"
	demandVersionKeyPrefix = "demand_version:"
	idempotencyPrefix      = "idempotency:"
	idempotencyKeyTTL      = 24 * time.Hour
	demandKeyTTL           = 10 * time.Minute
	demandVersionKeyTTL    = 24 * time.Hour
)

// setDemandIfVersionScript stores the count only if no purchase invalidated
// the entry since the caller read the version. A missing version reads as 0.
var setDemandIfVersionScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')

if current ~= tonumber(ARGV[1]) then
	return 0
end

redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

var invalidateDemandScript = redis.NewScript(`
redis.call('INCR', KEYS[2])
redis.call('PEXPIRE', KEYS[2], ARGV[1])
redis.call('DEL', KEYS[1])
return 1
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func demandKey(itemID int64) string {
	return demandKeyPrefix + strconv.FormatInt(itemID, 10)
}

func demandVersionKey(itemID int64) string {
	return demandVersionKeyPrefix + strconv.FormatInt(itemID, 10)
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, idempotencyPrefix+key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, errors.Wrap(err, "set idempotency key")
	}

	return ok, nil
}

func (r *RedisAdapter) ClearIdempotency(ctx context.Context, key string) error {
	return errors.Wrap(r.client.Del(ctx, idempotencyPrefix+key).Err(), "clear idempotency key")
}

func (r *RedisAdapter) Demand(ctx context.Context, itemID int64) (int, bool, error) {
	count, err := r.client.Get(ctx, demandKey(itemID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "get demand")
	}

	return count, true, nil
}

func (r *RedisAdapter) DemandVersion(ctx context.Context, itemID int64) (int64, error) {
	version, err := r.client.Get(ctx, demandVersionKey(itemID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "get demand version")
	}

	return version, nil
}

func (r *RedisAdapter) SetDemand(ctx context.Context, itemID int64, count int, version int64) error {
	keys := []string{demandKey(itemID), demandVersionKey(itemID)}
	err := setDemandIfVersionScript.Run(ctx, r.client, keys, version, count, demandKeyTTL.Milliseconds()).Err()
	return errors.Wrap(err, "set demand")
}

func (r *RedisAdapter) InvalidateDemand(ctx context.Context, itemID int64) error {
	keys := []string{demandKey(itemID), demandVersionKey(itemID)}
	err := invalidateDemandScript.Run(ctx, r.client, keys, demandVersionKeyTTL.Milliseconds()).Err()
	return errors.Wrap(err, "invalidate demand")
}

func (r *RedisAdapter) ForgetItem(ctx context.Context, itemID int64) error {
	return errors.Wrap(r.client.Del(ctx, demandKey(itemID), demandVersionKey(itemID)).Err(), "forget item")
}

func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NopCache stands in when no Redis is configured: lookups miss and every
// idempotency key is accepted.
type NopCache struct{}

func (NopCache) SetIdempotency(ctx context.Context, key string) (bool, error) { return true, nil }
func (NopCache) ClearIdempotency(ctx context.Context, key string) error       { return nil }
func (NopCache) Demand(ctx context.Context, itemID int64) (int, bool, error)  { return 0, false, nil }
func (NopCache) DemandVersion(ctx context.Context, itemID int64) (int64, error) {
	return 0, nil
}
func (NopCache) SetDemand(ctx context.Context, itemID int64, count int, version int64) error {
	return nil
}
func (NopCache) InvalidateDemand(ctx context.Context, itemID int64) error { return nil }
func (NopCache) ForgetItem(ctx context.Context, itemID int64) error       { return nil }
func (NopCache) Ping(ctx context.Context) error                           { return nil }
