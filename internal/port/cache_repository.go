package port

import "context"

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ClearIdempotency releases a key so a failed request can be retried
	ClearIdempotency(ctx context.Context, key string) error

	// Demand returns the cached sale count of an item, ok is false on a miss
	Demand(ctx context.Context, itemID int64) (count int, ok bool, err error)

	// DemandVersion returns the item's invalidation counter, read before counting sales
	DemandVersion(ctx context.Context, itemID int64) (int64, error)

	// SetDemand caches count only while the invalidation counter still equals version
	SetDemand(ctx context.Context, itemID int64, count int, version int64) error

	// InvalidateDemand drops the cached count and bumps the invalidation counter
	InvalidateDemand(ctx context.Context, itemID int64) error

	ForgetItem(ctx context.Context, itemID int64) error

	Ping(ctx context.Context) error
}
