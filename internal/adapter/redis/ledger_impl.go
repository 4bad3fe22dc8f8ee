package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/stale-reviver/pkg/utils"
)

const revivedURLPrefix = "reviver:revived:"

// Cmdable is the subset of redis.Cmdable the ledger uses.
type Cmdable interface {
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// LedgerRepoImpl provides a concrete implementation for the RevivalLedger interface using Redis.
type LedgerRepoImpl struct {
	client Cmdable
}

// NewLedgerRepo creates a new instance of LedgerRepoImpl.
func NewLedgerRepo(client Cmdable) *LedgerRepoImpl {
	return &LedgerRepoImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
func (r *LedgerRepoImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", revivedURLPrefix, utils.HashURL(url))
}

// MarkRevived sets the URL's key with an expiry; SETEX is atomic.
func (r *LedgerRepoImpl) MarkRevived(ctx context.Context, url string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.SetEx(ctx, r.generateKey(url), time.Now().UTC().Format(time.RFC3339), ttl).Err()
}

// WasRevived checks for the existence of the URL's key.
func (r *LedgerRepoImpl) WasRevived(ctx context.Context, url string) (bool, error) {
	n, err := r.client.Exists(ctx, r.generateKey(url)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
