package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memClient records keys in memory; expiry is stored but not enforced.
type memClient struct {
	keys map[string]time.Duration
	err  error
}

func (m *memClient) SetEx(ctx context.Context, key string, _ interface{}, ttl time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	m.keys[key] = ttl
	cmd.SetVal("OK")
	return cmd
}

func (m *memClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.keys[k]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("marked urls are reported as revived", func(tt *testing.T) {
		client := &memClient{keys: map[string]time.Duration{}}
		ledger := NewLedgerRepo(client)

		revived, err := ledger.WasRevived(ctx, "https://bunkr.pk/f/a")
		require.NoError(tt, err)
		assert.False(tt, revived)

		require.NoError(tt, ledger.MarkRevived(ctx, "https://bunkr.pk/f/a", time.Hour))
		revived, err = ledger.WasRevived(ctx, "https://bunkr.pk/f/a")
		require.NoError(tt, err)
		assert.True(tt, revived)

		for key, ttl := range client.keys {
			assert.Equal(tt, time.Hour, ttl)
			assert.Len(tt, key, len(revivedURLPrefix)+64)
		}
	})

	t.Run("zero ttl disables marking", func(tt *testing.T) {
		client := &memClient{keys: map[string]time.Duration{}}
		require.NoError(tt, NewLedgerRepo(client).MarkRevived(ctx, "u", 0))
		assert.Empty(tt, client.keys)
	})

	t.Run("client errors are returned", func(tt *testing.T) {
		client := &memClient{keys: map[string]time.Duration{}, err: errors.New("connection refused")}
		_, err := NewLedgerRepo(client).WasRevived(ctx, "u")
		assert.Error(tt, err)
	})
}
