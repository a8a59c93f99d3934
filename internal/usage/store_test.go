package usage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

func snapshot(tokens, requests uint64, cost int64) model.UsageConfirmedSnapshot {
	return model.UsageConfirmedSnapshot{
		Tokens:       tokens,
		Requests:     requests,
		CostMicroUSD: cost,
		AttestedAt:   time.Now().UTC(),
	}
}

func TestMemoryStoreRecordAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got, "unknown vault has no snapshot")

	require.NoError(t, s.Record(ctx, 42, snapshot(1000, 10, 20_000)))

	got, err = s.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1000), got.Tokens)
}

func TestMemoryStoreRejectsRegression(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, 42, snapshot(1000, 10, 20_000)))

	tests := []struct {
		name string
		snap model.UsageConfirmedSnapshot
	}{
		{name: "lower tokens", snap: snapshot(900, 10, 20_000)},
		{name: "lower requests", snap: snapshot(1000, 9, 20_000)},
		{name: "lower cost", snap: snapshot(1000, 10, 19_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Record(ctx, 42, tt.snap)
			assert.ErrorIs(t, err, ErrAttestationOutOfOrder)
		})
	}

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), got.Tokens, "stored snapshot unchanged after rejections")
}

func TestMemoryStoreEvict(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, 42, snapshot(1000, 10, 20_000)))
	s.Evict(42)

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Eviction resets monotonicity: a fresh vault id starts over
	require.NoError(t, s.Record(ctx, 42, snapshot(1, 1, 1)))
}

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func TestRedisStoreRecordAndGet(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.Record(ctx, 42, snapshot(1000, 10, 20_000)))

	got, err = s.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(1000), got.Tokens)
	assert.Equal(t, int64(20_000), got.CostMicroUSD)
}

func TestRedisStoreRejectsRegression(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, 42, snapshot(1000, 10, 20_000)))

	err := s.Record(ctx, 42, snapshot(900, 10, 20_000))
	assert.ErrorIs(t, err, ErrAttestationOutOfOrder)

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), got.Tokens)
}

func TestRedisStoreMonotonicAdvance(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, 42, snapshot(1000, 10, 20_000)))
	require.NoError(t, s.Record(ctx, 42, snapshot(2000, 20, 40_000)))

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), got.Tokens)
}

func TestRedisStoreVaultsIndependent(t *testing.T) {
	s := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, 1, snapshot(5000, 50, 100_000)))
	require.NoError(t, s.Record(ctx, 2, snapshot(1, 1, 1)), "another vault's high counters never constrain this one")
}
