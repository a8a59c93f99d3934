package usage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// countingGateway counts usage queries across goroutines
type countingGateway struct {
	calls atomic.Int64
}

func (c *countingGateway) GetUsage(ctx context.Context, credentialID string, since time.Time) ([]model.UsageRecord, error) {
	c.calls.Add(1)
	return []model.UsageRecord{{Tokens: 100, Requests: 1, CostMicroUSD: 2_000}}, nil
}

func TestPollerPullRefreshesSample(t *testing.T) {
	gw := &countingGateway{}
	e := NewEngine(gw, NewMemoryStore(), nil, 0)

	p := NewPoller(e, 42, "key-77", DeliverPull, 5*time.Millisecond)
	p.Start()
	defer p.Stop()

	require.Eventually(t, func() bool {
		return gw.calls.Load() >= 2
	}, time.Second, time.Millisecond, "poller must keep refreshing on its cadence")

	e.mu.Lock()
	sample, ok := e.samples["key-77"]
	e.mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, uint64(100), sample.Tokens)
}

func TestPollerStartStopIdempotent(t *testing.T) {
	e := NewEngine(&countingGateway{}, NewMemoryStore(), nil, 0)
	p := NewPoller(e, 42, "key-77", DeliverPull, time.Millisecond)

	p.Stop() // stopping a never-started poller is a no-op

	p.Start()
	p.Start() // starting twice is a no-op

	p.Stop()
	p.Stop() // stopping twice is a no-op
}

func TestPollerRestart(t *testing.T) {
	gw := &countingGateway{}
	e := NewEngine(gw, NewMemoryStore(), nil, 0)
	p := NewPoller(e, 42, "key-77", DeliverPull, 5*time.Millisecond)

	p.Start()
	require.Eventually(t, func() bool { return gw.calls.Load() >= 1 }, time.Second, time.Millisecond)
	p.Stop()

	before := gw.calls.Load()
	p.Start()
	require.Eventually(t, func() bool { return gw.calls.Load() > before }, time.Second, time.Millisecond)
	p.Stop()
}

func TestPollerPushFeedsSink(t *testing.T) {
	gw := &countingGateway{}
	e := NewEngine(gw, NewMemoryStore(), nil, 0)

	p := NewPoller(e, 42, "key-77", DeliverPush, time.Hour)
	p.Start()
	defer p.Stop()

	p.Feed(model.UsagePendingSample{Tokens: 777, Requests: 7, CostMicroUSD: 15_000, ObservedAt: time.Now()})

	require.Eventually(t, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		s, ok := e.samples["key-77"]
		return ok && s.Tokens == 777
	}, time.Second, time.Millisecond)

	assert.Zero(t, gw.calls.Load(), "push mode never polls the gateway")
}

func TestPollerFeedIgnoredInPullMode(t *testing.T) {
	e := NewEngine(&countingGateway{}, NewMemoryStore(), nil, 0)
	p := NewPoller(e, 42, "key-77", DeliverPull, time.Hour)

	p.Feed(model.UsagePendingSample{Tokens: 777})

	e.mu.Lock()
	defer e.mu.Unlock()
	assert.Empty(t, e.samples)
}
