package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"

	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// ErrAttestationOutOfOrder reports a snapshot that would move confirmed usage
// backward. Confirmed usage is monotonic; regressions come from duplicate or
// out-of-order oracle delivery and are dropped, not applied.
var ErrAttestationOutOfOrder = errors.New("attestation out of order")

// SnapshotStore holds the latest attested snapshot per vault. Record must be
// atomic with its monotonicity check: no read-then-write gap.
type SnapshotStore interface {
	// Get returns the stored snapshot, or nil when the vault has none yet
	Get(ctx context.Context, vaultID uint64) (*model.UsageConfirmedSnapshot, error)
	// Record stores the snapshot iff it does not regress the stored one
	Record(ctx context.Context, vaultID uint64, snap model.UsageConfirmedSnapshot) error
}

// regresses reports whether next would move any confirmed counter backward
func regresses(cur *model.UsageConfirmedSnapshot, next model.UsageConfirmedSnapshot) bool {
	if cur == nil {
		return false
	}
	return next.Tokens < cur.Tokens || next.Requests < cur.Requests || next.CostMicroUSD < cur.CostMicroUSD
}

// MemoryStore is the in-process SnapshotStore used when no Redis address is
// configured. Snapshots live only as long as the process observes the vault.
type MemoryStore struct {
	mu        sync.Mutex
	snapshots map[uint64]model.UsageConfirmedSnapshot
}

// NewMemoryStore creates an empty in-memory snapshot store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[uint64]model.UsageConfirmedSnapshot)}
}

// Get returns the stored snapshot for a vault
func (s *MemoryStore) Get(ctx context.Context, vaultID uint64) (*model.UsageConfirmedSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[vaultID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

// Record stores the snapshot under the mutex so the monotonicity check and
// the write are one atomic step
func (s *MemoryStore) Record(ctx context.Context, vaultID uint64, snap model.UsageConfirmedSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.snapshots[vaultID]
	if ok && regresses(&cur, snap) {
		return fmt.Errorf("%w: vault %d", ErrAttestationOutOfOrder, vaultID)
	}

	s.snapshots[vaultID] = snap
	return nil
}

// Evict drops a vault's snapshot once no caller observes it anymore
func (s *MemoryStore) Evict(vaultID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, vaultID)
}

// RedisStore is a Redis-backed SnapshotStore so attested (already charged)
// usage survives process restarts. The monotonicity check runs under
// WATCH/MULTI so concurrent writers cannot interleave a regression.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a snapshot store over an existing Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func snapshotKey(vaultID uint64) string {
	return fmt.Sprintf("vault:%d:confirmed", vaultID)
}

// Get returns the stored snapshot for a vault
func (s *RedisStore) Get(ctx context.Context, vaultID uint64) (*model.UsageConfirmedSnapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey(vaultID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap model.UsageConfirmedSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// Record stores the snapshot behind an optimistic WATCH transaction
func (s *RedisStore) Record(ctx context.Context, vaultID uint64, snap model.UsageConfirmedSnapshot) error {
	key := snapshotKey(vaultID)

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if err == nil {
			var stored model.UsageConfirmedSnapshot
			if err := json.Unmarshal(cur, &stored); err != nil {
				return fmt.Errorf("failed to decode stored snapshot: %w", err)
			}
			if regresses(&stored, snap) {
				return fmt.Errorf("%w: vault %d", ErrAttestationOutOfOrder, vaultID)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	// Bounded retries on contention; a lost race re-runs the check
	for attempt := 0; attempt < 5; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("failed to record snapshot for vault %d: too much contention", vaultID)
}
