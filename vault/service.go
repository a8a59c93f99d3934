package vault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/J-Palomino/flow-actions-sub000/internal/client"
	"github.com/J-Palomino/flow-actions-sub000/internal/ledger"
	"github.com/J-Palomino/flow-actions-sub000/internal/logger"
	"github.com/J-Palomino/flow-actions-sub000/internal/usage"
)

// Issuer mints new gateway credentials. *client.GatewayClient satisfies it.
type Issuer interface {
	IssueCredential(ctx context.Context, alias string) (*client.IssuedCredential, error)
}

// Service composes the orchestrator, cipher, pricing and reconciliation
// engine into the vault-level operations the HTTP surface exposes.
type Service struct {
	orch         *ledger.Orchestrator
	engine       *usage.Engine
	issuer       Issuer
	awaitTimeout time.Duration
	log          *logger.Logger

	// Per-intent guard: the compound create flow must never run twice
	// concurrently for the same client intent
	mu       sync.Mutex
	inFlight map[string]struct{}

	// One background refresh task per created vault, when enabled
	pollInterval time.Duration
	pollers      map[uint64]*usage.Poller
}

// NewService creates the vault service
func NewService(orch *ledger.Orchestrator, engine *usage.Engine, issuer Issuer, awaitTimeout time.Duration) *Service {
	return &Service{
		orch:         orch,
		engine:       engine,
		issuer:       issuer,
		awaitTimeout: awaitTimeout,
		log:          logger.New("vault-service"),
		inFlight:     make(map[string]struct{}),
		pollers:      make(map[uint64]*usage.Poller),
	}
}

// EnableAutoPolling makes the service start one pull-mode usage poller per
// vault it creates. Zero interval leaves polling disabled.
func (s *Service) EnableAutoPolling(interval time.Duration) {
	s.pollInterval = interval
}

// startPolling launches the vault's refresh task if auto-polling is enabled
func (s *Service) startPolling(vaultID uint64, credentialID string) {
	if s.pollInterval <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pollers[vaultID]; ok {
		return
	}
	p := usage.NewPoller(s.engine, vaultID, credentialID, usage.DeliverPull, s.pollInterval)
	p.Start()
	s.pollers[vaultID] = p
}

// StopPolling halts a vault's refresh task and drops its cached usage state
func (s *Service) StopPolling(vaultID uint64) {
	s.mu.Lock()
	p, ok := s.pollers[vaultID]
	delete(s.pollers, vaultID)
	s.mu.Unlock()

	if ok {
		p.Stop()
		s.engine.Evict(vaultID)
	}
}

// acquireIntent claims an intent key for the duration of a compound
// operation. A second concurrent claim for the same key fails.
func (s *Service) acquireIntent(key string) (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[key]; busy {
		return nil, fmt.Errorf("operation already in progress for intent %s", key)
	}
	s.inFlight[key] = struct{}{}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.inFlight, key)
	}, nil
}
