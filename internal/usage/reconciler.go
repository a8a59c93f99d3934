package usage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/J-Palomino/flow-actions-sub000/internal/logger"
	"github.com/J-Palomino/flow-actions-sub000/internal/metrics"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
	"github.com/J-Palomino/flow-actions-sub000/internal/pricing"
)

// GatewayAPI is the slice of the gateway client this engine consumes
type GatewayAPI interface {
	GetUsage(ctx context.Context, credentialID string, since time.Time) ([]model.UsageRecord, error)
}

// Engine reconciles two independently arriving usage signals into one
// non-double-counted billing view: the gateway's immediate, unattested feed
// and the oracle's periodic, attested feed. Both counters are cumulative over
// the same credential, so "not yet billed" is exactly their non-negative
// difference.
type Engine struct {
	gateway   GatewayAPI
	store     SnapshotStore
	recorder  *EventRecorder // nil: event recording disabled
	markupPct int64
	log       *logger.Logger

	mu      sync.Mutex
	samples map[string]model.UsagePendingSample // last sample per credential
	vaults  map[uint64]string                   // vault -> credential binding
}

// NewEngine creates a reconciliation engine
func NewEngine(gateway GatewayAPI, store SnapshotStore, recorder *EventRecorder, markupPct int64) *Engine {
	return &Engine{
		gateway:   gateway,
		store:     store,
		recorder:  recorder,
		markupPct: pricing.ClampMarkup(markupPct),
		log:       logger.New("usage-reconciler"),
		samples:   make(map[string]model.UsagePendingSample),
		vaults:    make(map[uint64]string),
	}
}

// Bind associates a credential with its vault so attestation boundaries and
// hybrid views line up
func (e *Engine) Bind(vaultID uint64, credentialID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vaults[vaultID] = credentialID
}

// Evict drops per-credential cache state once a vault is no longer observed.
// Safe to call for unknown vaults.
func (e *Engine) Evict(vaultID uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cred, ok := e.vaults[vaultID]; ok {
		delete(e.samples, cred)
		delete(e.vaults, vaultID)
	}
}

// GetPendingSample queries the gateway for the unattested window and caches
// the result. Counts are absolute for the window: a fresh sample supersedes
// the cached one, samples are never summed across polls.
//
// The view must always render: when the gateway is unreachable the last
// cached sample is returned tagged stale, and with no cache at all a zeroed
// sample is returned tagged unavailable. Neither is an error to the caller.
func (e *Engine) GetPendingSample(ctx context.Context, credentialID string) (model.UsagePendingSample, error) {
	records, err := e.gateway.GetUsage(ctx, credentialID, time.Unix(0, 0))
	if err != nil {
		metrics.GatewayFallbacks.Inc()
		e.log.Warn(0, "gateway unreachable, serving degraded pending sample", map[string]interface{}{
			"credential": credentialID,
			"error":      err.Error(),
		})

		e.mu.Lock()
		defer e.mu.Unlock()
		if cached, ok := e.samples[credentialID]; ok {
			cached.Stale = true
			e.samples[credentialID] = cached
			return cached, nil
		}
		return model.UsagePendingSample{
			ObservedAt:      time.Now().UTC(),
			DataUnavailable: true,
		}, nil
	}

	sample := e.aggregate(records)

	e.mu.Lock()
	e.samples[credentialID] = sample
	e.mu.Unlock()

	return sample, nil
}

// aggregate folds gateway records into one absolute sample, pricing any
// record the gateway did not price itself
func (e *Engine) aggregate(records []model.UsageRecord) model.UsagePendingSample {
	sample := model.UsagePendingSample{ObservedAt: time.Now().UTC()}

	for _, r := range records {
		sample.Tokens += r.Tokens
		sample.Requests += r.Requests

		cost := r.CostMicroUSD
		if cost == 0 && r.Tokens > 0 {
			unit := pricing.Price(sample.Tokens, r.Model, e.markupPct)
			cost = pricing.Cost(r.Tokens, unit)
		}
		sample.CostMicroUSD += cost
	}

	return sample
}

// RecordAttestation applies a new attested snapshot from the oracle feed.
// Regressions are dropped by the store's atomic check and reported as
// ErrAttestationOutOfOrder; callers treat that as a warning, not a failure.
// Any other store error is authoritative data being lost and is surfaced,
// never swallowed.
func (e *Engine) RecordAttestation(ctx context.Context, vaultID uint64, snap model.UsageConfirmedSnapshot) error {
	if snap.AttestedAt.IsZero() {
		snap.AttestedAt = time.Now().UTC()
	}

	if err := e.store.Record(ctx, vaultID, snap); err != nil {
		if errors.Is(err, ErrAttestationOutOfOrder) {
			metrics.AttestationsRejected.Inc()
			e.log.Warn(vaultID, "dropped out-of-order attestation", map[string]interface{}{
				"tokens": snap.Tokens,
				"round":  snap.AttestationRound,
			})
			return err
		}
		e.log.ErrorWithErr(vaultID, "failed to store attestation", err, nil)
		return err
	}

	metrics.AttestationsAccepted.Inc()
	e.log.Info(vaultID, "attestation recorded", map[string]interface{}{
		"tokens": snap.Tokens,
		"round":  snap.AttestationRound,
	})

	if e.recorder != nil {
		if err := e.recorder.RecordAttestation(ctx, vaultID, snap); err != nil {
			// Audit trail only; the snapshot itself is already stored
			e.log.ErrorWithErr(vaultID, "failed to record attestation event", err, nil)
		}
	}

	return nil
}

// GetHybridView merges the pending sample and the confirmed snapshot.
// pending' = max(0, pending - confirmed) per field: clamping absorbs races
// where the pending sample was observed stale and briefly trails confirmed.
func (e *Engine) GetHybridView(ctx context.Context, vaultID uint64, credentialID string) (model.HybridUsage, error) {
	e.Bind(vaultID, credentialID)

	confirmed, err := e.store.Get(ctx, vaultID)
	if err != nil {
		return model.HybridUsage{}, err
	}
	if confirmed == nil {
		confirmed = &model.UsageConfirmedSnapshot{}
	}

	sample, err := e.GetPendingSample(ctx, credentialID)
	if err != nil {
		return model.HybridUsage{}, err
	}

	pending := model.UsagePendingSample{
		Tokens:          clampSub(sample.Tokens, confirmed.Tokens),
		Requests:        clampSub(sample.Requests, confirmed.Requests),
		CostMicroUSD:    clampSubInt(sample.CostMicroUSD, confirmed.CostMicroUSD),
		ObservedAt:      sample.ObservedAt,
		Stale:           sample.Stale,
		DataUnavailable: sample.DataUnavailable,
	}

	view := model.HybridUsage{
		Pending:   pending,
		Confirmed: *confirmed,
		Total: model.UsageTotals{
			Tokens:                sample.Tokens,
			Requests:              sample.Requests,
			EstimatedCostMicroUSD: sample.CostMicroUSD,
			BillableCostMicroUSD:  confirmed.CostMicroUSD,
			PendingBillMicroUSD:   pending.CostMicroUSD,
		},
	}

	if e.recorder != nil {
		if err := e.recorder.RecordBillingView(ctx, vaultID, view); err != nil {
			// Audit trail only; the view still renders
			e.log.ErrorWithErr(vaultID, "failed to record billing view", err, nil)
		}
	}

	return view, nil
}

func clampSub(a, b uint64) uint64 {
	if a <= b {
		return 0
	}
	return a - b
}

func clampSubInt(a, b int64) int64 {
	if a <= b {
		return 0
	}
	return a - b
}
