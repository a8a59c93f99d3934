package usage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// EventRecorder appends accepted attestations and billing views to the
// database for offline audit. It is an audit trail, not a source of truth:
// failures are surfaced to the caller but never block the live view.
type EventRecorder struct {
	db *sql.DB
}

// NewEventRecorder creates a recorder over an open database handle
func NewEventRecorder(db *sql.DB) *EventRecorder {
	return &EventRecorder{db: db}
}

// RecordAttestation inserts one accepted attestation event
func (r *EventRecorder) RecordAttestation(ctx context.Context, vaultID uint64, snap model.UsageConfirmedSnapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attestation_events (
			vault_id, tokens, requests, cost_micro_usd, attestation_round, attested_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, vaultID, snap.Tokens, snap.Requests, snap.CostMicroUSD,
		nullString(snap.AttestationRound), snap.AttestedAt)

	if err != nil {
		return fmt.Errorf("failed to record attestation event: %w", err)
	}
	return nil
}

// RecordBillingView inserts one observed hybrid billing view
func (r *EventRecorder) RecordBillingView(ctx context.Context, vaultID uint64, view model.HybridUsage) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO billing_views (
			vault_id, total_tokens, total_requests,
			estimated_cost_micro_usd, billable_cost_micro_usd, pending_bill_micro_usd,
			observed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, vaultID, view.Total.Tokens, view.Total.Requests,
		view.Total.EstimatedCostMicroUSD, view.Total.BillableCostMicroUSD,
		view.Total.PendingBillMicroUSD, view.Pending.ObservedAt)

	if err != nil {
		return fmt.Errorf("failed to record billing view: %w", err)
	}
	return nil
}

// nullString converts an empty string to NULL for database insertion
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
