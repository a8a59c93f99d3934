package vault

import (
	"context"

	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// HybridUsage returns the merged billing view for one vault/credential pair
func (s *Service) HybridUsage(ctx context.Context, vaultID uint64, credentialID string) (model.HybridUsage, error) {
	return s.engine.GetHybridView(ctx, vaultID, credentialID)
}

// RecordAttestation feeds one oracle-delivered attested snapshot into the
// reconciliation engine
func (s *Service) RecordAttestation(ctx context.Context, vaultID uint64, snap model.UsageConfirmedSnapshot) error {
	return s.engine.RecordAttestation(ctx, vaultID, snap)
}
