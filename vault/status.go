package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/J-Palomino/flow-actions-sub000/internal/client"
	"github.com/J-Palomino/flow-actions-sub000/internal/ledger"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// GetVault reads a vault's current state from the ledger. Balance and
// entitlement fields are read-only projections; they change only through
// ledger-side operations.
func (s *Service) GetVault(ctx context.Context, vaultID uint64) (*model.SubscriptionVault, error) {
	args := []client.TxArg{
		{Type: "UInt64", Value: fmt.Sprintf("%d", vaultID)},
	}

	raw, err := s.orch.Query(ctx, ledger.GetVaultScript, args)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault %d: %w", vaultID, err)
	}

	var v model.SubscriptionVault
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode vault %d state: %w", vaultID, err)
	}
	if v.VaultID == 0 {
		v.VaultID = vaultID
	}

	return &v, nil
}
