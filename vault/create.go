package vault

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/J-Palomino/flow-actions-sub000/internal/client"
	"github.com/J-Palomino/flow-actions-sub000/internal/crypto"
	"github.com/J-Palomino/flow-actions-sub000/internal/ledger"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// PartialError reports the compound create flow stopping after the vault
// transaction finalized: funds have moved and the vault exists, but no
// credential is attached yet. The caller must present "add your key later"
// guidance instead of an opaque failure.
type PartialError struct {
	VaultID uint64
	Reason  error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("vault %d created but credential not stored: %v", e.VaultID, e.Reason)
}

func (e *PartialError) Unwrap() error { return e.Reason }

// CreateResult reports the outcome of CreateAndProtect
type CreateResult struct {
	VaultID          uint64
	VaultCreated     bool
	CredentialStored bool
	CredentialID     string
	Credential       *model.ProtectedCredential
}

// CreateAndProtect runs the compound create flow:
//
//	create vault tx -> await finality -> extract vault id (hard failure if
//	absent) -> issue gateway credential -> encrypt for the owner -> store
//	credential tx -> await finality
//
// The two submissions are strictly sequential: the second depends on the
// first's extracted id. A failure after the first finalizes is a
// *PartialError, not a total failure, because funds have already moved.
// intentKey guards against the same client intent running twice concurrently.
func (s *Service) CreateAndProtect(ctx context.Context, req model.CreateVaultRequest, intentKey string) (*CreateResult, error) {
	if intentKey == "" {
		intentKey = uuid.NewString()
	}
	release, err := s.acquireIntent(intentKey)
	if err != nil {
		return nil, err
	}
	defer release()

	createArgs := []client.TxArg{
		{Type: "Address", Value: req.Owner},
		{Type: "String", Value: req.Provider},
		{Type: "UFix64", Value: req.InitialDeposit},
	}
	for _, m := range req.SelectedModels {
		createArgs = append(createArgs, client.TxArg{Type: "String", Value: m})
	}

	handle, err := s.orch.Submit(ctx, ledger.OpCreateVault, ledger.CreateVaultScript, createArgs)
	if err != nil {
		return nil, err
	}

	record, err := s.orch.AwaitFinalized(ctx, handle, s.awaitTimeout)
	if err != nil {
		return nil, err
	}
	if record.State == model.TxFailed {
		return nil, fmt.Errorf("vault creation failed: %s", record.ErrorMessage)
	}

	vaultID, err := ledger.ExtractIdentifier(record)
	if err != nil {
		// Hard failure: everything downstream is keyed by this id
		return nil, err
	}

	result := &CreateResult{VaultID: vaultID, VaultCreated: true}

	issued, err := s.issuer.IssueCredential(ctx, fmt.Sprintf("vault-%d", vaultID))
	if err != nil {
		return result, &PartialError{VaultID: vaultID, Reason: err}
	}
	result.CredentialID = issued.ID

	protected, err := crypto.Encrypt(issued.Secret, req.Owner)
	if err != nil {
		return result, &PartialError{VaultID: vaultID, Reason: err}
	}

	if err := s.StoreCredential(ctx, vaultID, protected, intentKey); err != nil {
		return result, &PartialError{VaultID: vaultID, Reason: err}
	}

	result.CredentialStored = true
	result.Credential = protected
	s.engine.Bind(vaultID, issued.ID)
	s.startPolling(vaultID, issued.ID)

	s.log.Info(vaultID, "vault created and credential protected", map[string]interface{}{
		"owner":    req.Owner,
		"provider": req.Provider,
	})

	return result, nil
}

// StoreCredential attaches an encrypted credential to an existing vault.
// Safe to retry with the same idempotency key: finality confirmation can time
// out while the underlying transaction still succeeds.
func (s *Service) StoreCredential(ctx context.Context, vaultID uint64, cred *model.ProtectedCredential, idempotencyKey string) error {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	args := []client.TxArg{
		{Type: "UInt64", Value: fmt.Sprintf("%d", vaultID)},
		{Type: "String", Value: cred.CipherText},
		{Type: "String", Value: cred.Salt},
		{Type: "String", Value: idempotencyKey},
	}

	handle, err := s.orch.Submit(ctx, ledger.OpStoreCredential, ledger.StoreCredentialScript, args)
	if err != nil {
		return err
	}

	record, err := s.orch.AwaitFinalized(ctx, handle, s.awaitTimeout)
	if err != nil {
		return err
	}
	if record.State == model.TxFailed {
		return fmt.Errorf("credential storage failed: %s", record.ErrorMessage)
	}

	return nil
}
