package model

import "time"

// EntitlementKind is the vault's entitlement mode
type EntitlementKind string

const (
	EntitlementFixed   EntitlementKind = "fixed"
	EntitlementDynamic EntitlementKind = "dynamic"
)

// SubscriptionVault represents a ledger-held vault for one subscription.
// VaultID is assigned by the ledger and immutable once assigned. Balance is
// read-only here: it changes only through ledger-side operations.
type SubscriptionVault struct {
	VaultID        uint64               `json:"vaultId"`
	Owner          string               `json:"owner"`
	Provider       string               `json:"provider"`
	Balance        string               `json:"balance"` // decimal string, no floats
	Entitlement    EntitlementKind      `json:"entitlement"`
	WithdrawLimit  string               `json:"withdrawLimit"`
	ValidUntil     time.Time            `json:"validUntil"`
	SelectedModels []string             `json:"selectedModels"`
	Credential     *ProtectedCredential `json:"credential,omitempty"`
}

// CreateVaultRequest represents request for POST /vaults
type CreateVaultRequest struct {
	Owner          string   `json:"owner" binding:"required"`
	Provider       string   `json:"provider" binding:"required"`
	InitialDeposit string   `json:"initialDeposit" binding:"required"`
	SelectedModels []string `json:"selectedModels"`
}

// CreateVaultResponse represents response for POST /vaults
type CreateVaultResponse struct {
	VaultID          uint64 `json:"vaultId,omitempty"`
	VaultCreated     bool   `json:"vaultCreated"`
	CredentialStored bool   `json:"credentialStored"`
	Message          string `json:"message"`
}

// TopUpRequest represents request for POST /vaults/{id}/topup
type TopUpRequest struct {
	Amount         string `json:"amount" binding:"required"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
}

// TopUpResponse represents response for POST /vaults/{id}/topup
type TopUpResponse struct {
	TxID           string `json:"txId"`
	IdempotencyKey string `json:"idempotencyKey"`
	DepositQR      string `json:"depositQr,omitempty"` // base64 PNG
}

// RevealRequest represents request for POST /vaults/{id}/reveal. The caller
// presents the protected blob it fetched from the ledger together with a
// signature over the reveal challenge.
type RevealRequest struct {
	Owner      string `json:"owner" binding:"required"`
	CipherText string `json:"cipherText" binding:"required"`
	Salt       string `json:"salt" binding:"required"`
	Signature  string `json:"signature" binding:"required"`
}

// RevealResponse represents response for POST /vaults/{id}/reveal
type RevealResponse struct {
	Credential string `json:"credential"`
}
