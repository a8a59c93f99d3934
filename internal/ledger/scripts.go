package ledger

// Script templates submitted to the ledger. They are opaque parameterized
// strings to this module: the orchestrator fills arguments in and submits,
// it never interprets ledger execution semantics.

// Operation names used for handles, logs and metrics labels
const (
	OpCreateVault     = "create_vault"
	OpTopUpVault      = "topup_vault"
	OpStoreCredential = "store_credential"
)

// CreateVaultScript creates a new subscription vault for an owner and funds
// it with the initial deposit
const CreateVaultScript = `
transaction(owner: Address, provider: String, deposit: UFix64, models: [String]) {
    execute {
        SubscriptionVaults.create(owner: owner, provider: provider, deposit: deposit, models: models)
    }
}`

// TopUpVaultScript moves additional funds into an existing vault.
// The idempotency key lets the ledger deduplicate retried submissions.
const TopUpVaultScript = `
transaction(vaultId: UInt64, amount: UFix64, idempotencyKey: String) {
    execute {
        SubscriptionVaults.topUp(vaultId: vaultId, amount: amount, key: idempotencyKey)
    }
}`

// GetVaultScript reads a vault's current state. Read-only: executed as a
// script, never submitted as a transaction.
const GetVaultScript = `
access(all) fun main(vaultId: UInt64): SubscriptionVaults.VaultView {
    return SubscriptionVaults.view(vaultId: vaultId)
}`

// StoreCredentialScript attaches an encrypted gateway credential to a vault
const StoreCredentialScript = `
transaction(vaultId: UInt64, cipherText: String, salt: String, idempotencyKey: String) {
    execute {
        SubscriptionVaults.storeCredential(vaultId: vaultId, cipherText: cipherText, salt: salt, key: idempotencyKey)
    }
}`
