package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/J-Palomino/flow-actions-sub000/internal/crypto"
	"github.com/J-Palomino/flow-actions-sub000/internal/ledger"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
	"github.com/J-Palomino/flow-actions-sub000/internal/usage"
	"github.com/J-Palomino/flow-actions-sub000/vault"
)

// VaultHandler exposes the vault service over HTTP
type VaultHandler struct {
	svc *vault.Service
}

// NewVaultHandler creates a new VaultHandler
func NewVaultHandler(svc *vault.Service) *VaultHandler {
	return &VaultHandler{svc: svc}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps typed failures to distinct codes so the caller can tell
// whether funds moved, a credential exists, or signing must be re-attempted
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, crypto.ErrMalformedInput):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeMalformedInput})
	case errors.Is(err, crypto.ErrSignatureDeclined):
		writeJSON(w, http.StatusForbidden, model.ErrorResponse{Error: err.Error(), Code: model.CodeSignatureDeclined})
	case errors.Is(err, crypto.ErrDecryptionFailed):
		writeJSON(w, http.StatusForbidden, model.ErrorResponse{Error: err.Error(), Code: model.CodeDecryptionFailed})
	case errors.Is(err, ledger.ErrAwaitTimeout):
		writeJSON(w, http.StatusGatewayTimeout, model.ErrorResponse{Error: err.Error(), Code: model.CodeAwaitTimeout})
	case errors.Is(err, ledger.ErrIdentifierExtraction):
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{Error: err.Error(), Code: model.CodeIdentifierMissing})
	default:
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error(), Code: model.CodeInternal})
	}
}

func vaultIDFromPath(r *http.Request) (uint64, error) {
	return strconv.ParseUint(r.PathValue("id"), 10, 64)
}

// Create handles POST /vaults
// @Summary      Create a subscription vault
// @Description  Creates a ledger vault, issues a gateway credential and stores it encrypted for the owner. A failure after vault creation returns 207 with explicit partial state.
// @Tags         vaults
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string                   false  "Client intent token; retries reuse it"
// @Param        request          body      model.CreateVaultRequest  true  "Vault parameters"
// @Success      200  {object}  model.CreateVaultResponse
// @Failure      207  {object}  model.CreateVaultResponse
// @Failure      400  {object}  model.ErrorResponse
// @Router       /vaults [post]
func (h *VaultHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateVaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeMalformedInput})
		return
	}
	if req.Owner == "" || req.Provider == "" || req.InitialDeposit == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error: "owner, provider and initialDeposit are required",
			Code:  model.CodeMalformedInput,
		})
		return
	}

	result, err := h.svc.CreateAndProtect(r.Context(), req, r.Header.Get("Idempotency-Key"))
	if err != nil {
		var partial *vault.PartialError
		if errors.As(err, &partial) {
			// Funds moved and the vault exists: the caller must see that,
			// not an opaque failure
			writeJSON(w, http.StatusMultiStatus, model.CreateVaultResponse{
				VaultID:          partial.VaultID,
				VaultCreated:     true,
				CredentialStored: false,
				Message:          fmt.Sprintf("vault created but credential not stored: %v; retry credential storage with the same idempotency key", partial.Reason),
			})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CreateVaultResponse{
		VaultID:          result.VaultID,
		VaultCreated:     result.VaultCreated,
		CredentialStored: result.CredentialStored,
		Message:          "vault created and credential protected",
	})
}

// TopUp handles POST /vaults/{id}/topup
// @Summary      Top up a vault
// @Description  Moves additional funds into an existing vault. Safe to retry with the same idempotency key.
// @Tags         vaults
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Vault ID"
// @Param        request  body      model.TopUpRequest  true  "Top-up data"
// @Success      200      {object}  model.TopUpResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /vaults/{id}/topup [post]
func (h *VaultHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	vaultID, err := vaultIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid vault id", Code: model.CodeMalformedInput})
		return
	}

	var req model.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeMalformedInput})
		return
	}

	resp, err := h.svc.TopUp(r.Context(), vaultID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Reveal handles POST /vaults/{id}/reveal
// @Summary      Reveal a vault's credential
// @Description  Decrypts the protected credential for its owner. Requires a signature over a fresh vault-bound challenge; a declined signature never touches the cipher.
// @Tags         vaults
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Vault ID"
// @Param        request  body      model.RevealRequest  true  "Protected blob plus challenge signature"
// @Success      200      {object}  model.RevealResponse
// @Failure      403      {object}  model.ErrorResponse
// @Router       /vaults/{id}/reveal [post]
func (h *VaultHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	vaultID, err := vaultIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid vault id", Code: model.CodeMalformedInput})
		return
	}

	var req model.RevealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeMalformedInput})
		return
	}

	cred := &model.ProtectedCredential{
		CipherText:    req.CipherText,
		Salt:          req.Salt,
		OwnerIdentity: req.Owner,
	}
	sign := func(challenge string) (string, error) {
		return req.Signature, nil
	}

	secret, err := h.svc.Reveal(vaultID, cred, req.Owner, sign)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.RevealResponse{Credential: secret})
}

// Status handles GET /vaults/{id}
// @Summary      Read vault state
// @Description  Returns the vault's current ledger state. Balance fields are read-only projections.
// @Tags         vaults
// @Produce      json
// @Param        id  path      int  true  "Vault ID"
// @Success      200  {object}  model.SubscriptionVault
// @Failure      400  {object}  model.ErrorResponse
// @Router       /vaults/{id} [get]
func (h *VaultHandler) Status(w http.ResponseWriter, r *http.Request) {
	vaultID, err := vaultIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid vault id", Code: model.CodeMalformedInput})
		return
	}

	v, err := h.svc.GetVault(r.Context(), vaultID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// Usage handles GET /vaults/{id}/usage
// @Summary      Hybrid usage view
// @Description  Merges the gateway's unattested pending sample with the latest attested snapshot. Degrades to a stale or zeroed sample when the gateway is down; the view always renders.
// @Tags         usage
// @Produce      json
// @Param        id          path      int     true  "Vault ID"
// @Param        credential  query     string  true  "Gateway credential id"
// @Success      200         {object}  model.HybridUsage
// @Failure      400         {object}  model.ErrorResponse
// @Router       /vaults/{id}/usage [get]
func (h *VaultHandler) Usage(w http.ResponseWriter, r *http.Request) {
	vaultID, err := vaultIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid vault id", Code: model.CodeMalformedInput})
		return
	}

	credentialID := r.URL.Query().Get("credential")
	if credentialID == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "credential query parameter is required", Code: model.CodeMalformedInput})
		return
	}

	view, err := h.svc.HybridUsage(r.Context(), vaultID, credentialID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Attest handles POST /vaults/{id}/attestations
// @Summary      Record an attested usage snapshot
// @Description  Accepts one oracle-delivered cumulative snapshot. A snapshot regressing below the stored one is dropped and reported as a conflict.
// @Tags         usage
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true  "Vault ID"
// @Param        request  body      model.UsageConfirmedSnapshot  true  "Attested snapshot"
// @Success      200      {object}  model.UsageConfirmedSnapshot
// @Failure      409      {object}  model.ErrorResponse
// @Router       /vaults/{id}/attestations [post]
func (h *VaultHandler) Attest(w http.ResponseWriter, r *http.Request) {
	vaultID, err := vaultIDFromPath(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid vault id", Code: model.CodeMalformedInput})
		return
	}

	var snap model.UsageConfirmedSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeMalformedInput})
		return
	}

	if err := h.svc.RecordAttestation(r.Context(), vaultID, snap); err != nil {
		if errors.Is(err, usage.ErrAttestationOutOfOrder) {
			writeJSON(w, http.StatusConflict, model.ErrorResponse{Error: err.Error(), Code: model.CodeAttestationOutOfOrder})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}
