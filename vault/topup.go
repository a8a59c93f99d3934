package vault

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/J-Palomino/flow-actions-sub000/internal/client"
	"github.com/J-Palomino/flow-actions-sub000/internal/common"
	"github.com/J-Palomino/flow-actions-sub000/internal/ledger"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// TopUp funds an existing vault. The idempotency key makes retries safe:
// if finality confirmation times out the caller re-submits with the same key
// and the ledger deduplicates.
func (s *Service) TopUp(ctx context.Context, vaultID uint64, req model.TopUpRequest) (*model.TopUpResponse, error) {
	if _, err := common.USDToMicro(req.Amount); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", req.Amount, err)
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	args := []client.TxArg{
		{Type: "UInt64", Value: fmt.Sprintf("%d", vaultID)},
		{Type: "UFix64", Value: req.Amount},
		{Type: "String", Value: key},
	}

	handle, err := s.orch.Submit(ctx, ledger.OpTopUpVault, ledger.TopUpVaultScript, args)
	if err != nil {
		return nil, err
	}

	record, err := s.orch.AwaitFinalized(ctx, handle, s.awaitTimeout)
	if err != nil {
		return nil, err
	}
	if record.State == model.TxFailed {
		return nil, fmt.Errorf("top-up failed: %s", record.ErrorMessage)
	}

	qr, err := depositQRCode(vaultID)
	if err != nil {
		// The top-up itself succeeded; the QR is presentation sugar
		s.log.Warn(vaultID, "failed to generate deposit QR", map[string]interface{}{"error": err.Error()})
		qr = ""
	}

	return &model.TopUpResponse{
		TxID:           record.ID,
		IdempotencyKey: key,
		DepositQR:      qr,
	}, nil
}

// depositQRCode encodes the vault's deposit URI as a base64 PNG
func depositQRCode(vaultID uint64) (string, error) {
	uri := fmt.Sprintf("vault://deposit/%d", vaultID)

	qr, err := qrcode.New(uri, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
