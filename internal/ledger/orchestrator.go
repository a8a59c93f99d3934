package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/J-Palomino/flow-actions-sub000/internal/client"
	"github.com/J-Palomino/flow-actions-sub000/internal/logger"
	"github.com/J-Palomino/flow-actions-sub000/internal/metrics"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// ErrAwaitTimeout reports that finality was not observed within the caller's
// timeout. The underlying ledger operation is NOT cancelled and may still
// finalize later; the caller must re-poll if it needs the eventual result.
var ErrAwaitTimeout = errors.New("timed out waiting for transaction finality")

// LedgerAPI is the boundary this orchestrator consumes. *client.LedgerClient
// satisfies it; tests supply fakes.
type LedgerAPI interface {
	SubmitTransaction(ctx context.Context, scriptTemplate string, args []client.TxArg) (string, error)
	GetTransactionStatus(ctx context.Context, txID string) (*client.StatusResult, error)
	ExecuteScript(ctx context.Context, script string, args []client.TxArg) (json.RawMessage, error)
}

// Orchestrator submits mutating operations to the ledger and tracks their
// asynchronous status through a fixed state machine:
//
//	SUBMITTED -> INCLUDED -> FINALIZED
//	SUBMITTED ------------> FAILED
//
// INCLUDED is an optional observed intermediate: some ledgers report it, some
// never do. Nothing gates on it.
type Orchestrator struct {
	api          LedgerAPI
	pollInterval time.Duration
	log          *logger.Logger
}

// Handle tracks one submitted transaction until the caller observes a
// terminal state
type Handle struct {
	TxID      string
	Operation string
	State     model.TxState
}

// NewOrchestrator creates an orchestrator over the given ledger API
func NewOrchestrator(api LedgerAPI, pollInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		api:          api,
		pollInterval: pollInterval,
		log:          logger.New("ledger-orchestrator"),
	}
}

// Submit sends the operation to the ledger and returns immediately with a
// handle whose state starts at SUBMITTED
func (o *Orchestrator) Submit(ctx context.Context, operation, scriptTemplate string, args []client.TxArg) (*Handle, error) {
	txID, err := o.api.SubmitTransaction(ctx, scriptTemplate, args)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s: %w", operation, err)
	}

	o.log.Info(0, "transaction submitted", map[string]interface{}{
		"operation": operation,
		"tx_id":     txID,
	})

	return &Handle{TxID: txID, Operation: operation, State: model.TxSubmitted}, nil
}

// Query executes a read-only script against current ledger state
func (o *Orchestrator) Query(ctx context.Context, script string, args []client.TxArg) (json.RawMessage, error) {
	return o.api.ExecuteScript(ctx, script, args)
}

// AwaitFinalized blocks until the transaction reaches FINALIZED or FAILED, or
// the timeout elapses. Cancellation detaches this waiter only; it never
// attempts to cancel the remote operation.
func (o *Orchestrator) AwaitFinalized(ctx context.Context, handle *Handle, timeout time.Duration) (*model.TransactionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		record, done, err := o.pollOnce(ctx, handle)
		if err != nil {
			return nil, err
		}
		if done {
			return record, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s after %s", ErrAwaitTimeout, handle.TxID, timeout)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// pollOnce fetches status once and advances the handle's observed state
func (o *Orchestrator) pollOnce(ctx context.Context, handle *Handle) (*model.TransactionRecord, bool, error) {
	status, err := o.api.GetTransactionStatus(ctx, handle.TxID)
	if err != nil {
		// A flaky status read is not a transaction failure; surface only if
		// the context is already dead, otherwise keep polling
		if ctx.Err() != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, false, fmt.Errorf("%w: %s", ErrAwaitTimeout, handle.TxID)
			}
			return nil, false, ctx.Err()
		}
		o.log.Warn(0, "status poll failed, will retry", map[string]interface{}{
			"tx_id": handle.TxID,
			"error": err.Error(),
		})
		return nil, false, nil
	}

	state := mapStatusCode(status.StatusCode)
	if !handle.State.Terminal() {
		handle.State = state
	}

	if !state.Terminal() {
		return nil, false, nil
	}

	record := &model.TransactionRecord{
		ID:           handle.TxID,
		State:        state,
		BlockID:      status.BlockID,
		LogLines:     status.LogLines,
		ErrorMessage: status.ErrorMessage,
	}

	if state == model.TxFinalized {
		metrics.TransactionsFinalized.WithLabelValues(handle.Operation).Inc()
	} else {
		metrics.TransactionsFailed.WithLabelValues(handle.Operation).Inc()
		o.log.Error(0, "transaction failed", map[string]interface{}{
			"operation": handle.Operation,
			"tx_id":     handle.TxID,
			"message":   status.ErrorMessage,
		})
	}

	return record, true, nil
}

// mapStatusCode maps the ledger's integer status onto TxState.
// Unknown codes read as SUBMITTED so a newer ledger never wedges a waiter
// into a phantom terminal state.
func mapStatusCode(code int) model.TxState {
	switch code {
	case 1:
		return model.TxIncluded
	case 2:
		return model.TxFinalized
	case 3:
		return model.TxFailed
	default:
		return model.TxSubmitted
	}
}
