package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-Palomino/flow-actions-sub000/internal/client"
	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

// fakeLedger walks a transaction through a scripted status sequence, one
// status per poll
type fakeLedger struct {
	mu          sync.Mutex
	statuses    []client.StatusResult
	polls       int
	submitErr   error
	scriptValue json.RawMessage
}

func (f *fakeLedger) SubmitTransaction(ctx context.Context, script string, args []client.TxArg) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "tx-1", nil
}

func (f *fakeLedger) GetTransactionStatus(ctx context.Context, txID string) (*client.StatusResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.polls
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	f.polls++
	s := f.statuses[idx]
	return &s, nil
}

func (f *fakeLedger) ExecuteScript(ctx context.Context, script string, args []client.TxArg) (json.RawMessage, error) {
	return f.scriptValue, nil
}

func TestSubmitReturnsSubmittedHandle(t *testing.T) {
	fake := &fakeLedger{statuses: []client.StatusResult{{StatusCode: 0}}}
	o := NewOrchestrator(fake, time.Millisecond)

	h, err := o.Submit(context.Background(), OpCreateVault, CreateVaultScript, nil)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", h.TxID)
	assert.Equal(t, model.TxSubmitted, h.State)
}

func TestSubmitError(t *testing.T) {
	fake := &fakeLedger{submitErr: errors.New("ledger rejected script")}
	o := NewOrchestrator(fake, time.Millisecond)

	_, err := o.Submit(context.Background(), OpCreateVault, CreateVaultScript, nil)
	assert.Error(t, err)
}

func TestAwaitFinalizedSuccessPath(t *testing.T) {
	fake := &fakeLedger{statuses: []client.StatusResult{
		{StatusCode: 0},
		{StatusCode: 1},
		{StatusCode: 2, BlockID: "b-42", LogLines: []string{"Vault ID: 424965"}},
	}}
	o := NewOrchestrator(fake, time.Millisecond)

	h, err := o.Submit(context.Background(), OpCreateVault, CreateVaultScript, nil)
	require.NoError(t, err)

	record, err := o.AwaitFinalized(context.Background(), h, time.Second)
	require.NoError(t, err)
	assert.Equal(t, model.TxFinalized, record.State)
	assert.Equal(t, "b-42", record.BlockID)
	assert.Equal(t, []string{"Vault ID: 424965"}, record.LogLines)
	assert.GreaterOrEqual(t, fake.polls, 3, "must have observed the intermediate states")
}

func TestAwaitFinalizedFailurePath(t *testing.T) {
	fake := &fakeLedger{statuses: []client.StatusResult{
		{StatusCode: 0},
		{StatusCode: 3, ErrorMessage: "insufficient balance"},
	}}
	o := NewOrchestrator(fake, time.Millisecond)

	h, err := o.Submit(context.Background(), OpTopUpVault, TopUpVaultScript, nil)
	require.NoError(t, err)

	record, err := o.AwaitFinalized(context.Background(), h, time.Second)
	require.NoError(t, err, "FAILED is a terminal observation, not a polling error")
	assert.Equal(t, model.TxFailed, record.State)
	assert.Equal(t, "insufficient balance", record.ErrorMessage)
}

func TestAwaitFinalizedTimeout(t *testing.T) {
	// Ledger never reports a terminal state
	fake := &fakeLedger{statuses: []client.StatusResult{{StatusCode: 1}}}
	o := NewOrchestrator(fake, time.Millisecond)

	h, err := o.Submit(context.Background(), OpCreateVault, CreateVaultScript, nil)
	require.NoError(t, err)

	_, err = o.AwaitFinalized(context.Background(), h, 25*time.Millisecond)
	assert.ErrorIs(t, err, ErrAwaitTimeout)
	assert.Equal(t, model.TxIncluded, h.State, "handle keeps the last observed state for re-polling")
}

func TestAwaitFinalizedCancellationDetachesWaiter(t *testing.T) {
	fake := &fakeLedger{statuses: []client.StatusResult{{StatusCode: 0}}}
	o := NewOrchestrator(fake, 5*time.Millisecond)

	h, err := o.Submit(context.Background(), OpCreateVault, CreateVaultScript, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(15 * time.Millisecond)
		cancel()
	}()

	_, err = o.AwaitFinalized(ctx, h, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrAwaitTimeout)
}

func TestQuery(t *testing.T) {
	fake := &fakeLedger{scriptValue: json.RawMessage(`{"vaultId":424965,"balance":"25.000000"}`)}
	o := NewOrchestrator(fake, time.Millisecond)

	raw, err := o.Query(context.Background(), GetVaultScript, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"vaultId":424965,"balance":"25.000000"}`, string(raw))
}

func TestMapStatusCode(t *testing.T) {
	assert.Equal(t, model.TxSubmitted, mapStatusCode(0))
	assert.Equal(t, model.TxIncluded, mapStatusCode(1))
	assert.Equal(t, model.TxFinalized, mapStatusCode(2))
	assert.Equal(t, model.TxFailed, mapStatusCode(3))
	assert.Equal(t, model.TxSubmitted, mapStatusCode(99), "unknown codes never read as terminal")
}
