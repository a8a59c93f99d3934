package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-Palomino/flow-actions-sub000/internal/model"
)

func TestRecordAttestationEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	attestedAt := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO attestation_events").
		WithArgs(int64(42), int64(1000), int64(10), int64(20_000), "round-9", attestedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := NewEventRecorder(db)
	err = r.RecordAttestation(context.Background(), 42, model.UsageConfirmedSnapshot{
		Tokens:           1000,
		Requests:         10,
		CostMicroUSD:     20_000,
		AttestationRound: "round-9",
		AttestedAt:       attestedAt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordAttestationEventNullRound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO attestation_events").
		WithArgs(int64(42), int64(1000), int64(10), int64(20_000), nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := NewEventRecorder(db)
	err = r.RecordAttestation(context.Background(), 42, model.UsageConfirmedSnapshot{
		Tokens:       1000,
		Requests:     10,
		CostMicroUSD: 20_000,
		AttestedAt:   time.Now(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordBillingView(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO billing_views").
		WithArgs(int64(42), int64(1500), int64(15), int64(30_000), int64(20_000), int64(10_000), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := NewEventRecorder(db)
	err = r.RecordBillingView(context.Background(), 42, model.HybridUsage{
		Pending: model.UsagePendingSample{ObservedAt: time.Now()},
		Total: model.UsageTotals{
			Tokens:                1500,
			Requests:              15,
			EstimatedCostMicroUSD: 30_000,
			BillableCostMicroUSD:  20_000,
			PendingBillMicroUSD:   10_000,
		},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorderSurfacesDBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO attestation_events").
		WillReturnError(errors.New("connection reset"))

	r := NewEventRecorder(db)
	err = r.RecordAttestation(context.Background(), 42, model.UsageConfirmedSnapshot{AttestedAt: time.Now()})
	assert.Error(t, err, "a failed write to the audit trail is surfaced, never ignored")
}
