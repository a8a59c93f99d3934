package model

import "time"

// UsagePendingSample is usage visible at the gateway but not yet attested.
// Counts are absolute for the current unattested window; each poll supersedes
// the previous sample, samples are never summed across polls.
type UsagePendingSample struct {
	Tokens          uint64    `json:"tokens"`
	Requests        uint64    `json:"requests"`
	CostMicroUSD    int64     `json:"costMicroUsd"`
	ObservedAt      time.Time `json:"observedAt"`
	Stale           bool      `json:"stale,omitempty"`
	DataUnavailable bool      `json:"dataUnavailable,omitempty"`
}

// UsageConfirmedSnapshot is the cumulative usage the ledger has already
// priced and settled. Monotonically non-decreasing across attestations.
type UsageConfirmedSnapshot struct {
	Tokens           uint64    `json:"tokens"`
	Requests         uint64    `json:"requests"`
	CostMicroUSD     int64     `json:"costMicroUsd"`
	AttestedAt       time.Time `json:"attestedAt"`
	AttestationRound string    `json:"attestationRound,omitempty"`
}

// UsageTotals is the merged billing arithmetic of a hybrid view
type UsageTotals struct {
	Tokens                uint64 `json:"tokens"`
	Requests              uint64 `json:"requests"`
	EstimatedCostMicroUSD int64  `json:"estimatedCostMicroUsd"`
	BillableCostMicroUSD  int64  `json:"billableCostMicroUsd"`
	PendingBillMicroUSD   int64  `json:"pendingBillMicroUsd"`
}

// HybridUsage merges the unattested pending sample with the latest attested
// snapshot. Pending never double-counts usage already covered by confirmed.
type HybridUsage struct {
	Pending   UsagePendingSample     `json:"pending"`
	Confirmed UsageConfirmedSnapshot `json:"confirmed"`
	Total     UsageTotals            `json:"total"`
}

// UsageRecord is one normalized gateway usage line
type UsageRecord struct {
	Tokens       uint64    `json:"tokens"`
	Requests     uint64    `json:"requests"`
	CostMicroUSD int64     `json:"costMicroUsd"`
	Model        string    `json:"model"`
	Timestamp    time.Time `json:"timestamp"`
}
