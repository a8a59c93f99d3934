package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsFinalized counts ledger transactions that reached FINALIZED
	TransactionsFinalized = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transactions_finalized_total",
		Help: "Ledger transactions that reached the FINALIZED state",
	}, []string{"operation"})

	// TransactionsFailed counts ledger transactions that reached FAILED
	TransactionsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_transactions_failed_total",
		Help: "Ledger transactions that reached the FAILED state",
	}, []string{"operation"})

	// AttestationsAccepted counts attestations that passed the monotonicity check
	AttestationsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestations_accepted_total",
		Help: "Attested usage snapshots accepted and stored",
	})

	// AttestationsRejected counts out-of-order attestations dropped by the check
	AttestationsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attestations_rejected_total",
		Help: "Attested usage snapshots rejected as out of order",
	})

	// GatewayFallbacks counts pending-sample reads served from cache or zeroed
	GatewayFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_pending_fallbacks_total",
		Help: "Pending usage reads served degraded because the gateway was unreachable",
	})
)
