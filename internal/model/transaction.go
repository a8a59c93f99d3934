package model

// TxState is the observed lifecycle state of a ledger transaction
type TxState string

const (
	TxSubmitted TxState = "SUBMITTED"
	TxIncluded  TxState = "INCLUDED"
	TxFinalized TxState = "FINALIZED"
	TxFailed    TxState = "FAILED"
)

// Terminal reports whether no further transitions are possible
func (s TxState) Terminal() bool {
	return s == TxFinalized || s == TxFailed
}

// TransactionRecord is a transient projection of ledger transaction state.
// It is not persisted beyond the caller's observation window.
type TransactionRecord struct {
	ID           string   `json:"id"`
	State        TxState  `json:"state"`
	BlockID      string   `json:"blockId,omitempty"`
	LogLines     []string `json:"logLines,omitempty"`
	ErrorMessage string   `json:"errorMessage,omitempty"`
}
