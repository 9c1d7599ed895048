package domain

import "github.com/shopspring/decimal"

// WithdrawalState is the lifecycle state of a Withdrawal. Withdrawals enter
// the engine already confirming, created upstream at broadcast time.
type WithdrawalState int

const (
	WithdrawalStateConfirming WithdrawalState = iota
	WithdrawalStateSucceeded
	WithdrawalStateFailed
)

func (s WithdrawalState) String() string {
	switch s {
	case WithdrawalStateConfirming:
		return "confirming"
	case WithdrawalStateSucceeded:
		return "succeeded"
	case WithdrawalStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Withdrawal holds info about funds sent from the platform to a member's
// external address.
type Withdrawal struct {
	ID         string
	CurrencyID string
	ChainKey   string
	TxID       string
	Amount     decimal.Decimal
	// BlockNumber is stamped as soon as the transaction is seen in a block,
	// confirmation distance is computed from it on later scans.
	BlockNumber uint64
	State       WithdrawalState
	CreatedAt   int64
}
