package domain

import "github.com/shopspring/decimal"

// TransactionKind tells which leg of a flow a ledger transaction represents.
type TransactionKind int

const (
	// TransactionKindCollection is an on-chain leg moving deposited funds to
	// an operational wallet.
	TransactionKindCollection TransactionKind = iota
	// TransactionKindFeePrebuild is an on-chain leg pre-funding the deposit
	// address with the gas needed by the collection legs.
	TransactionKindFeePrebuild
)

func (k TransactionKind) String() string {
	switch k {
	case TransactionKindCollection:
		return "collection"
	case TransactionKindFeePrebuild:
		return "fee_prebuild"
	default:
		return "unknown"
	}
}

// TransactionStatus is the lifecycle status of a ledger transaction.
type TransactionStatus int

const (
	TransactionStatusPending TransactionStatus = iota
	TransactionStatusSucceeded
	TransactionStatusFailed
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusPending:
		return "pending"
	case TransactionStatusSucceeded:
		return "succeeded"
	case TransactionStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ReferenceType tells which entity a ledger transaction belongs to.
type ReferenceType int

const (
	ReferenceTypeDeposit ReferenceType = iota
	ReferenceTypeWithdrawal
)

func (r ReferenceType) String() string {
	switch r {
	case ReferenceTypeDeposit:
		return "deposit"
	case ReferenceTypeWithdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}

// Transaction is one on-chain leg participating in a deposit collection flow
// or in a withdrawal broadcast, persisted in the ledger. One row per leg.
type Transaction struct {
	TxID          string
	CurrencyID    string
	ChainKey      string
	Kind          TransactionKind
	Status        TransactionStatus
	Fee           decimal.Decimal
	FeeCurrencyID string
	BlockNumber   uint64
	ReferenceType ReferenceType
	// ReferenceID is the id of the owning Deposit or Withdrawal.
	ReferenceID string
}

// TransactionKey represents the ID of a ledger Transaction within a chain.
type TransactionKey struct {
	ChainKey string
	TxID     string
}

func (t Transaction) Key() TransactionKey {
	return TransactionKey{
		ChainKey: t.ChainKey,
		TxID:     t.TxID,
	}
}
