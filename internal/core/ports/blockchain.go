package ports

import (
	"context"
	"errors"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrNotSupported is returned by optional adapter operations when the backing
// chain client does not implement them. Callers must consult Features before
// invoking them.
var ErrNotSupported = errors.New("operation not supported by chain adapter")

// TxStatus is the chain-reported status of a transaction.
type TxStatus int

const (
	TxStatusPending TxStatus = iota
	TxStatusSuccess
	TxStatusFailed
)

func (s TxStatus) String() string {
	switch s {
	case TxStatusPending:
		return "pending"
	case TxStatusSuccess:
		return "success"
	case TxStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Tx is a chain transaction as normalized by an adapter. Depending on the
// chain, Fee or Status may arrive unset from a block-level fetch and require
// a follow-up GetTransaction round-trip.
type Tx struct {
	CurrencyID    string
	TxID          string
	To            string
	From          []string
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	FeeCurrencyID string
	BlockNumber   uint64
	TxOut         int
	Status        TxStatus
}

// Block is an ordered sequence of normalized transactions at one height.
type Block struct {
	Height uint64
	Txs    []Tx
}

// Features describes the capability set of a chain adapter. Optional
// operations are guarded by explicit flags, never probed dynamically.
type Features struct {
	// CaseSensitive tells whether addresses on the chain are case sensitive.
	// When false, address matching is performed on lowercased values.
	CaseSensitive bool
	// CashAddrFormat tells whether the chain supports the cash-addr address
	// variant alongside the legacy one.
	CashAddrFormat bool
	// TxDetailLookup tells whether GetTransaction is supported.
	TxDetailLookup bool
	// TxSourceLookup tells whether TransactionSources is supported.
	TxSourceLookup bool
}

// AdapterSettings carries the one-time configuration of an adapter.
type AdapterSettings struct {
	Endpoint string
	// Currencies tracked on the chain, with their network params.
	Currencies []domain.Currency
	// Whitelist of source addresses exempted from platform policies, opaque
	// to the engine.
	Whitelist []string
}

// BlockchainAdapter is the uniform capability surface over a specific
// blockchain consumed by the reconciliation engine.
type BlockchainAdapter interface {
	// Configure performs the one-time setup of the adapter.
	Configure(settings AdapterSettings) error
	// LatestBlockNumber returns the current tip height of the chain.
	LatestBlockNumber(ctx context.Context) (uint64, error)
	// GetBlock returns the normalized transactions included at the given
	// height. It fails if the height is unreachable or invalid.
	GetBlock(ctx context.Context, height uint64) (*Block, error)
	// GetBalance returns the confirmed balance of the given address.
	GetBalance(
		ctx context.Context, address, currencyID string,
	) (decimal.Decimal, error)
	// GetTransaction re-fetches the full detail of the given transaction.
	// Optional, guarded by Features().TxDetailLookup.
	GetTransaction(ctx context.Context, tx Tx) (Tx, error)
	// TransactionSources resolves the source addresses of the given
	// transaction. Optional, guarded by Features().TxSourceLookup.
	TransactionSources(ctx context.Context, tx Tx) ([]string, error)
	// Features returns the capability set of the adapter.
	Features() Features
}
