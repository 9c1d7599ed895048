package domain

import "context"

// TransactionRepository is the abstraction for any kind of database intended
// to persist ledger Transactions.
type TransactionRepository interface {
	// AddTransaction adds the provided transaction to the repository. An
	// already existing one won't be re-added.
	AddTransaction(ctx context.Context, tx Transaction) error
	// GetTransaction returns the ledger transaction with the given txid on the
	// given chain, or nil if none exists.
	GetTransaction(ctx context.Context, chainKey, txID string) (*Transaction, error)
	// ListTransactionsByTxIDs returns the ledger transactions matching any of
	// the given txids on the given chain.
	ListTransactionsByTxIDs(
		ctx context.Context, chainKey string, txIDs []string,
	) ([]Transaction, error)
	// UpdateTransaction persists the provided transaction over the stored one.
	UpdateTransaction(ctx context.Context, tx Transaction) error
}
