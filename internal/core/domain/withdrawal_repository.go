package domain

import "context"

// WithdrawalRepository is the abstraction for any kind of database intended
// to persist Withdrawals.
type WithdrawalRepository interface {
	AddWithdrawal(ctx context.Context, withdrawal Withdrawal) error
	// GetConfirmingWithdrawals returns every withdrawal still confirming on
	// the given chain.
	GetConfirmingWithdrawals(ctx context.Context, chainKey string) ([]Withdrawal, error)
	// GetWithdrawal returns the withdrawal matching (currency, chain, txid) in
	// the given state, nil if absent. Unmatched chain hashes are not ours.
	GetWithdrawal(
		ctx context.Context,
		chainKey, currencyID, txID string,
		state WithdrawalState,
	) (*Withdrawal, error)
	// UpdateWithdrawal persists the provided withdrawal over the stored one.
	UpdateWithdrawal(ctx context.Context, withdrawal Withdrawal) error
}
