package domain

import "context"

// DepositRepository is the abstraction for any kind of database intended to
// persist Deposits.
type DepositRepository interface {
	// GetOrCreateDeposit atomically fetches the deposit matching the natural
	// key of the provided one, inserting it when absent. The returned boolean
	// tells whether an insert happened. The storage-level uniqueness of the
	// natural key is the safety net against two overlapping scans admitting
	// the same transaction twice.
	GetOrCreateDeposit(ctx context.Context, deposit Deposit) (*Deposit, bool, error)
	// GetDeposit returns the deposit with the given natural key, nil if absent.
	GetDeposit(ctx context.Context, key string) (*Deposit, error)
	// GetDepositByID returns the deposit with the given id, nil if absent.
	GetDepositByID(ctx context.Context, id string) (*Deposit, error)
	// UpdateDeposit persists the provided deposit over the stored one.
	UpdateDeposit(ctx context.Context, deposit Deposit) error
	// ListDepositsForChain returns all deposits seen on the given chain.
	ListDepositsForChain(ctx context.Context, chainKey string) ([]Deposit, error)
}
