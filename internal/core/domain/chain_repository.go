package domain

import "context"

// ChainRepository is the abstraction for any kind of database intended to
// persist Chains.
type ChainRepository interface {
	// AddChain adds the provided chain to the repository.
	AddChain(ctx context.Context, chain Chain) error
	// GetChain returns the chain with the given key, or ErrChainNotFound.
	GetChain(ctx context.Context, key string) (*Chain, error)
	// UpdateHeight advances the persisted height of the chain to newHeight.
	// The persisted height is compared against observedHeight inside the store
	// transaction and ErrChainHeightConflict is returned on mismatch, leaving
	// the height unchanged. The write must not touch UpdatedAt.
	UpdateHeight(
		ctx context.Context, key string, observedHeight, newHeight uint64,
	) error
}
