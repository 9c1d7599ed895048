package inmemory

import (
	"context"
	"sync"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type chainInmemoryStore struct {
	chains map[string]domain.Chain
	locker *sync.RWMutex
}

func newChainInmemoryStore() *chainInmemoryStore {
	return &chainInmemoryStore{
		chains: map[string]domain.Chain{},
		locker: &sync.RWMutex{},
	}
}

type ChainRepositoryImpl struct {
	store *chainInmemoryStore
}

// NewChainRepositoryImpl returns a new empty ChainRepositoryImpl
func NewChainRepositoryImpl(store *chainInmemoryStore) domain.ChainRepository {
	return &ChainRepositoryImpl{store}
}

func (c ChainRepositoryImpl) AddChain(
	ctx context.Context, chain domain.Chain,
) error {
	c.store.locker.Lock()
	defer c.store.locker.Unlock()

	if _, ok := c.store.chains[chain.Key]; ok {
		return nil
	}
	c.store.chains[chain.Key] = chain
	return nil
}

func (c ChainRepositoryImpl) GetChain(
	ctx context.Context, key string,
) (*domain.Chain, error) {
	c.store.locker.RLock()
	defer c.store.locker.RUnlock()

	chain, ok := c.store.chains[key]
	if !ok {
		return nil, domain.ErrChainNotFound
	}
	return &chain, nil
}

func (c ChainRepositoryImpl) UpdateHeight(
	ctx context.Context, key string, observedHeight, newHeight uint64,
) error {
	c.store.locker.Lock()
	defer c.store.locker.Unlock()

	chain, ok := c.store.chains[key]
	if !ok {
		return domain.ErrChainNotFound
	}
	if chain.Height != observedHeight {
		return domain.ErrChainHeightConflict
	}

	chain.Height = newHeight
	c.store.chains[key] = chain
	return nil
}
