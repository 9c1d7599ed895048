package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type chainRepositoryImpl struct {
	store *badgerhold.Store
}

// NewChainRepositoryImpl initializes a badger implementation of the
// domain.ChainRepository.
func NewChainRepositoryImpl(store *badgerhold.Store) domain.ChainRepository {
	return chainRepositoryImpl{store}
}

func (c chainRepositoryImpl) AddChain(
	ctx context.Context, chain domain.Chain,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = c.store.TxInsert(tx, chain.Key, &chain)
	} else {
		err = c.store.Insert(chain.Key, &chain)
	}
	if err != nil && err != badgerhold.ErrKeyExists {
		return err
	}
	return nil
}

func (c chainRepositoryImpl) GetChain(
	ctx context.Context, key string,
) (*domain.Chain, error) {
	var chain domain.Chain
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = c.store.TxGet(tx, key, &chain)
	} else {
		err = c.store.Get(key, &chain)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrChainNotFound
		}
		return nil, err
	}
	return &chain, nil
}

func (c chainRepositoryImpl) UpdateHeight(
	ctx context.Context, key string, observedHeight, newHeight uint64,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return c.updateHeight(tx, key, observedHeight, newHeight)
	}

	tx := c.store.Badger().NewTransaction(true)
	defer tx.Discard()

	if err := c.updateHeight(tx, key, observedHeight, newHeight); err != nil {
		return err
	}
	return tx.Commit()
}

func (c chainRepositoryImpl) updateHeight(
	tx *badger.Txn, key string, observedHeight, newHeight uint64,
) error {
	var chain domain.Chain
	if err := c.store.TxGet(tx, key, &chain); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.ErrChainNotFound
		}
		return err
	}

	if chain.Height != observedHeight {
		return domain.ErrChainHeightConflict
	}

	// Only the height moves. UpdatedAt marks configuration edits and must
	// survive cursor bumps untouched.
	chain.Height = newHeight
	return c.store.TxUpdate(tx, key, &chain)
}
