package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type depositRepositoryImpl struct {
	store *badgerhold.Store
}

// NewDepositRepositoryImpl initializes a badger implementation of the
// domain.DepositRepository.
func NewDepositRepositoryImpl(store *badgerhold.Store) domain.DepositRepository {
	return depositRepositoryImpl{store}
}

// GetOrCreateDeposit relies on the key uniqueness enforced by the store: if
// another writer inserted the same natural key first, the stored deposit wins
// and no duplicate is created.
func (d depositRepositoryImpl) GetOrCreateDeposit(
	ctx context.Context, deposit domain.Deposit,
) (*domain.Deposit, bool, error) {
	key := deposit.Key()

	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = d.store.TxInsert(tx, key, &deposit)
	} else {
		err = d.store.Insert(key, &deposit)
	}
	if err == nil {
		return &deposit, true, nil
	}
	if err != badgerhold.ErrKeyExists {
		return nil, false, err
	}

	stored, err := d.GetDeposit(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

func (d depositRepositoryImpl) GetDeposit(
	ctx context.Context, key string,
) (*domain.Deposit, error) {
	var deposit domain.Deposit
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = d.store.TxGet(tx, key, &deposit)
	} else {
		err = d.store.Get(key, &deposit)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &deposit, nil
}

func (d depositRepositoryImpl) GetDepositByID(
	ctx context.Context, id string,
) (*domain.Deposit, error) {
	deposits, err := d.findDeposits(ctx, badgerhold.Where("ID").Eq(id))
	if err != nil {
		return nil, err
	}
	if len(deposits) == 0 {
		return nil, nil
	}
	return &deposits[0], nil
}

func (d depositRepositoryImpl) UpdateDeposit(
	ctx context.Context, deposit domain.Deposit,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return d.store.TxUpdate(tx, deposit.Key(), &deposit)
	}
	return d.store.Update(deposit.Key(), &deposit)
}

func (d depositRepositoryImpl) ListDepositsForChain(
	ctx context.Context, chainKey string,
) ([]domain.Deposit, error) {
	return d.findDeposits(ctx, badgerhold.Where("ChainKey").Eq(chainKey))
}

func (d depositRepositoryImpl) findDeposits(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Deposit, error) {
	var deposits []domain.Deposit
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = d.store.TxFind(tx, &deposits, query)
	} else {
		err = d.store.Find(&deposits, query)
	}
	if err != nil {
		return nil, err
	}
	return deposits, nil
}
