package dbbadger

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type addressRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAddressRepositoryImpl initializes a badger implementation of the
// domain.AddressRepository.
func NewAddressRepositoryImpl(store *badgerhold.Store) domain.AddressRepository {
	return addressRepositoryImpl{store}
}

func (a addressRepositoryImpl) AddAddress(
	ctx context.Context, address domain.Address,
) error {
	key := fmt.Sprintf(
		"%s:%s:%s", address.ChainKey, address.CurrencyID, address.Address,
	)

	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = a.store.TxInsert(tx, key, &address)
	} else {
		err = a.store.Insert(key, &address)
	}
	if err != nil && err != badgerhold.ErrKeyExists {
		return err
	}
	return nil
}

func (a addressRepositoryImpl) GetAddressesForChain(
	ctx context.Context, chainKey string,
) ([]domain.Address, error) {
	query := badgerhold.Where("ChainKey").Eq(chainKey)

	var addresses []domain.Address
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = a.store.TxFind(tx, &addresses, query)
	} else {
		err = a.store.Find(&addresses, query)
	}
	if err != nil {
		return nil, err
	}
	return addresses, nil
}
