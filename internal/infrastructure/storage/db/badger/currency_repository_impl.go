package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type currencyRepositoryImpl struct {
	store *badgerhold.Store
}

// NewCurrencyRepositoryImpl initializes a badger implementation of the
// domain.CurrencyRepository.
func NewCurrencyRepositoryImpl(store *badgerhold.Store) domain.CurrencyRepository {
	return currencyRepositoryImpl{store}
}

func (c currencyRepositoryImpl) AddCurrency(
	ctx context.Context, currency domain.Currency,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = c.store.TxInsert(tx, currency.ID, &currency)
	} else {
		err = c.store.Insert(currency.ID, &currency)
	}
	if err != nil && err != badgerhold.ErrKeyExists {
		return err
	}
	return nil
}

func (c currencyRepositoryImpl) GetCurrenciesForChain(
	ctx context.Context, chainKey string,
) ([]domain.Currency, error) {
	query := badgerhold.Where("ChainKey").Eq(chainKey)

	var currencies []domain.Currency
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = c.store.TxFind(tx, &currencies, query)
	} else {
		err = c.store.Find(&currencies, query)
	}
	if err != nil {
		return nil, err
	}
	return currencies, nil
}
