package inmemory

import (
	"context"
	"sync"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type currencyInmemoryStore struct {
	currencies map[string]domain.Currency
	locker     *sync.RWMutex
}

func newCurrencyInmemoryStore() *currencyInmemoryStore {
	return &currencyInmemoryStore{
		currencies: map[string]domain.Currency{},
		locker:     &sync.RWMutex{},
	}
}

type CurrencyRepositoryImpl struct {
	store *currencyInmemoryStore
}

// NewCurrencyRepositoryImpl returns a new empty CurrencyRepositoryImpl
func NewCurrencyRepositoryImpl(store *currencyInmemoryStore) domain.CurrencyRepository {
	return &CurrencyRepositoryImpl{store}
}

func (c CurrencyRepositoryImpl) AddCurrency(
	ctx context.Context, currency domain.Currency,
) error {
	c.store.locker.Lock()
	defer c.store.locker.Unlock()

	c.store.currencies[currency.ID] = currency
	return nil
}

func (c CurrencyRepositoryImpl) GetCurrenciesForChain(
	ctx context.Context, chainKey string,
) ([]domain.Currency, error) {
	c.store.locker.RLock()
	defer c.store.locker.RUnlock()

	result := make([]domain.Currency, 0)
	for _, currency := range c.store.currencies {
		if currency.ChainKey == chainKey {
			result = append(result, currency)
		}
	}
	return result, nil
}
