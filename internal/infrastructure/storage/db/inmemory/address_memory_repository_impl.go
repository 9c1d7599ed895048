package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type addressInmemoryStore struct {
	addresses map[string]domain.Address
	locker    *sync.RWMutex
}

func newAddressInmemoryStore() *addressInmemoryStore {
	return &addressInmemoryStore{
		addresses: map[string]domain.Address{},
		locker:    &sync.RWMutex{},
	}
}

type AddressRepositoryImpl struct {
	store *addressInmemoryStore
}

// NewAddressRepositoryImpl returns a new empty AddressRepositoryImpl
func NewAddressRepositoryImpl(store *addressInmemoryStore) domain.AddressRepository {
	return &AddressRepositoryImpl{store}
}

func (a AddressRepositoryImpl) AddAddress(
	ctx context.Context, address domain.Address,
) error {
	a.store.locker.Lock()
	defer a.store.locker.Unlock()

	key := fmt.Sprintf(
		"%s:%s:%s", address.ChainKey, address.CurrencyID, address.Address,
	)
	a.store.addresses[key] = address
	return nil
}

func (a AddressRepositoryImpl) GetAddressesForChain(
	ctx context.Context, chainKey string,
) ([]domain.Address, error) {
	a.store.locker.RLock()
	defer a.store.locker.RUnlock()

	result := make([]domain.Address, 0)
	for _, address := range a.store.addresses {
		if address.ChainKey == chainKey {
			result = append(result, address)
		}
	}
	return result, nil
}
