package inmemory

import (
	"context"
	"sync"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type depositInmemoryStore struct {
	deposits map[string]domain.Deposit
	locker   *sync.RWMutex
}

func newDepositInmemoryStore() *depositInmemoryStore {
	return &depositInmemoryStore{
		deposits: map[string]domain.Deposit{},
		locker:   &sync.RWMutex{},
	}
}

type DepositRepositoryImpl struct {
	store *depositInmemoryStore
}

// NewDepositRepositoryImpl returns a new empty DepositRepositoryImpl
func NewDepositRepositoryImpl(store *depositInmemoryStore) domain.DepositRepository {
	return &DepositRepositoryImpl{store}
}

func (d DepositRepositoryImpl) GetOrCreateDeposit(
	ctx context.Context, deposit domain.Deposit,
) (*domain.Deposit, bool, error) {
	d.store.locker.Lock()
	defer d.store.locker.Unlock()

	if stored, ok := d.store.deposits[deposit.Key()]; ok {
		return &stored, false, nil
	}
	d.store.deposits[deposit.Key()] = deposit
	return &deposit, true, nil
}

func (d DepositRepositoryImpl) GetDeposit(
	ctx context.Context, key string,
) (*domain.Deposit, error) {
	d.store.locker.RLock()
	defer d.store.locker.RUnlock()

	deposit, ok := d.store.deposits[key]
	if !ok {
		return nil, nil
	}
	return &deposit, nil
}

func (d DepositRepositoryImpl) GetDepositByID(
	ctx context.Context, id string,
) (*domain.Deposit, error) {
	d.store.locker.RLock()
	defer d.store.locker.RUnlock()

	for _, deposit := range d.store.deposits {
		if deposit.ID == id {
			dep := deposit
			return &dep, nil
		}
	}
	return nil, nil
}

func (d DepositRepositoryImpl) UpdateDeposit(
	ctx context.Context, deposit domain.Deposit,
) error {
	d.store.locker.Lock()
	defer d.store.locker.Unlock()

	d.store.deposits[deposit.Key()] = deposit
	return nil
}

func (d DepositRepositoryImpl) ListDepositsForChain(
	ctx context.Context, chainKey string,
) ([]domain.Deposit, error) {
	d.store.locker.RLock()
	defer d.store.locker.RUnlock()

	result := make([]domain.Deposit, 0)
	for _, deposit := range d.store.deposits {
		if deposit.ChainKey == chainKey {
			result = append(result, deposit)
		}
	}
	return result, nil
}
