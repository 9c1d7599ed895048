package inmemory

import (
	"context"
	"sync"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
)

// RepoManager is a map-backed implementation of ports.RepoManager, meant for
// tests and dev mode. RunTransaction serializes handlers with a store-wide
// lock, but writes performed by a failing handler are not rolled back.
type RepoManager struct {
	chainRepository       domain.ChainRepository
	currencyRepository    domain.CurrencyRepository
	addressRepository     domain.AddressRepository
	transactionRepository domain.TransactionRepository
	depositRepository     domain.DepositRepository
	withdrawalRepository  domain.WithdrawalRepository

	txLocker sync.Mutex
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		chainRepository:       NewChainRepositoryImpl(newChainInmemoryStore()),
		currencyRepository:    NewCurrencyRepositoryImpl(newCurrencyInmemoryStore()),
		addressRepository:     NewAddressRepositoryImpl(newAddressInmemoryStore()),
		transactionRepository: NewTransactionRepositoryImpl(newTransactionInmemoryStore()),
		depositRepository:     NewDepositRepositoryImpl(newDepositInmemoryStore()),
		withdrawalRepository:  NewWithdrawalRepositoryImpl(newWithdrawalInmemoryStore()),
	}
}

func (d *RepoManager) ChainRepository() domain.ChainRepository {
	return d.chainRepository
}

func (d *RepoManager) CurrencyRepository() domain.CurrencyRepository {
	return d.currencyRepository
}

func (d *RepoManager) AddressRepository() domain.AddressRepository {
	return d.addressRepository
}

func (d *RepoManager) TransactionRepository() domain.TransactionRepository {
	return d.transactionRepository
}

func (d *RepoManager) DepositRepository() domain.DepositRepository {
	return d.depositRepository
}

func (d *RepoManager) WithdrawalRepository() domain.WithdrawalRepository {
	return d.withdrawalRepository
}

func (d *RepoManager) Close() {}

func (d *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	d.txLocker.Lock()
	defer d.txLocker.Unlock()

	return handler(ctx)
}
