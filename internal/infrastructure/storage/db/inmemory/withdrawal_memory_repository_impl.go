package inmemory

import (
	"context"
	"sync"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type withdrawalInmemoryStore struct {
	withdrawals map[string]domain.Withdrawal
	locker      *sync.RWMutex
}

func newWithdrawalInmemoryStore() *withdrawalInmemoryStore {
	return &withdrawalInmemoryStore{
		withdrawals: map[string]domain.Withdrawal{},
		locker:      &sync.RWMutex{},
	}
}

type WithdrawalRepositoryImpl struct {
	store *withdrawalInmemoryStore
}

// NewWithdrawalRepositoryImpl returns a new empty WithdrawalRepositoryImpl
func NewWithdrawalRepositoryImpl(
	store *withdrawalInmemoryStore,
) domain.WithdrawalRepository {
	return &WithdrawalRepositoryImpl{store}
}

func (w WithdrawalRepositoryImpl) AddWithdrawal(
	ctx context.Context, withdrawal domain.Withdrawal,
) error {
	w.store.locker.Lock()
	defer w.store.locker.Unlock()

	if _, ok := w.store.withdrawals[withdrawal.ID]; ok {
		return nil
	}
	w.store.withdrawals[withdrawal.ID] = withdrawal
	return nil
}

func (w WithdrawalRepositoryImpl) GetConfirmingWithdrawals(
	ctx context.Context, chainKey string,
) ([]domain.Withdrawal, error) {
	w.store.locker.RLock()
	defer w.store.locker.RUnlock()

	result := make([]domain.Withdrawal, 0)
	for _, withdrawal := range w.store.withdrawals {
		if withdrawal.ChainKey == chainKey &&
			withdrawal.State == domain.WithdrawalStateConfirming {
			result = append(result, withdrawal)
		}
	}
	return result, nil
}

func (w WithdrawalRepositoryImpl) GetWithdrawal(
	ctx context.Context,
	chainKey, currencyID, txID string,
	state domain.WithdrawalState,
) (*domain.Withdrawal, error) {
	w.store.locker.RLock()
	defer w.store.locker.RUnlock()

	for _, withdrawal := range w.store.withdrawals {
		if withdrawal.ChainKey == chainKey &&
			withdrawal.CurrencyID == currencyID &&
			withdrawal.TxID == txID &&
			withdrawal.State == state {
			wd := withdrawal
			return &wd, nil
		}
	}
	return nil, nil
}

func (w WithdrawalRepositoryImpl) UpdateWithdrawal(
	ctx context.Context, withdrawal domain.Withdrawal,
) error {
	w.store.locker.Lock()
	defer w.store.locker.Unlock()

	w.store.withdrawals[withdrawal.ID] = withdrawal
	return nil
}
