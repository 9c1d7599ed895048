package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type withdrawalRepositoryImpl struct {
	store *badgerhold.Store
}

// NewWithdrawalRepositoryImpl initializes a badger implementation of the
// domain.WithdrawalRepository.
func NewWithdrawalRepositoryImpl(
	store *badgerhold.Store,
) domain.WithdrawalRepository {
	return withdrawalRepositoryImpl{store}
}

func (w withdrawalRepositoryImpl) AddWithdrawal(
	ctx context.Context, withdrawal domain.Withdrawal,
) error {
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = w.store.TxInsert(tx, withdrawal.ID, &withdrawal)
	} else {
		err = w.store.Insert(withdrawal.ID, &withdrawal)
	}
	if err != nil && err != badgerhold.ErrKeyExists {
		return err
	}
	return nil
}

func (w withdrawalRepositoryImpl) GetConfirmingWithdrawals(
	ctx context.Context, chainKey string,
) ([]domain.Withdrawal, error) {
	query := badgerhold.Where("ChainKey").Eq(chainKey).
		And("State").Eq(domain.WithdrawalStateConfirming)
	return w.findWithdrawals(ctx, query)
}

func (w withdrawalRepositoryImpl) GetWithdrawal(
	ctx context.Context,
	chainKey, currencyID, txID string,
	state domain.WithdrawalState,
) (*domain.Withdrawal, error) {
	query := badgerhold.Where("ChainKey").Eq(chainKey).
		And("CurrencyID").Eq(currencyID).
		And("TxID").Eq(txID).
		And("State").Eq(state)

	withdrawals, err := w.findWithdrawals(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(withdrawals) == 0 {
		return nil, nil
	}
	return &withdrawals[0], nil
}

func (w withdrawalRepositoryImpl) UpdateWithdrawal(
	ctx context.Context, withdrawal domain.Withdrawal,
) error {
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		return w.store.TxUpdate(tx, withdrawal.ID, &withdrawal)
	}
	return w.store.Update(withdrawal.ID, &withdrawal)
}

func (w withdrawalRepositoryImpl) findWithdrawals(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal
	var err error
	if ctx.Value("tx") != nil {
		tx := ctx.Value("tx").(*badger.Txn)
		err = w.store.TxFind(tx, &withdrawals, query)
	} else {
		err = w.store.Find(&withdrawals, query)
	}
	if err != nil {
		return nil, err
	}
	return withdrawals, nil
}
