package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type transactionRepositoryImpl struct {
	store *badgerhold.Store
}

// NewTransactionRepositoryImpl initializes a badger implementation of the
// domain.TransactionRepository.
func NewTransactionRepositoryImpl(
	store *badgerhold.Store,
) domain.TransactionRepository {
	return transactionRepositoryImpl{store}
}

func (t transactionRepositoryImpl) AddTransaction(
	ctx context.Context, tx domain.Transaction,
) error {
	var err error
	if ctx.Value("tx") != nil {
		badgerTx := ctx.Value("tx").(*badger.Txn)
		err = t.store.TxInsert(badgerTx, tx.Key(), &tx)
	} else {
		err = t.store.Insert(tx.Key(), &tx)
	}
	if err != nil && err != badgerhold.ErrKeyExists {
		return err
	}
	return nil
}

func (t transactionRepositoryImpl) GetTransaction(
	ctx context.Context, chainKey, txID string,
) (*domain.Transaction, error) {
	key := domain.TransactionKey{ChainKey: chainKey, TxID: txID}

	var tx domain.Transaction
	var err error
	if ctx.Value("tx") != nil {
		badgerTx := ctx.Value("tx").(*badger.Txn)
		err = t.store.TxGet(badgerTx, key, &tx)
	} else {
		err = t.store.Get(key, &tx)
	}
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tx, nil
}

func (t transactionRepositoryImpl) ListTransactionsByTxIDs(
	ctx context.Context, chainKey string, txIDs []string,
) ([]domain.Transaction, error) {
	if len(txIDs) == 0 {
		return nil, nil
	}

	ids := make([]interface{}, 0, len(txIDs))
	for _, id := range txIDs {
		ids = append(ids, id)
	}
	query := badgerhold.Where("ChainKey").Eq(chainKey).And("TxID").In(ids...)

	var txs []domain.Transaction
	var err error
	if ctx.Value("tx") != nil {
		badgerTx := ctx.Value("tx").(*badger.Txn)
		err = t.store.TxFind(badgerTx, &txs, query)
	} else {
		err = t.store.Find(&txs, query)
	}
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (t transactionRepositoryImpl) UpdateTransaction(
	ctx context.Context, tx domain.Transaction,
) error {
	if ctx.Value("tx") != nil {
		badgerTx := ctx.Value("tx").(*badger.Txn)
		return t.store.TxUpdate(badgerTx, tx.Key(), &tx)
	}
	return t.store.Update(tx.Key(), &tx)
}
