package inmemory

import (
	"context"
	"sync"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

type transactionInmemoryStore struct {
	transactions map[domain.TransactionKey]domain.Transaction
	locker       *sync.RWMutex
}

func newTransactionInmemoryStore() *transactionInmemoryStore {
	return &transactionInmemoryStore{
		transactions: map[domain.TransactionKey]domain.Transaction{},
		locker:       &sync.RWMutex{},
	}
}

type TransactionRepositoryImpl struct {
	store *transactionInmemoryStore
}

// NewTransactionRepositoryImpl returns a new empty TransactionRepositoryImpl
func NewTransactionRepositoryImpl(
	store *transactionInmemoryStore,
) domain.TransactionRepository {
	return &TransactionRepositoryImpl{store}
}

func (t TransactionRepositoryImpl) AddTransaction(
	ctx context.Context, tx domain.Transaction,
) error {
	t.store.locker.Lock()
	defer t.store.locker.Unlock()

	if _, ok := t.store.transactions[tx.Key()]; ok {
		return nil
	}
	t.store.transactions[tx.Key()] = tx
	return nil
}

func (t TransactionRepositoryImpl) GetTransaction(
	ctx context.Context, chainKey, txID string,
) (*domain.Transaction, error) {
	t.store.locker.RLock()
	defer t.store.locker.RUnlock()

	tx, ok := t.store.transactions[domain.TransactionKey{
		ChainKey: chainKey,
		TxID:     txID,
	}]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (t TransactionRepositoryImpl) ListTransactionsByTxIDs(
	ctx context.Context, chainKey string, txIDs []string,
) ([]domain.Transaction, error) {
	t.store.locker.RLock()
	defer t.store.locker.RUnlock()

	result := make([]domain.Transaction, 0)
	for _, txID := range txIDs {
		tx, ok := t.store.transactions[domain.TransactionKey{
			ChainKey: chainKey,
			TxID:     txID,
		}]
		if ok {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (t TransactionRepositoryImpl) UpdateTransaction(
	ctx context.Context, tx domain.Transaction,
) error {
	t.store.locker.Lock()
	defer t.store.locker.Unlock()

	t.store.transactions[tx.Key()] = tx
	return nil
}
