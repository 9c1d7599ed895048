package dbbadger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
)

// repoManager holds every repository on top of a single badgerhold store.
// All reconciliation entities share the one store so that the block's atomic
// phase can span deposits, withdrawals and ledger transactions in a single
// badger transaction.
type repoManager struct {
	store *badgerhold.Store

	chainRepository       domain.ChainRepository
	currencyRepository    domain.CurrencyRepository
	addressRepository     domain.AddressRepository
	transactionRepository domain.TransactionRepository
	depositRepository     domain.DepositRepository
	withdrawalRepository  domain.WithdrawalRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	store, err := createDb(baseDbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	return &repoManager{
		store:                 store,
		chainRepository:       NewChainRepositoryImpl(store),
		currencyRepository:    NewCurrencyRepositoryImpl(store),
		addressRepository:     NewAddressRepositoryImpl(store),
		transactionRepository: NewTransactionRepositoryImpl(store),
		depositRepository:     NewDepositRepositoryImpl(store),
		withdrawalRepository:  NewWithdrawalRepositoryImpl(store),
	}, nil
}

func (d *repoManager) ChainRepository() domain.ChainRepository {
	return d.chainRepository
}

func (d *repoManager) CurrencyRepository() domain.CurrencyRepository {
	return d.currencyRepository
}

func (d *repoManager) AddressRepository() domain.AddressRepository {
	return d.addressRepository
}

func (d *repoManager) TransactionRepository() domain.TransactionRepository {
	return d.transactionRepository
}

func (d *repoManager) DepositRepository() domain.DepositRepository {
	return d.depositRepository
}

func (d *repoManager) WithdrawalRepository() domain.WithdrawalRepository {
	return d.withdrawalRepository
}

func (d *repoManager) Close() {
	d.store.Close()
}

// RunTransaction implements the RepoManager interface. The badger transaction
// travels to the repositories through the context.
func (d *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	tx := d.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, "tx", tx))
	if err != nil {
		return nil, err
	}

	if !readOnly {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	return json.NewDecoder(bytes.NewReader(data)).Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
