package application_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/custodex/reconcilerd/internal/core/application"
	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
	"github.com/custodex/reconcilerd/internal/infrastructure/storage/db/inmemory"
)

const (
	testChainKey       = "bitcoin"
	testCurrencyID     = "btc"
	testMemberID       = "member-1"
	depositAddress     = "bc1qMemberDeposit00"
	operationalAddress = "bc1qOperational00"
	externalAddress    = "bc1qSomebodyElse00"
)

// mockAdapter is a scripted in-memory ports.BlockchainAdapter. Unknown heights
// resolve to empty blocks, like a chain with no activity. The tip is guarded
// by a lock so tests can move it while a watcher goroutine polls it.
type mockAdapter struct {
	tipLock  sync.Mutex
	tip      uint64
	tipErr   error
	blocks   map[uint64]*ports.Block
	details  map[string]ports.Tx
	sources  map[string][]string
	balances map[string]decimal.Decimal
	features ports.Features
}

func newMockAdapter(tip uint64) *mockAdapter {
	return &mockAdapter{
		tip:      tip,
		blocks:   make(map[uint64]*ports.Block),
		details:  make(map[string]ports.Tx),
		sources:  make(map[string][]string),
		balances: make(map[string]decimal.Decimal),
	}
}

func (m *mockAdapter) addBlock(height uint64, txs ...ports.Tx) {
	m.blocks[height] = &ports.Block{Height: height, Txs: txs}
}

func (m *mockAdapter) setTip(height uint64) {
	m.tipLock.Lock()
	defer m.tipLock.Unlock()
	m.tip = height
}

func (m *mockAdapter) Configure(settings ports.AdapterSettings) error { return nil }

func (m *mockAdapter) LatestBlockNumber(ctx context.Context) (uint64, error) {
	m.tipLock.Lock()
	defer m.tipLock.Unlock()

	if m.tipErr != nil {
		return 0, m.tipErr
	}
	return m.tip, nil
}

func (m *mockAdapter) GetBlock(ctx context.Context, height uint64) (*ports.Block, error) {
	if block, ok := m.blocks[height]; ok {
		return block, nil
	}
	return &ports.Block{Height: height}, nil
}

func (m *mockAdapter) GetBalance(
	ctx context.Context, address, currencyID string,
) (decimal.Decimal, error) {
	balance, ok := m.balances[address]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown address %s", address)
	}
	return balance, nil
}

func (m *mockAdapter) GetTransaction(ctx context.Context, tx ports.Tx) (ports.Tx, error) {
	if detail, ok := m.details[tx.TxID]; ok {
		return detail, nil
	}
	return tx, nil
}

func (m *mockAdapter) TransactionSources(ctx context.Context, tx ports.Tx) ([]string, error) {
	if !m.features.TxSourceLookup {
		return nil, ports.ErrNotSupported
	}
	return m.sources[tx.TxID], nil
}

func (m *mockAdapter) Features() ports.Features { return m.features }

// serviceFixture wires a reconciler service to the map-backed store, with the
// usual chain provisioning: one deposit-enabled currency, one disabled one, a
// member deposit address and an operational wallet address.
type serviceFixture struct {
	t           *testing.T
	repoManager ports.RepoManager
	adapter     *mockAdapter
	svc         application.ReconcilerService
	accepted    []domain.Deposit
}

func newServiceFixture(
	t *testing.T, minConfirmations uint64, adapter *mockAdapter,
) *serviceFixture {
	t.Helper()
	ctx := context.Background()

	repoManager := inmemory.NewRepoManager()
	chain := domain.Chain{
		Key:              testChainKey,
		Height:           5,
		MinConfirmations: minConfirmations,
		Currencies:       []string{testCurrencyID},
	}
	require.NoError(t, repoManager.ChainRepository().AddChain(ctx, chain))
	require.NoError(t, repoManager.CurrencyRepository().AddCurrency(ctx, domain.Currency{
		ID:               testCurrencyID,
		ChainKey:         testChainKey,
		MinDepositAmount: decimal.RequireFromString("0.0001"),
		DepositEnabled:   true,
	}))
	require.NoError(t, repoManager.CurrencyRepository().AddCurrency(ctx, domain.Currency{
		ID:               "frozen",
		ChainKey:         testChainKey,
		MinDepositAmount: decimal.RequireFromString("0.0001"),
		DepositEnabled:   false,
	}))
	require.NoError(t, repoManager.AddressRepository().AddAddress(ctx, domain.Address{
		Address:    depositAddress,
		MemberID:   testMemberID,
		CurrencyID: testCurrencyID,
		ChainKey:   testChainKey,
		Kind:       domain.AddressKindDeposit,
	}))
	require.NoError(t, repoManager.AddressRepository().AddAddress(ctx, domain.Address{
		Address:    operationalAddress,
		CurrencyID: testCurrencyID,
		ChainKey:   testChainKey,
		Kind:       domain.AddressKindOperational,
	}))

	fixture := &serviceFixture{
		t:           t,
		repoManager: repoManager,
		adapter:     adapter,
	}
	fixture.svc = application.NewReconcilerService(
		chain, repoManager, adapter, func(deposit domain.Deposit) {
			fixture.accepted = append(fixture.accepted, deposit)
		},
	)
	return fixture
}

func (f *serviceFixture) processBlock(height uint64) {
	f.t.Helper()
	_, err := f.svc.ProcessBlock(context.Background(), height)
	require.NoError(f.t, err)
}

func (f *serviceFixture) deposits() []domain.Deposit {
	f.t.Helper()
	deposits, err := f.repoManager.DepositRepository().
		ListDepositsForChain(context.Background(), testChainKey)
	require.NoError(f.t, err)
	return deposits
}

func (f *serviceFixture) ledgerTx(txID string) *domain.Transaction {
	f.t.Helper()
	tx, err := f.repoManager.TransactionRepository().
		GetTransaction(context.Background(), testChainKey, txID)
	require.NoError(f.t, err)
	return tx
}

func successTx(txID, to, amount string, height uint64) ports.Tx {
	return ports.Tx{
		CurrencyID:  testCurrencyID,
		TxID:        txID,
		To:          to,
		Amount:      decimal.RequireFromString(amount),
		Fee:         decimal.RequireFromString("0.00001"),
		BlockNumber: height,
		Status:      ports.TxStatusSuccess,
	}
}
