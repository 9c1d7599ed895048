package application_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
)

// seedCollectingDeposit stores a deposit mid-collection together with one
// pending ledger transaction per leg, the way the upstream collector leaves
// them after broadcasting.
func seedCollectingDeposit(
	t *testing.T,
	fixture *serviceFixture,
	state domain.DepositState,
	legs map[string]domain.TransactionKind,
) domain.Deposit {
	t.Helper()
	ctx := context.Background()

	deposit := domain.Deposit{
		ID:          "dep-1",
		CurrencyID:  testCurrencyID,
		ChainKey:    testChainKey,
		TxID:        "funding1",
		Amount:      decimal.RequireFromString("0.5"),
		Address:     depositAddress,
		MemberID:    testMemberID,
		BlockNumber: 8,
		State:       state,
	}
	for txID, kind := range legs {
		if kind == domain.TransactionKindCollection {
			deposit.Spread = append(deposit.Spread, domain.SpreadEntry{
				TxHash: txID,
				Status: domain.TransactionStatusPending,
			})
		}
	}

	stored, _, err := fixture.repoManager.DepositRepository().
		GetOrCreateDeposit(ctx, deposit)
	require.NoError(t, err)

	for txID, kind := range legs {
		require.NoError(t, fixture.repoManager.TransactionRepository().
			AddTransaction(ctx, domain.Transaction{
				TxID:          txID,
				CurrencyID:    testCurrencyID,
				ChainKey:      testChainKey,
				Kind:          kind,
				Status:        domain.TransactionStatusPending,
				ReferenceType: domain.ReferenceTypeDeposit,
				ReferenceID:   stored.ID,
			}))
	}
	return *stored
}

func (f *serviceFixture) depositByID(id string) domain.Deposit {
	f.t.Helper()
	deposit, err := f.repoManager.DepositRepository().
		GetDepositByID(context.Background(), id)
	require.NoError(f.t, err)
	require.NotNil(f.t, deposit)
	return *deposit
}

func TestFeePrebuildLegAdvancesDeposit(t *testing.T) {
	adapter := newMockAdapter(12)
	adapter.addBlock(10, successTx("fee1", depositAddress, "0.001", 10))
	fixture := newServiceFixture(t, 2, adapter)
	seedCollectingDeposit(t, fixture, domain.DepositStateFeeCollecting,
		map[string]domain.TransactionKind{
			"fee1": domain.TransactionKindFeePrebuild,
		})

	fixture.processBlock(10)

	deposit := fixture.depositByID("dep-1")
	require.Equal(t, domain.DepositStateFeeProcessing, deposit.State)

	ledgerTx := fixture.ledgerTx("fee1")
	require.NotNil(t, ledgerTx)
	require.Equal(t, domain.TransactionStatusSucceeded, ledgerTx.Status)
	require.Equal(t, uint64(10), ledgerTx.BlockNumber)
	require.True(t, ledgerTx.Fee.Equal(decimal.RequireFromString("0.00001")))
}

func TestCollectionLegsSettleSpreadAcrossBlocks(t *testing.T) {
	adapter := newMockAdapter(20)
	adapter.addBlock(10, successTx("col2", operationalAddress, "0.2", 10))
	adapter.addBlock(11,
		successTx("col1", operationalAddress, "0.2", 11),
		successTx("col3", operationalAddress, "0.1", 11),
	)
	fixture := newServiceFixture(t, 2, adapter)
	seedCollectingDeposit(t, fixture, domain.DepositStateCollecting,
		map[string]domain.TransactionKind{
			"col1": domain.TransactionKindCollection,
			"col2": domain.TransactionKindCollection,
			"col3": domain.TransactionKindCollection,
		})

	// legs settle out of order, one leg alone leaves the deposit collecting
	fixture.processBlock(10)
	require.Equal(
		t, domain.DepositStateCollecting, fixture.depositByID("dep-1").State,
	)

	fixture.processBlock(11)

	deposit := fixture.depositByID("dep-1")
	require.Equal(t, domain.DepositStateCollected, deposit.State)
	for _, entry := range deposit.Spread {
		require.Equal(t, domain.TransactionStatusSucceeded, entry.Status)
	}
	for _, txID := range []string{"col1", "col2", "col3"} {
		require.Equal(
			t, domain.TransactionStatusSucceeded, fixture.ledgerTx(txID).Status,
		)
	}
}

func TestCollectionLegReplayIsIdempotent(t *testing.T) {
	adapter := newMockAdapter(20)
	adapter.addBlock(10, successTx("col1", operationalAddress, "0.5", 10))
	fixture := newServiceFixture(t, 2, adapter)
	seedCollectingDeposit(t, fixture, domain.DepositStateCollecting,
		map[string]domain.TransactionKind{
			"col1": domain.TransactionKindCollection,
		})

	fixture.processBlock(10)
	fixture.processBlock(10)

	deposit := fixture.depositByID("dep-1")
	require.Equal(t, domain.DepositStateCollected, deposit.State)
}

func TestCollectionLegFailureErrorsDeposit(t *testing.T) {
	tx := successTx("col1", operationalAddress, "0.5", 10)
	tx.Status = ports.TxStatusFailed
	adapter := newMockAdapter(20)
	adapter.addBlock(10, tx)
	fixture := newServiceFixture(t, 2, adapter)
	seedCollectingDeposit(t, fixture, domain.DepositStateCollecting,
		map[string]domain.TransactionKind{
			"col1": domain.TransactionKindCollection,
		})

	fixture.processBlock(10)

	deposit := fixture.depositByID("dep-1")
	require.Equal(t, domain.DepositStateErrored, deposit.State)
	require.Contains(t, deposit.StateReason, "col1")
	require.Equal(
		t, domain.TransactionStatusFailed, fixture.ledgerTx("col1").Status,
	)
}

func TestFeePrebuildLegFailureErrorsDeposit(t *testing.T) {
	tx := successTx("fee1", depositAddress, "0.001", 10)
	tx.Status = ports.TxStatusFailed
	adapter := newMockAdapter(20)
	adapter.addBlock(10, tx)
	fixture := newServiceFixture(t, 2, adapter)
	seedCollectingDeposit(t, fixture, domain.DepositStateFeeCollecting,
		map[string]domain.TransactionKind{
			"fee1": domain.TransactionKindFeePrebuild,
		})

	fixture.processBlock(10)

	deposit := fixture.depositByID("dep-1")
	require.Equal(t, domain.DepositStateErrored, deposit.State)
	require.Contains(t, deposit.StateReason, "fee prebuild")
}

func TestUnsettledLegStaysPending(t *testing.T) {
	tx := successTx("col1", operationalAddress, "0.5", 10)
	tx.Status = ports.TxStatusPending
	adapter := newMockAdapter(20)
	adapter.addBlock(10, tx)
	fixture := newServiceFixture(t, 2, adapter)
	seedCollectingDeposit(t, fixture, domain.DepositStateCollecting,
		map[string]domain.TransactionKind{
			"col1": domain.TransactionKindCollection,
		})

	fixture.processBlock(10)

	require.Equal(
		t, domain.DepositStateCollecting, fixture.depositByID("dep-1").State,
	)
	ledgerTx := fixture.ledgerTx("col1")
	require.Equal(t, domain.TransactionStatusPending, ledgerTx.Status)
	// the observed block number is persisted even without an outcome
	require.Equal(t, uint64(10), ledgerTx.BlockNumber)
}
