package application_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
)

// seedConfirmingWithdrawal stores a confirming withdrawal with its companion
// ledger transaction, as the upstream broadcaster leaves them.
func seedConfirmingWithdrawal(
	t *testing.T, fixture *serviceFixture, txID string,
) domain.Withdrawal {
	t.Helper()
	ctx := context.Background()

	withdrawal := domain.Withdrawal{
		ID:         "wdr-1",
		CurrencyID: testCurrencyID,
		ChainKey:   testChainKey,
		TxID:       txID,
		Amount:     decimal.RequireFromString("0.3"),
		State:      domain.WithdrawalStateConfirming,
	}
	require.NoError(t, fixture.repoManager.WithdrawalRepository().
		AddWithdrawal(ctx, withdrawal))
	require.NoError(t, fixture.repoManager.TransactionRepository().
		AddTransaction(ctx, domain.Transaction{
			TxID:          txID,
			CurrencyID:    testCurrencyID,
			ChainKey:      testChainKey,
			Kind:          domain.TransactionKindCollection,
			Status:        domain.TransactionStatusPending,
			ReferenceType: domain.ReferenceTypeWithdrawal,
			ReferenceID:   withdrawal.ID,
		}))
	return withdrawal
}

func (f *serviceFixture) withdrawal(
	txID string, state domain.WithdrawalState,
) *domain.Withdrawal {
	f.t.Helper()
	withdrawal, err := f.repoManager.WithdrawalRepository().GetWithdrawal(
		context.Background(), testChainKey, testCurrencyID, txID, state,
	)
	require.NoError(f.t, err)
	return withdrawal
}

func TestReconcileWithdrawalSucceeds(t *testing.T) {
	adapter := newMockAdapter(12)
	adapter.addBlock(10, successTx("wtx1", externalAddress, "0.3", 10))
	fixture := newServiceFixture(t, 2, adapter)
	seedConfirmingWithdrawal(t, fixture, "wtx1")

	fixture.processBlock(10)

	withdrawal := fixture.withdrawal("wtx1", domain.WithdrawalStateSucceeded)
	require.NotNil(t, withdrawal)
	require.Equal(t, uint64(10), withdrawal.BlockNumber)

	ledgerTx := fixture.ledgerTx("wtx1")
	require.Equal(t, domain.TransactionStatusSucceeded, ledgerTx.Status)
	require.Equal(t, uint64(10), ledgerTx.BlockNumber)
	require.True(t, ledgerTx.Fee.Equal(decimal.RequireFromString("0.00001")))
}

func TestReconcileWithdrawalWaitsForConfirmations(t *testing.T) {
	adapter := newMockAdapter(10)
	adapter.addBlock(10, successTx("wtx1", externalAddress, "0.3", 10))
	fixture := newServiceFixture(t, 2, adapter)
	seedConfirmingWithdrawal(t, fixture, "wtx1")

	fixture.processBlock(10)

	// zero confirmations, still confirming but the block number is stamped
	withdrawal := fixture.withdrawal("wtx1", domain.WithdrawalStateConfirming)
	require.NotNil(t, withdrawal)
	require.Equal(t, uint64(10), withdrawal.BlockNumber)

	// the tip catches up, a rescan finalizes it
	adapter.setTip(12)
	fixture.svc.ResetHeight()
	fixture.processBlock(10)

	require.NotNil(
		t, fixture.withdrawal("wtx1", domain.WithdrawalStateSucceeded),
	)
}

func TestReconcileWithdrawalFails(t *testing.T) {
	tx := successTx("wtx1", externalAddress, "0.3", 10)
	tx.Status = ports.TxStatusFailed
	adapter := newMockAdapter(12)
	adapter.addBlock(10, tx)
	fixture := newServiceFixture(t, 2, adapter)
	seedConfirmingWithdrawal(t, fixture, "wtx1")

	fixture.processBlock(10)

	require.NotNil(t, fixture.withdrawal("wtx1", domain.WithdrawalStateFailed))
	require.Equal(
		t, domain.TransactionStatusFailed, fixture.ledgerTx("wtx1").Status,
	)
}

func TestReconcileWithdrawalReplayIsIdempotent(t *testing.T) {
	adapter := newMockAdapter(12)
	adapter.addBlock(10, successTx("wtx1", externalAddress, "0.3", 10))
	fixture := newServiceFixture(t, 2, adapter)
	seedConfirmingWithdrawal(t, fixture, "wtx1")

	fixture.processBlock(10)
	fixture.processBlock(10)

	require.NotNil(
		t, fixture.withdrawal("wtx1", domain.WithdrawalStateSucceeded),
	)
}

func TestReconcileWithdrawalIgnoresCurrencyMismatch(t *testing.T) {
	tx := successTx("wtx1", externalAddress, "0.3", 10)
	tx.CurrencyID = "frozen"
	adapter := newMockAdapter(12)
	adapter.addBlock(10, tx)
	fixture := newServiceFixture(t, 2, adapter)
	seedConfirmingWithdrawal(t, fixture, "wtx1")

	fixture.processBlock(10)

	// hash collides but the currency does not, the withdrawal is untouched
	withdrawal := fixture.withdrawal("wtx1", domain.WithdrawalStateConfirming)
	require.NotNil(t, withdrawal)
	require.Zero(t, withdrawal.BlockNumber)
}

func TestReconcileWithdrawalDoesNotTouchOtherRecords(t *testing.T) {
	adapter := newMockAdapter(12)
	adapter.addBlock(10,
		successTx("wtx1", externalAddress, "0.3", 10),
		successTx("dep1", depositAddress, "0.5", 10),
	)
	fixture := newServiceFixture(t, 2, adapter)
	seedConfirmingWithdrawal(t, fixture, "wtx1")

	fixture.processBlock(10)

	// the deposit flow and the withdrawal flow settle independently in the
	// same block
	require.NotNil(
		t, fixture.withdrawal("wtx1", domain.WithdrawalStateSucceeded),
	)
	deposits := fixture.deposits()
	require.Len(t, deposits, 1)
	require.Equal(t, domain.DepositStateAccepted, deposits[0].State)
}
