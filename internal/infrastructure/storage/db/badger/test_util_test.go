package dbbadger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
	dbbadger "github.com/custodex/reconcilerd/internal/infrastructure/storage/db/badger"
)

func newTestRepoManager(t *testing.T) ports.RepoManager {
	t.Helper()
	repoManager, err := dbbadger.NewRepoManager(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)
	return repoManager
}

func newTestDeposit(txID string) domain.Deposit {
	return domain.Deposit{
		ID:          "dep-" + txID,
		CurrencyID:  "btc",
		ChainKey:    "bitcoin",
		TxID:        txID,
		TxOut:       0,
		Amount:      decimal.RequireFromString("0.5"),
		Address:     "bc1qdeposit",
		MemberID:    "member-1",
		BlockNumber: 10,
		State:       domain.DepositStateSubmitted,
		CreatedAt:   1700000000,
	}
}
