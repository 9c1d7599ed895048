package application

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
)

// advancePendingLegs progresses the collection sub-state-machine of deposits
// whose fee or collection legs showed up in the current block. Every write is
// idempotent so the whole phase can be replayed after a crash.
func (s *reconcilerService) advancePendingLegs(
	ctx context.Context, existingTxs []ports.Tx,
) error {
	if len(existingTxs) == 0 {
		return nil
	}

	txByID := make(map[string]ports.Tx, len(existingTxs))
	txIDs := make([]string, 0, len(existingTxs))
	for _, tx := range existingTxs {
		if _, ok := txByID[tx.TxID]; ok {
			continue
		}
		txByID[tx.TxID] = tx
		txIDs = append(txIDs, tx.TxID)
	}

	ledgerTxs, err := s.repoManager.TransactionRepository().
		ListTransactionsByTxIDs(ctx, s.chain.Key, txIDs)
	if err != nil {
		return err
	}

	for _, ledgerTx := range ledgerTxs {
		if !ledgerTx.IsPending() {
			continue
		}
		if ledgerTx.ReferenceType != domain.ReferenceTypeDeposit {
			continue
		}

		chainTx, ok := txByID[ledgerTx.TxID]
		if !ok {
			continue
		}

		deposit, err := s.repoManager.DepositRepository().
			GetDepositByID(ctx, ledgerTx.ReferenceID)
		if err != nil {
			return err
		}
		if deposit == nil || !deposit.IsCollectionRelated() {
			continue
		}

		// Block-level summaries may omit fee or finality on some chains,
		// resolve them with a second round-trip when possible.
		if chainTx.Status == ports.TxStatusPending || chainTx.Fee.IsZero() {
			chainTx, err = s.fetchTransaction(ctx, chainTx)
			if err != nil {
				return err
			}
		}

		if _, err := s.repoManager.RunTransaction(
			ctx, !readOnlyTx,
			func(ctx context.Context) (interface{}, error) {
				return nil, s.advanceLeg(ctx, ledgerTx, chainTx, *deposit)
			},
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *reconcilerService) advanceLeg(
	ctx context.Context,
	ledgerTx domain.Transaction,
	chainTx ports.Tx,
	deposit domain.Deposit,
) error {
	// Observed fee and block number are persisted regardless of the outcome.
	ledgerTx.Fee = chainTx.Fee
	ledgerTx.BlockNumber = chainTx.BlockNumber
	if chainTx.FeeCurrencyID != "" {
		ledgerTx.FeeCurrencyID = chainTx.FeeCurrencyID
	}

	switch chainTx.Status {
	case ports.TxStatusSuccess:
		if err := ledgerTx.Succeed(); err != nil {
			return err
		}
		if err := s.repoManager.TransactionRepository().
			UpdateTransaction(ctx, ledgerTx); err != nil {
			return err
		}
		return s.advanceDepositForLeg(ctx, ledgerTx, deposit)

	case ports.TxStatusFailed:
		if err := ledgerTx.Fail(); err != nil {
			return err
		}
		if err := s.repoManager.TransactionRepository().
			UpdateTransaction(ctx, ledgerTx); err != nil {
			return err
		}

		reason := fmt.Sprintf("collection leg %s failed on chain", ledgerTx.TxID)
		if ledgerTx.Kind == domain.TransactionKindFeePrebuild {
			reason = fmt.Sprintf("fee prebuild leg %s failed on chain", ledgerTx.TxID)
		}
		deposit.MarkErrored(reason)
		return s.repoManager.DepositRepository().UpdateDeposit(ctx, deposit)

	default:
		// Unsettled on chain: keep the leg pending and re-evaluate it on the
		// next block.
		return s.repoManager.TransactionRepository().UpdateTransaction(ctx, ledgerTx)
	}
}

func (s *reconcilerService) advanceDepositForLeg(
	ctx context.Context, ledgerTx domain.Transaction, deposit domain.Deposit,
) error {
	switch {
	case ledgerTx.Kind == domain.TransactionKindFeePrebuild &&
		deposit.State == domain.DepositStateFeeCollecting:
		if err := deposit.StartFeeProcessing(); err != nil {
			return err
		}

	case ledgerTx.Kind == domain.TransactionKindCollection &&
		deposit.State == domain.DepositStateCollecting:
		if err := deposit.MarkLegSucceeded(ledgerTx.TxID); err != nil {
			log.Warnf(
				"chain %s: tx %s succeeded but is not part of deposit %s spread",
				s.chain.Key, ledgerTx.TxID, deposit.ID,
			)
			return nil
		}
		if deposit.IsSpreadSettled() {
			if err := deposit.Collect(); err != nil {
				return err
			}
		}

	default:
		return nil
	}

	return s.repoManager.DepositRepository().UpdateDeposit(ctx, deposit)
}
