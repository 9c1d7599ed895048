package application

import (
	"context"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
)

// reconcileWithdrawal updates one confirming withdrawal with the chain status
// observed in the current block, finalizing it on success or failure. It must
// run inside the block's atomic phase.
func (s *reconcilerService) reconcileWithdrawal(
	ctx context.Context, tx ports.Tx, watermark uint64,
) error {
	withdrawal, err := s.repoManager.WithdrawalRepository().GetWithdrawal(
		ctx, s.chain.Key, tx.CurrencyID, tx.TxID,
		domain.WithdrawalStateConfirming,
	)
	if err != nil {
		return err
	}
	if withdrawal == nil {
		logDrop(s.chain.Key, tx.TxID, "no confirming withdrawal for hash")
		return nil
	}

	// Stamp the block number right away, the confirmation distance on later
	// scans depends on it even if the tx is not final yet.
	withdrawal.BlockNumber = tx.BlockNumber
	if err := s.repoManager.WithdrawalRepository().
		UpdateWithdrawal(ctx, *withdrawal); err != nil {
		return err
	}

	if tx.Status == ports.TxStatusPending {
		tx, err = s.fetchTransaction(ctx, tx)
		if err != nil {
			return err
		}
	}

	ledgerTx, err := s.repoManager.TransactionRepository().
		GetTransaction(ctx, s.chain.Key, tx.TxID)
	if err != nil {
		return err
	}
	if ledgerTx != nil {
		ledgerTx.Fee = tx.Fee
		ledgerTx.BlockNumber = tx.BlockNumber
		if tx.FeeCurrencyID != "" {
			ledgerTx.FeeCurrencyID = tx.FeeCurrencyID
		}
		if err := s.repoManager.TransactionRepository().
			UpdateTransaction(ctx, *ledgerTx); err != nil {
			return err
		}
	}

	switch {
	case tx.Status == ports.TxStatusFailed:
		if err := withdrawal.Fail(); err != nil {
			return err
		}
		if err := s.repoManager.WithdrawalRepository().
			UpdateWithdrawal(ctx, *withdrawal); err != nil {
			return err
		}
		if ledgerTx != nil {
			if err := ledgerTx.Fail(); err != nil {
				return err
			}
			return s.repoManager.TransactionRepository().
				UpdateTransaction(ctx, *ledgerTx)
		}

	case tx.Status == ports.TxStatusSuccess &&
		s.chain.IsMature(watermark, tx.BlockNumber):
		if err := withdrawal.Succeed(); err != nil {
			return err
		}
		if err := s.repoManager.WithdrawalRepository().
			UpdateWithdrawal(ctx, *withdrawal); err != nil {
			return err
		}
		if ledgerTx != nil {
			if err := ledgerTx.Succeed(); err != nil {
				return err
			}
			return s.repoManager.TransactionRepository().
				UpdateTransaction(ctx, *ledgerTx)
		}
	}

	// Still confirming, picked up again on a later scan.
	return nil
}
