package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
)

// admitDeposit validates one new candidate transaction and idempotently turns
// it into a Deposit record. It must run inside the block's atomic phase. The
// returned boolean is true only on the pass where the deposit actually gets
// accepted, so that the post-commit trigger fires exactly once.
func (s *reconcilerService) admitDeposit(
	ctx context.Context,
	tx ports.Tx,
	owned map[string]domain.Address,
	currencies map[string]domain.Currency,
	watermark uint64,
) (*domain.Deposit, bool, error) {
	currency, ok := currencies[tx.CurrencyID]
	if !ok {
		logDrop(s.chain.Key, tx.TxID, "currency not tracked for deposits")
		return nil, false, nil
	}

	if tx.Amount.LessThan(currency.MinDepositAmount) {
		logDrop(s.chain.Key, tx.TxID, "amount below currency minimum")
		return nil, false, nil
	}

	if tx.Status != ports.TxStatusSuccess {
		refetched, err := s.fetchTransaction(ctx, tx)
		if err != nil {
			return nil, false, err
		}
		tx = refetched
		if tx.Status != ports.TxStatusSuccess {
			// No record yet, the tx will come back as a new candidate on the
			// next scan.
			logDrop(s.chain.Key, tx.TxID, "not successful on chain yet, deferred")
			return nil, false, nil
		}
	}

	address, ok := owned[s.normalizeAddress(tx.To)]
	if !ok || address.Kind != domain.AddressKindDeposit ||
		address.CurrencyID != tx.CurrencyID || address.MemberID == "" {
		logDrop(s.chain.Key, tx.TxID, "destination not an owned deposit address")
		return nil, false, nil
	}

	// A tx already tracked as a collection leg must not spawn a second
	// Deposit object. Membership is re-checked here, inside the atomic phase,
	// because the pre-partition of candidates runs before it and can race
	// with a concurrent scan.
	ledgerTx, err := s.repoManager.TransactionRepository().
		GetTransaction(ctx, s.chain.Key, tx.TxID)
	if err != nil {
		return nil, false, err
	}
	if ledgerTx != nil && ledgerTx.ReferenceType == domain.ReferenceTypeDeposit {
		logDrop(s.chain.Key, tx.TxID, "already tracked as a collection leg")
		return nil, false, nil
	}

	fromAddresses := tx.From
	if len(fromAddresses) == 0 && s.adapter.Features().TxSourceLookup {
		fromAddresses, err = s.adapter.TransactionSources(ctx, tx)
		if err != nil {
			return nil, false, err
		}
	}

	deposit, created, err := s.repoManager.DepositRepository().GetOrCreateDeposit(
		ctx, domain.Deposit{
			ID:            uuid.NewString(),
			CurrencyID:    tx.CurrencyID,
			ChainKey:      s.chain.Key,
			TxID:          tx.TxID,
			TxOut:         tx.TxOut,
			Amount:        tx.Amount,
			Address:       address.Address,
			MemberID:      address.MemberID,
			FromAddresses: fromAddresses,
			BlockNumber:   tx.BlockNumber,
			State:         domain.DepositStateSubmitted,
			CreatedAt:     time.Now().Unix(),
		},
	)
	if err != nil {
		return nil, false, err
	}

	if !created && deposit.BlockNumber != tx.BlockNumber {
		// Reorg shifted the tx to another block: correct in place, never
		// duplicate.
		deposit.BlockNumber = tx.BlockNumber
		if err := s.repoManager.DepositRepository().
			UpdateDeposit(ctx, *deposit); err != nil {
			return nil, false, err
		}
	}

	if deposit.State == domain.DepositStateSubmitted &&
		s.chain.IsMature(watermark, deposit.BlockNumber) {
		if err := deposit.Accept(); err != nil {
			return nil, false, err
		}
		if err := s.repoManager.DepositRepository().
			UpdateDeposit(ctx, *deposit); err != nil {
			return nil, false, err
		}
		return deposit, true, nil
	}

	return nil, false, nil
}
