package application

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"

	"github.com/custodex/reconcilerd/internal/core/domain"
	"github.com/custodex/reconcilerd/internal/core/ports"
)

const readOnlyTx = true

// ProcessorFunc is invoked once per newly accepted deposit, after the block's
// atomic phase committed. Kicking off the collection flow is its caller's
// business, the engine only guarantees the exactly-once trigger.
type ProcessorFunc func(deposit domain.Deposit)

// ReconcilerService reconciles the ledger of one chain against its remote
// state, one block at a time.
type ReconcilerService interface {
	// Chain returns a snapshot of the chain the service reconciles.
	Chain() domain.Chain
	// ProcessBlock ingests the block at the given height. Heights must be fed
	// in non-decreasing order, re-invoking with an already processed height is
	// safe.
	ProcessBlock(ctx context.Context, height uint64) (*ports.Block, error)
	// UpdateHeight advances the persisted chain cursor to the given height
	// once the confirmation margin behind the watermark is satisfied. It
	// fails with domain.ErrChainHeightConflict if another writer moved the
	// cursor since it was last read.
	UpdateHeight(ctx context.Context, height uint64) error
	// LatestBlockNumber returns the chain tip height, memoized until
	// ResetHeight is called.
	LatestBlockNumber(ctx context.Context) (uint64, error)
	// ResetHeight invalidates the memoized tip height.
	ResetHeight()
	// LoadBalance returns the confirmed balance of the given address, wrapping
	// adapter failures into ErrBalanceLoad.
	LoadBalance(ctx context.Context, address, currencyID string) (decimal.Decimal, error)
	// Features exposes the adapter capability set.
	Features() ports.Features
}

type reconcilerService struct {
	chain       domain.Chain
	repoManager ports.RepoManager
	adapter     ports.BlockchainAdapter
	processor   ProcessorFunc

	latestLock  sync.Mutex
	latestBlock *uint64
}

// NewReconcilerService returns a ReconcilerService bound to the given chain,
// store and adapter. The processor may be nil.
func NewReconcilerService(
	chain domain.Chain,
	repoManager ports.RepoManager,
	adapter ports.BlockchainAdapter,
	processor ProcessorFunc,
) ReconcilerService {
	return &reconcilerService{
		chain:       chain,
		repoManager: repoManager,
		adapter:     adapter,
		processor:   processor,
	}
}

func (s *reconcilerService) Chain() domain.Chain {
	return s.chain
}

func (s *reconcilerService) ProcessBlock(
	ctx context.Context, height uint64,
) (*ports.Block, error) {
	block, err := s.adapter.GetBlock(ctx, height)
	if err != nil {
		return nil, err
	}

	currencies, err := s.depositCurrencies(ctx)
	if err != nil {
		return nil, err
	}

	owned, err := s.ownedAddresses(ctx, currencies)
	if err != nil {
		return nil, err
	}

	confirming, err := s.repoManager.WithdrawalRepository().
		GetConfirmingWithdrawals(ctx, s.chain.Key)
	if err != nil {
		return nil, err
	}
	withdrawalTxIDs := make(map[string]struct{}, len(confirming))
	for _, withdrawal := range confirming {
		withdrawalTxIDs[withdrawal.TxID] = struct{}{}
	}

	depositCandidates, withdrawalCandidates := s.matchTransactions(
		block.Txs, owned, withdrawalTxIDs,
	)

	newTxs, existingTxs, err := s.splitByKnownTxs(ctx, depositCandidates)
	if err != nil {
		return nil, err
	}

	watermark, err := s.LatestBlockNumber(ctx)
	if err != nil {
		return nil, err
	}

	// Leg advancement performs its own persistence and every one of its
	// writes is idempotent, it deliberately runs outside the atomic phase
	// below. A crash between the two phases is recovered by replaying the
	// same block.
	if err := s.advancePendingLegs(ctx, existingTxs); err != nil {
		return nil, err
	}

	accepted := make([]domain.Deposit, 0)
	if _, err := s.repoManager.RunTransaction(
		ctx, !readOnlyTx,
		func(ctx context.Context) (interface{}, error) {
			for _, tx := range newTxs {
				deposit, ok, err := s.admitDeposit(ctx, tx, owned, currencies, watermark)
				if err != nil {
					return nil, err
				}
				if ok {
					accepted = append(accepted, *deposit)
				}
			}
			for _, tx := range withdrawalCandidates {
				if err := s.reconcileWithdrawal(ctx, tx, watermark); err != nil {
					return nil, err
				}
			}
			return nil, nil
		},
	); err != nil {
		return nil, err
	}

	// Downstream side effects fire only once the atomic phase committed, a
	// failed commit must never trigger them.
	if s.processor != nil {
		for _, deposit := range accepted {
			s.processor(deposit)
		}
	}

	return block, nil
}

func (s *reconcilerService) UpdateHeight(ctx context.Context, height uint64) error {
	if height <= s.chain.Height {
		return nil
	}

	watermark, err := s.LatestBlockNumber(ctx)
	if err != nil {
		return err
	}
	if watermark < height || watermark-height < s.chain.MinConfirmations {
		// confirmation margin not satisfied yet, the cursor stays put
		return nil
	}

	if err := s.repoManager.ChainRepository().UpdateHeight(
		ctx, s.chain.Key, s.chain.Height, height,
	); err != nil {
		return err
	}

	s.chain.Height = height
	return nil
}

// depositCurrencies returns the deposit-enabled currencies of the chain,
// indexed by id.
func (s *reconcilerService) depositCurrencies(
	ctx context.Context,
) (map[string]domain.Currency, error) {
	currencies, err := s.repoManager.CurrencyRepository().
		GetCurrenciesForChain(ctx, s.chain.Key)
	if err != nil {
		return nil, err
	}

	enabled := make(map[string]domain.Currency)
	for _, currency := range currencies {
		if currency.DepositEnabled {
			enabled[currency.ID] = currency
		}
	}
	return enabled, nil
}

// ownedAddresses returns the platform ownership set for the chain, keyed by
// normalized address. Both member deposit addresses and operational wallet
// addresses go through the same normalization policy.
func (s *reconcilerService) ownedAddresses(
	ctx context.Context, currencies map[string]domain.Currency,
) (map[string]domain.Address, error) {
	addresses, err := s.repoManager.AddressRepository().
		GetAddressesForChain(ctx, s.chain.Key)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]domain.Address, len(addresses))
	for _, address := range addresses {
		if _, ok := currencies[address.CurrencyID]; !ok {
			continue
		}
		owned[s.normalizeAddress(address.Address)] = address
	}
	return owned, nil
}

// matchTransactions classifies block transactions as deposit candidates, by
// destination address ownership, and withdrawal candidates, by hash
// membership among confirming withdrawals. It is a pure membership filter.
func (s *reconcilerService) matchTransactions(
	txs []ports.Tx,
	owned map[string]domain.Address,
	withdrawalTxIDs map[string]struct{},
) (depositCandidates, withdrawalCandidates []ports.Tx) {
	for _, tx := range txs {
		if _, ok := owned[s.normalizeAddress(tx.To)]; ok {
			depositCandidates = append(depositCandidates, tx)
		}
		if _, ok := withdrawalTxIDs[tx.TxID]; ok {
			withdrawalCandidates = append(withdrawalCandidates, tx)
		}
	}
	return
}

// splitByKnownTxs partitions deposit candidates into those already tracked by
// a ledger transaction and brand new ones. This partition alone cannot detect
// two overlapping scans admitting the same transaction, the storage-level
// uniqueness of the deposit natural key is the real safety net and membership
// is re-checked inside the atomic admission phase.
func (s *reconcilerService) splitByKnownTxs(
	ctx context.Context, candidates []ports.Tx,
) (newTxs, existingTxs []ports.Tx, err error) {
	if len(candidates) == 0 {
		return
	}

	txIDs := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, tx := range candidates {
		if _, ok := seen[tx.TxID]; ok {
			continue
		}
		seen[tx.TxID] = struct{}{}
		txIDs = append(txIDs, tx.TxID)
	}

	known, err := s.repoManager.TransactionRepository().
		ListTransactionsByTxIDs(ctx, s.chain.Key, txIDs)
	if err != nil {
		return nil, nil, err
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, tx := range known {
		knownSet[tx.TxID] = struct{}{}
	}

	for _, tx := range candidates {
		if _, ok := knownSet[tx.TxID]; ok {
			existingTxs = append(existingTxs, tx)
		} else {
			newTxs = append(newTxs, tx)
		}
	}
	return
}

func logDrop(chainKey, txID, reason string) {
	log.Debugf(
		"chain %s: dropping tx %s from reconciliation: %s", chainKey, txID, reason,
	)
}
