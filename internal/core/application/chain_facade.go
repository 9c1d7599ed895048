package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/custodex/reconcilerd/internal/core/ports"
)

func (s *reconcilerService) LatestBlockNumber(ctx context.Context) (uint64, error) {
	s.latestLock.Lock()
	defer s.latestLock.Unlock()

	if s.latestBlock != nil {
		return *s.latestBlock, nil
	}

	height, err := s.adapter.LatestBlockNumber(ctx)
	if err != nil {
		return 0, err
	}
	s.latestBlock = &height
	return height, nil
}

func (s *reconcilerService) ResetHeight() {
	s.latestLock.Lock()
	defer s.latestLock.Unlock()
	s.latestBlock = nil
}

func (s *reconcilerService) LoadBalance(
	ctx context.Context, address, currencyID string,
) (decimal.Decimal, error) {
	balance, err := s.adapter.GetBalance(ctx, address, currencyID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrBalanceLoad, err)
	}
	return balance, nil
}

func (s *reconcilerService) Features() ports.Features {
	return s.adapter.Features()
}

// fetchTransaction re-fetches the full transaction detail when the adapter
// supports it, returning the input unchanged otherwise. Some chains omit fee
// or finality from block-level summaries.
func (s *reconcilerService) fetchTransaction(
	ctx context.Context, tx ports.Tx,
) (ports.Tx, error) {
	if !s.adapter.Features().TxDetailLookup {
		return tx, nil
	}
	return s.adapter.GetTransaction(ctx, tx)
}

// normalizeAddress applies the single address normalization policy of the
// chain: matching is case-insensitive unless the adapter says otherwise.
func (s *reconcilerService) normalizeAddress(address string) string {
	if s.adapter.Features().CaseSensitive {
		return address
	}
	return strings.ToLower(address)
}
