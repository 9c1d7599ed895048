package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Currency describes a chain asset tracked by the platform.
type Currency struct {
	// ID is the unique lowercase ticker of the currency, ie. "btc".
	ID string
	// ChainKey is the key of the chain the currency lives on.
	ChainKey string
	// MinDepositAmount is the smallest deposit worth persisting. Anything
	// below is dropped without leaving a record.
	MinDepositAmount decimal.Decimal
	// DepositEnabled tells whether incoming transfers are reconciled at all.
	DepositEnabled bool
	// Options holds chain specific network params, opaque to the engine.
	Options map[string]string
}

// CurrencyRepository is the abstraction for any kind of database intended to
// persist Currencies.
type CurrencyRepository interface {
	AddCurrency(ctx context.Context, currency Currency) error
	// GetCurrenciesForChain returns all currencies tracked on the given chain.
	GetCurrenciesForChain(ctx context.Context, chainKey string) ([]Currency, error)
}
