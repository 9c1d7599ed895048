package ports

import (
	"context"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

// RepoManager gives access to every repository of the ledger store and to the
// atomic transaction primitive wrapping multi-repository writes.
type RepoManager interface {
	ChainRepository() domain.ChainRepository
	CurrencyRepository() domain.CurrencyRepository
	AddressRepository() domain.AddressRepository
	TransactionRepository() domain.TransactionRepository
	DepositRepository() domain.DepositRepository
	WithdrawalRepository() domain.WithdrawalRepository

	Close()

	// RunTransaction runs the handler within a single store transaction:
	// either every write performed through the repositories commits, or none
	// does. The handler must use the ctx it is given for every repository
	// call.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)
}
