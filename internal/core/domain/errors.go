package domain

import "errors"

var (
	// ErrChainNotFound is thrown when no chain exists for the requested key
	ErrChainNotFound = errors.New("chain not found")
	// ErrChainHeightConflict is thrown when the persisted chain height diverged
	// from the one observed by the caller, meaning another writer advanced it
	ErrChainHeightConflict = errors.New("chain height was updated by another writer")
	// ErrDepositInvalidStateTransition ...
	ErrDepositInvalidStateTransition = errors.New("deposit state transition is not allowed")
	// ErrDepositUnknownSpreadEntry is thrown when marking a collection leg that
	// does not belong to the deposit spread
	ErrDepositUnknownSpreadEntry = errors.New("transaction does not belong to deposit spread")
	// ErrWithdrawalInvalidStateTransition ...
	ErrWithdrawalInvalidStateTransition = errors.New("withdrawal state transition is not allowed")
	// ErrTransactionInvalidStateTransition ...
	ErrTransactionInvalidStateTransition = errors.New("transaction state transition is not allowed")
)
