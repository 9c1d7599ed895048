package application

import "errors"

var (
	// ErrBalanceLoad wraps any adapter-level failure surfaced from balance
	// queries, so callers can tell it apart from engine errors.
	ErrBalanceLoad = errors.New("failed to load address balance")
)
