package domain

// IsPending returns whether the ledger transaction is still awaiting a
// conclusive chain outcome.
func (t *Transaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// Succeed marks the ledger transaction as succeeded. Re-applying the
// transition to an already succeeded transaction is a no-op, so the caller is
// free to replay it after a crash.
func (t *Transaction) Succeed() error {
	if t.Status == TransactionStatusSucceeded {
		return nil
	}
	if t.Status != TransactionStatusPending {
		return ErrTransactionInvalidStateTransition
	}
	t.Status = TransactionStatusSucceeded
	return nil
}

// Fail marks the ledger transaction as failed, terminal. Replays are no-ops.
func (t *Transaction) Fail() error {
	if t.Status == TransactionStatusFailed {
		return nil
	}
	if t.Status != TransactionStatusPending {
		return ErrTransactionInvalidStateTransition
	}
	t.Status = TransactionStatusFailed
	return nil
}
