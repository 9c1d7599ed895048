package domain

// Succeed finalizes a confirming withdrawal, terminal. Replays are no-ops, a
// withdrawal never regresses.
func (w *Withdrawal) Succeed() error {
	if w.State == WithdrawalStateSucceeded {
		return nil
	}
	if w.State != WithdrawalStateConfirming {
		return ErrWithdrawalInvalidStateTransition
	}
	w.State = WithdrawalStateSucceeded
	return nil
}

// Fail marks a confirming withdrawal as failed on chain, terminal.
func (w *Withdrawal) Fail() error {
	if w.State == WithdrawalStateFailed {
		return nil
	}
	if w.State != WithdrawalStateConfirming {
		return ErrWithdrawalInvalidStateTransition
	}
	w.State = WithdrawalStateFailed
	return nil
}
