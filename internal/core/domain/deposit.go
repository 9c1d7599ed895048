package domain

// IsCollectionRelated returns whether the deposit is in one of the states
// where collection legs may still settle.
func (d *Deposit) IsCollectionRelated() bool {
	return d.State == DepositStateFeeCollecting || d.State == DepositStateCollecting
}

// Accept finalizes a submitted deposit once its confirmation threshold is
// met. Accepting an already accepted deposit is a no-op.
func (d *Deposit) Accept() error {
	if d.State == DepositStateAccepted {
		return nil
	}
	if d.State != DepositStateSubmitted {
		return ErrDepositInvalidStateTransition
	}
	d.State = DepositStateAccepted
	return nil
}

// StartFeeProcessing advances the deposit once its fee prebuild leg settled
// on chain.
func (d *Deposit) StartFeeProcessing() error {
	if d.State == DepositStateFeeProcessing {
		return nil
	}
	if d.State != DepositStateFeeCollecting {
		return ErrDepositInvalidStateTransition
	}
	d.State = DepositStateFeeProcessing
	return nil
}

// MarkLegSucceeded marks the spread entry with the given hash as succeeded.
// Marking a leg twice is a no-op, an unknown hash is an error.
func (d *Deposit) MarkLegSucceeded(txHash string) error {
	for i := range d.Spread {
		if d.Spread[i].TxHash == txHash {
			d.Spread[i].Status = TransactionStatusSucceeded
			return nil
		}
	}
	return ErrDepositUnknownSpreadEntry
}

// IsSpreadSettled returns whether every collection leg of the deposit
// succeeded. An empty spread is never settled.
func (d *Deposit) IsSpreadSettled() bool {
	if len(d.Spread) == 0 {
		return false
	}
	for _, entry := range d.Spread {
		if entry.Status != TransactionStatusSucceeded {
			return false
		}
	}
	return true
}

// Collect moves a collecting deposit to its terminal collected state once the
// whole spread settled. Replays are no-ops.
func (d *Deposit) Collect() error {
	if d.State == DepositStateCollected {
		return nil
	}
	if d.State != DepositStateCollecting {
		return ErrDepositInvalidStateTransition
	}
	d.State = DepositStateCollected
	return nil
}

// MarkErrored moves the deposit to its terminal error state, recording why.
// Replays keep the first recorded reason.
func (d *Deposit) MarkErrored(reason string) {
	if d.State == DepositStateErrored {
		return
	}
	d.State = DepositStateErrored
	d.StateReason = reason
}
