package domain

// Chain holds the reconciliation cursor and confirmation policy for one
// blockchain watched by the daemon.
type Chain struct {
	// Key is the unique identifier of the chain, ie. "bitcoin", "liquid".
	Key string
	// Height is the last block height fully reconciled and confirmed.
	Height uint64
	// MinConfirmations is the number of blocks that must elapse on top of a
	// transaction before it is considered final.
	MinConfirmations uint64
	// Currencies are the ids of the currencies tracked on this chain.
	Currencies []string
	// UpdatedAt marks configuration edits only. Height bumps must not touch it,
	// external tooling relies on this to tell the two kinds of write apart.
	UpdatedAt int64
}

// Confirmations returns the confirmation distance of a block with respect to
// the given chain watermark.
func (c *Chain) Confirmations(watermark, blockNumber uint64) uint64 {
	if blockNumber == 0 || watermark < blockNumber {
		return 0
	}
	return watermark - blockNumber
}

// IsMature returns whether a transaction mined at blockNumber has reached the
// chain's confirmation threshold at the given watermark.
func (c *Chain) IsMature(watermark, blockNumber uint64) bool {
	if blockNumber == 0 {
		return false
	}
	return c.Confirmations(watermark, blockNumber) >= c.MinConfirmations
}
