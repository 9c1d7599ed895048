package domain

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// DepositState is the lifecycle state of a Deposit.
type DepositState int

const (
	// DepositStateSubmitted is the state of a freshly seen deposit awaiting
	// its confirmation threshold.
	DepositStateSubmitted DepositState = iota
	// DepositStateAccepted is reached once the confirmation threshold is met,
	// the deposit is credited upstream from here.
	DepositStateAccepted
	// DepositStateFeeCollecting means a fee prebuild leg has been broadcast
	// and is awaiting confirmation.
	DepositStateFeeCollecting
	// DepositStateFeeProcessing means the fee prebuild leg confirmed and the
	// collection legs are being built.
	DepositStateFeeProcessing
	// DepositStateCollecting means the collection legs have been broadcast.
	DepositStateCollecting
	// DepositStateCollected is the terminal state, every collection leg
	// confirmed and funds reached the operational wallet.
	DepositStateCollected
	// DepositStateErrored is the terminal error state, a leg failed on chain.
	DepositStateErrored
)

func (s DepositState) String() string {
	switch s {
	case DepositStateSubmitted:
		return "submitted"
	case DepositStateAccepted:
		return "accepted"
	case DepositStateFeeCollecting:
		return "fee_collecting"
	case DepositStateFeeProcessing:
		return "fee_processing"
	case DepositStateCollecting:
		return "collecting"
	case DepositStateCollected:
		return "collected"
	case DepositStateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// SpreadEntry is one collection leg of a deposit, tracked by its on-chain
// hash until it settles.
type SpreadEntry struct {
	TxHash string
	Status TransactionStatus
}

// Deposit holds info about funds sent by a member to one of its deposit
// addresses, from first sighting until collection.
type Deposit struct {
	ID            string
	CurrencyID    string
	ChainKey      string
	TxID          string
	TxOut         int
	Amount        decimal.Decimal
	Address       string
	MemberID      string
	FromAddresses []string
	BlockNumber   uint64
	State         DepositState
	// StateReason carries the failure cause when State is errored.
	StateReason string
	// Spread is the ordered list of collection legs belonging to the deposit.
	Spread    []SpreadEntry
	CreatedAt int64
}

// Key returns the natural key of the deposit. At most one deposit may exist
// per (currency, txid, vout, chain).
func (d Deposit) Key() string {
	buf := []byte(fmt.Sprintf(
		"%s:%s:%d:%s", d.CurrencyID, d.TxID, d.TxOut, d.ChainKey,
	))
	return hex.EncodeToString(btcutil.Hash160(buf))
}
