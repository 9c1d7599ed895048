package esplora

import (
	"github.com/shopspring/decimal"

	"github.com/custodex/reconcilerd/internal/core/ports"
)

type txStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint64 `json:"block_height"`
}

type txVout struct {
	Address string `json:"scriptpubkey_address"`
	Value   uint64 `json:"value"`
}

type txVin struct {
	Prevout txVout `json:"prevout"`
}

// tx is a transaction as returned by the esplora REST API.
type tx struct {
	TxID   string   `json:"txid"`
	Fee    uint64   `json:"fee"`
	Vin    []txVin  `json:"vin"`
	Vout   []txVout `json:"vout"`
	Status txStatus `json:"status"`
}

func (t tx) sources() []string {
	seen := make(map[string]struct{}, len(t.Vin))
	addresses := make([]string, 0, len(t.Vin))
	for _, in := range t.Vin {
		if in.Prevout.Address == "" {
			continue
		}
		if _, ok := seen[in.Prevout.Address]; ok {
			continue
		}
		seen[in.Prevout.Address] = struct{}{}
		addresses = append(addresses, in.Prevout.Address)
	}
	return addresses
}

// normalize maps the esplora transaction to the adapter port format, one
// entry per addressable output.
func (t tx) normalize(currencyID string, precision int32, height uint64) []ports.Tx {
	status := ports.TxStatusPending
	if t.Status.Confirmed {
		status = ports.TxStatusSuccess
	}
	blockNumber := t.Status.BlockHeight
	if blockNumber == 0 {
		blockNumber = height
	}

	from := t.sources()
	fee := baseUnitsToAmount(t.Fee, precision)

	txs := make([]ports.Tx, 0, len(t.Vout))
	for i, out := range t.Vout {
		if out.Address == "" {
			continue
		}
		txs = append(txs, ports.Tx{
			CurrencyID:    currencyID,
			TxID:          t.TxID,
			To:            out.Address,
			From:          from,
			Amount:        baseUnitsToAmount(out.Value, precision),
			Fee:           fee,
			FeeCurrencyID: currencyID,
			BlockNumber:   blockNumber,
			TxOut:         i,
			Status:        status,
		})
	}
	return txs
}

func baseUnitsToAmount(value uint64, precision int32) decimal.Decimal {
	return decimal.New(int64(value), -precision)
}
