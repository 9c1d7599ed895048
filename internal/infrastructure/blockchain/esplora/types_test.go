package esplora

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/custodex/reconcilerd/internal/core/ports"
)

const rawTx = `{
	"txid": "aa11",
	"fee": 150,
	"vin": [
		{"prevout": {"scriptpubkey_address": "bc1qsender", "value": 60000000}},
		{"prevout": {"scriptpubkey_address": "bc1qsender", "value": 10000000}},
		{"prevout": {"scriptpubkey_address": "", "value": 0}}
	],
	"vout": [
		{"scriptpubkey_address": "bc1qreceiver", "value": 50000000},
		{"scriptpubkey_address": "", "value": 0},
		{"scriptpubkey_address": "bc1qchange", "value": 19999850}
	],
	"status": {"confirmed": true, "block_height": 647100}
}`

func TestTxNormalize(t *testing.T) {
	var parsed tx
	require.NoError(t, json.Unmarshal([]byte(rawTx), &parsed))

	txs := parsed.normalize("btc", 8, 0)
	// the unaddressable output is dropped but vout indexes are preserved
	require.Len(t, txs, 2)

	first := txs[0]
	require.Equal(t, "aa11", first.TxID)
	require.Equal(t, "btc", first.CurrencyID)
	require.Equal(t, "bc1qreceiver", first.To)
	require.Equal(t, 0, first.TxOut)
	require.True(t, first.Amount.Equal(decimal.RequireFromString("0.5")))
	require.True(t, first.Fee.Equal(decimal.RequireFromString("0.0000015")))
	require.Equal(t, "btc", first.FeeCurrencyID)
	require.Equal(t, uint64(647100), first.BlockNumber)
	require.Equal(t, ports.TxStatusSuccess, first.Status)
	// duplicate inputs collapse to one source
	require.Equal(t, []string{"bc1qsender"}, first.From)

	second := txs[1]
	require.Equal(t, "bc1qchange", second.To)
	require.Equal(t, 2, second.TxOut)
}

func TestTxNormalizeUnconfirmed(t *testing.T) {
	parsed := tx{
		TxID: "bb22",
		Vout: []txVout{{Address: "bc1qreceiver", Value: 1000}},
	}

	txs := parsed.normalize("btc", 8, 647200)
	require.Len(t, txs, 1)
	require.Equal(t, ports.TxStatusPending, txs[0].Status)
	// without a status height the block being scanned is the best guess
	require.Equal(t, uint64(647200), txs[0].BlockNumber)
}

func TestBaseUnitsToAmount(t *testing.T) {
	require.True(
		t, baseUnitsToAmount(100000000, 8).Equal(decimal.RequireFromString("1")),
	)
	require.True(
		t, baseUnitsToAmount(1, 8).Equal(decimal.RequireFromString("0.00000001")),
	)
	require.True(t, baseUnitsToAmount(0, 8).Equal(decimal.Zero))
}
