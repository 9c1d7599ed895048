package esplora

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodex/reconcilerd/internal/core/ports"
)

func (e *esplora) GetTransaction(
	ctx context.Context, in ports.Tx,
) (ports.Tx, error) {
	detail, err := e.fetchTx(ctx, in.TxID)
	if err != nil {
		return in, err
	}

	for _, out := range detail.normalize(e.currencyID, e.precision, in.BlockNumber) {
		if out.TxOut == in.TxOut {
			return out, nil
		}
	}

	// The requested output carries no address (ie. op_return), hand back the
	// input enriched with what the detail knows.
	in.Fee = baseUnitsToAmount(detail.Fee, e.precision)
	in.FeeCurrencyID = e.currencyID
	if detail.Status.Confirmed {
		in.Status = ports.TxStatusSuccess
		if detail.Status.BlockHeight > 0 {
			in.BlockNumber = detail.Status.BlockHeight
		}
	}
	return in, nil
}

func (e *esplora) TransactionSources(
	ctx context.Context, in ports.Tx,
) ([]string, error) {
	detail, err := e.fetchTx(ctx, in.TxID)
	if err != nil {
		return nil, err
	}
	return detail.sources(), nil
}

func (e *esplora) fetchTx(ctx context.Context, txID string) (*tx, error) {
	url := fmt.Sprintf("%s/tx/%s", e.apiURL, txID)
	resp, err := e.get(ctx, url)
	if err != nil {
		return nil, err
	}

	t := &tx{}
	if err := json.Unmarshal([]byte(resp), t); err != nil {
		return nil, fmt.Errorf("invalid tx JSON: %v", err)
	}
	return t, nil
}
