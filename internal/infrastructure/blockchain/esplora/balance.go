package esplora

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type addressStats struct {
	ChainStats struct {
		FundedTxoSum uint64 `json:"funded_txo_sum"`
		SpentTxoSum  uint64 `json:"spent_txo_sum"`
	} `json:"chain_stats"`
}

func (e *esplora) GetBalance(
	ctx context.Context, address, currencyID string,
) (decimal.Decimal, error) {
	if currencyID != "" && currencyID != e.currencyID {
		return decimal.Zero, fmt.Errorf(
			"currency %s is not served by this adapter", currencyID,
		)
	}

	url := fmt.Sprintf("%s/address/%s", e.apiURL, address)
	resp, err := e.get(ctx, url)
	if err != nil {
		return decimal.Zero, err
	}

	stats := addressStats{}
	if err := json.Unmarshal([]byte(resp), &stats); err != nil {
		return decimal.Zero, fmt.Errorf("invalid address stats JSON: %v", err)
	}

	confirmed := stats.ChainStats.FundedTxoSum - stats.ChainStats.SpentTxoSum
	return baseUnitsToAmount(confirmed, e.precision), nil
}
