package esplora

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodex/reconcilerd/internal/core/ports"
)

// esplora pages block transactions 25 at a time.
const blockTxsPageSize = 25

func (e *esplora) LatestBlockNumber(ctx context.Context) (uint64, error) {
	url := fmt.Sprintf("%s/blocks/tip/height", e.apiURL)
	resp, err := e.get(ctx, url)
	if err != nil {
		return 0, err
	}

	height, err := strconv.ParseUint(strings.TrimSpace(resp), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tip height %q", resp)
	}
	return height, nil
}

func (e *esplora) GetBlock(
	ctx context.Context, height uint64,
) (*ports.Block, error) {
	url := fmt.Sprintf("%s/block-height/%d", e.apiURL, height)
	hash, err := e.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching block at height %d: %w", height, err)
	}
	hash = strings.TrimSpace(hash)

	block := &ports.Block{Height: height}
	for start := 0; ; start += blockTxsPageSize {
		url := fmt.Sprintf("%s/block/%s/txs/%d", e.apiURL, hash, start)
		resp, err := e.get(ctx, url)
		if err != nil {
			return nil, err
		}

		var page []tx
		if err := json.Unmarshal([]byte(resp), &page); err != nil {
			return nil, fmt.Errorf("invalid block txs JSON: %v", err)
		}

		for _, t := range page {
			block.Txs = append(
				block.Txs, t.normalize(e.currencyID, e.precision, height)...,
			)
		}

		if len(page) < blockTxsPageSize {
			break
		}
	}

	return block, nil
}
