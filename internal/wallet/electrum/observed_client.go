package electrum

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/chain"
)

type (
	// Metrics records metrics for electrum calls.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// ObservedClient wraps a Client with metrics instrumentation.
type ObservedClient struct {
	client  *Client
	metrics Metrics
}

// NewObservedClient constructs an instrumented electrum client.
func NewObservedClient(client *Client, metrics Metrics) *ObservedClient {
	return &ObservedClient{
		client:  client,
		metrics: metrics,
	}
}

// Close shuts the wrapped client down.
func (o *ObservedClient) Close() {
	o.client.Close()
}

func (o *ObservedClient) ScriptHistories(ctx context.Context, scripts [][]byte) (histories [][]chain.HistoryEntry, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("script_histories", err, started)
	}()
	return o.client.ScriptHistories(ctx, scripts)
}

func (o *ObservedClient) BlockHeaders(ctx context.Context, heights []uint32) (headers []wire.BlockHeader, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("block_headers", err, started)
	}()
	return o.client.BlockHeaders(ctx, heights)
}

func (o *ObservedClient) Transactions(ctx context.Context, txids []chainhash.Hash) (txs []*wire.MsgTx, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("transactions", err, started)
	}()
	return o.client.Transactions(ctx, txids)
}

func (o *ObservedClient) Broadcast(ctx context.Context, tx *wire.MsgTx) (err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("broadcast", err, started)
	}()
	return o.client.Broadcast(ctx, tx)
}

func (o *ObservedClient) EstimateFee(ctx context.Context, target uint32) (fee float64, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("estimate_fee", err, started)
	}()
	return o.client.EstimateFee(ctx, target)
}

func (o *ObservedClient) FeeEstimates(ctx context.Context) (estimates map[string]float64, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("fee_estimates", err, started)
	}()
	return o.client.FeeEstimates(ctx)
}

func (o *ObservedClient) TipHeight(ctx context.Context) (height uint32, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("tip_height", err, started)
	}()
	return o.client.TipHeight(ctx)
}

func (o *ObservedClient) Transaction(ctx context.Context, txid chainhash.Hash) (tx *wire.MsgTx, err error) {
	started := time.Now()
	defer func() {
		o.metrics.Observe("transaction", err, started)
	}()
	return o.client.Transaction(ctx, txid)
}
