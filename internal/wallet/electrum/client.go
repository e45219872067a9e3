// Package electrum implements the chain backend over the Electrum protocol.
// Batched methods issue one protocol call per item under a shared rate
// limiter, so a single orchestrator iteration maps to one paced burst against
// the server.
package electrum

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/checksum0/go-electrum/electrum"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/chain"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/model"
	"github.com/goodnatureofminers/walletsync7000-backend/pkg/safe"
)

const defaultRPS = 10

// txNotFoundMessage is the daemon's error text for an unknown transaction.
// The protocol has no typed code for it.
const txNotFoundMessage = "No such mempool or blockchain transaction"

// feeEstimateTargets are the confirmation targets probed to build the sparse
// estimate table. The server answers -1 for targets it cannot estimate and
// those entries are omitted.
var feeEstimateTargets = []uint32{1, 2, 3, 4, 5, 6, 8, 10, 12, 16, 20, 24, 25}

// Config mirrors the electrum connection surface: server URL (tcp:// or
// ssl://), optional socks5 proxy, retry count, per-attempt timeout and the
// request pacing rate.
type Config struct {
	URL     string
	Socks5  string
	Retry   int
	Timeout time.Duration
	RPS     int
}

// Client speaks the Electrum protocol through checksum0/go-electrum and
// implements the sync service's Backend contract.
type Client struct {
	conn    *electrum.Client
	rl      ratelimit.Limiter
	retry   int
	timeout time.Duration
	logger  *zap.Logger
}

// Dial connects to the configured server.
func Dial(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Socks5 != "" {
		// TODO: wire a socks5 dialer once go-electrum exposes a dial hook.
		return nil, errors.New("socks5 proxy is not supported by the electrum transport")
	}
	scheme, addr, ok := strings.Cut(cfg.URL, "://")
	if !ok {
		return nil, fmt.Errorf("electrum url %q missing scheme", cfg.URL)
	}

	var (
		conn *electrum.Client
		err  error
	)
	switch scheme {
	case "tcp":
		conn, err = electrum.NewClientTCP(ctx, addr)
	case "ssl":
		conn, err = electrum.NewClientSSL(ctx, addr, &tls.Config{})
	default:
		return nil, fmt.Errorf("electrum url scheme %q not supported", scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to electrum server %s: %w", addr, err)
	}

	rps := cfg.RPS
	if rps <= 0 {
		rps = defaultRPS
	}
	retry := cfg.Retry
	if retry < 0 {
		retry = 0
	}
	logger.Info("connected to electrum server", zap.String("address", addr))
	return &Client{
		conn:    conn,
		rl:      ratelimit.New(rps),
		retry:   retry,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Close shuts the underlying connection down.
func (c *Client) Close() {
	c.conn.Shutdown()
}

// call runs one protocol request under the rate limiter with the configured
// per-attempt timeout, retrying transport failures up to the retry count.
func (c *Client) call(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt <= c.retry; attempt++ {
		c.rl.Take()
		callCtx := ctx
		cancel := func() {}
		if c.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		}
		err = fn(callCtx)
		cancel()
		if err == nil || ctx.Err() != nil {
			return err
		}
	}
	return err
}

// ScriptHistories returns each script's transaction history, order-aligned
// with the input scripts.
func (c *Client) ScriptHistories(ctx context.Context, scripts [][]byte) ([][]chain.HistoryEntry, error) {
	histories := make([][]chain.HistoryEntry, len(scripts))
	for i, script := range scripts {
		scripthash := Scripthash(script)
		var rows []*electrum.GetMempoolResult
		err := c.call(ctx, func(ctx context.Context) error {
			var err error
			rows, err = c.conn.GetHistory(ctx, scripthash)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("script history for %s: %w", scripthash, err)
		}
		entries := make([]chain.HistoryEntry, 0, len(rows))
		for _, row := range rows {
			txid, err := chainhash.NewHashFromStr(row.Hash)
			if err != nil {
				return nil, fmt.Errorf("parse history txid %q: %w", row.Hash, err)
			}
			entries = append(entries, chain.HistoryEntry{Txid: *txid, Height: int32(row.Height)})
		}
		histories[i] = entries
	}
	return histories, nil
}

// BlockHeaders fetches the headers for the given heights, order-aligned.
func (c *Client) BlockHeaders(ctx context.Context, heights []uint32) ([]wire.BlockHeader, error) {
	headers := make([]wire.BlockHeader, len(heights))
	for i, height := range heights {
		var raw string
		err := c.call(ctx, func(ctx context.Context) error {
			res, err := c.conn.GetBlockHeader(ctx, height)
			if err != nil {
				return err
			}
			raw = res.Header
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("block header at height %d: %w", height, err)
		}
		header, err := decodeHeader(raw)
		if err != nil {
			return nil, fmt.Errorf("block header at height %d: %w", height, err)
		}
		headers[i] = header
	}
	return headers, nil
}

// Transactions fetches full transaction bodies, order-aligned with txids.
func (c *Client) Transactions(ctx context.Context, txids []chainhash.Hash) ([]*wire.MsgTx, error) {
	txs := make([]*wire.MsgTx, len(txids))
	for i, txid := range txids {
		tx, err := c.fetchTransaction(ctx, txid)
		if err != nil {
			return nil, err
		}
		txs[i] = tx
	}
	return txs, nil
}

func (c *Client) fetchTransaction(ctx context.Context, txid chainhash.Hash) (*wire.MsgTx, error) {
	var raw string
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		raw, err = c.conn.GetRawTransaction(ctx, txid.String())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetch transaction %s: %w", txid, err)
	}
	tx, err := decodeTransaction(raw)
	if err != nil {
		return nil, fmt.Errorf("fetch transaction %s: %w", txid, err)
	}
	return tx, nil
}

// Broadcast submits a transaction to the network.
func (c *Client) Broadcast(ctx context.Context, tx *wire.MsgTx) error {
	raw, err := encodeTransaction(tx)
	if err != nil {
		return fmt.Errorf("serialize transaction: %w", err)
	}
	err = c.call(ctx, func(ctx context.Context) error {
		_, err := c.conn.BroadcastTransaction(ctx, raw)
		return err
	})
	if err != nil {
		return fmt.Errorf("broadcast transaction %s: %w", tx.TxHash(), err)
	}
	return nil
}

// EstimateFee returns the raw estimate for a single target, in BTC per
// kilo-vbyte as the protocol reports it. Negative means no estimate.
func (c *Client) EstimateFee(ctx context.Context, target uint32) (float64, error) {
	var fee float32
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		fee, err = c.conn.GetFee(ctx, target)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("estimate fee for target %d: %w", target, err)
	}
	return float64(fee), nil
}

// FeeEstimates probes the standard target set and builds the sparse estimate
// table keyed by decimal target, values in sat/vB.
func (c *Client) FeeEstimates(ctx context.Context) (map[string]float64, error) {
	estimates := make(map[string]float64, len(feeEstimateTargets))
	for _, target := range feeEstimateTargets {
		fee, err := c.EstimateFee(ctx, target)
		if err != nil {
			return nil, err
		}
		if fee <= 0 {
			continue
		}
		estimates[strconv.FormatUint(uint64(target), 10)] = float64(model.FeeRateFromBTCPerKvB(fee))
	}
	return estimates, nil
}

// TipHeight reports the current chain tip via the header subscription; the
// server sends the tip as the first notification.
func (c *Client) TipHeight(ctx context.Context) (uint32, error) {
	var headers <-chan *electrum.SubscribeHeadersResult
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		headers, err = c.conn.SubscribeHeaders(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("subscribe headers: %w", err)
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case header, ok := <-headers:
		if !ok {
			return 0, errors.New("header subscription closed before first tip")
		}
		height, err := safe.Uint32(header.Height)
		if err != nil {
			return 0, fmt.Errorf("tip height: %w", err)
		}
		return height, nil
	}
}

// Transaction fetches a single transaction, mapping the daemon's not-found
// reply to (nil, nil).
func (c *Client) Transaction(ctx context.Context, txid chainhash.Hash) (*wire.MsgTx, error) {
	tx, err := c.fetchTransaction(ctx, txid)
	if err != nil {
		if strings.Contains(err.Error(), txNotFoundMessage) {
			return nil, nil
		}
		return nil, err
	}
	return tx, nil
}
