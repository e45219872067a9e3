package service

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// txCache memoizes full transactions for one sync session. Lookups go to the
// persistent store first and fall back to a single batched remote fetch for
// whatever remains. Entries are immutable once cached; an id is never
// re-queried within the session.
type txCache struct {
	store   Store
	backend Backend
	cache   map[chainhash.Hash]*wire.MsgTx
}

func newTxCache(store Store, backend Backend) *txCache {
	return &txCache{
		store:   store,
		backend: backend,
		cache:   make(map[chainhash.Hash]*wire.MsgTx),
	}
}

// EnsureCached makes every txid available through Get. Requested ids are
// partitioned into already-cached, present-in-store, and must-fetch; the
// must-fetch set goes out as exactly one batched call (none when empty).
// Every fetched transaction's computed id must equal the requested one.
func (c *txCache) EnsureCached(ctx context.Context, txids []chainhash.Hash) error {
	var fetch []chainhash.Hash
	queued := make(map[chainhash.Hash]struct{})
	for _, txid := range txids {
		if _, ok := c.cache[txid]; ok {
			continue
		}
		if _, dup := queued[txid]; dup {
			continue
		}
		tx, err := c.store.RawTransaction(txid)
		if err != nil {
			return fmt.Errorf("load transaction %s: %w", txid, err)
		}
		if tx != nil {
			c.cache[txid] = tx
			continue
		}
		queued[txid] = struct{}{}
		fetch = append(fetch, txid)
	}
	if len(fetch) == 0 {
		return nil
	}

	txs, err := c.backend.Transactions(ctx, fetch)
	if err != nil {
		return fmt.Errorf("transaction batch: %w", err)
	}
	if len(txs) != len(fetch) {
		return fmt.Errorf("%w: %d transactions for %d requested", ErrBackendMisbehaving, len(txs), len(fetch))
	}
	for i, tx := range txs {
		if tx == nil {
			return fmt.Errorf("%w: nil transaction for %s", ErrBackendMisbehaving, fetch[i])
		}
		if got := tx.TxHash(); got != fetch[i] {
			return fmt.Errorf("%w: requested transaction %s, got %s", ErrBackendMisbehaving, fetch[i], got)
		}
		c.cache[fetch[i]] = tx
	}
	return nil
}

// Get returns a cached transaction or nil. Valid only after EnsureCached has
// succeeded for the id.
func (c *txCache) Get(txid chainhash.Hash) *wire.MsgTx {
	return c.cache[txid]
}
