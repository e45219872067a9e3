// Package service orchestrates wallet reconciliation against a remote chain
// index: it drives the staged sync protocol, resolves each phase's pending
// work through batched backend calls, and commits the resulting update to the
// persistent store in a single atomic write.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/chain"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/model"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/scan"
	"github.com/goodnatureofminers/walletsync7000-backend/pkg/safe"
)

// ErrBackendMisbehaving marks a structurally invalid backend response: fewer
// replies than requests, a missing header for a requested height, a missing
// referenced transaction, or a transaction whose computed id disagrees with
// the requested one. Such responses abort the sync; patching over them would
// corrupt the committed wallet state.
var ErrBackendMisbehaving = errors.New("chain backend misbehaving")

const defaultStopGap = 20

// ChainSyncService reconciles the wallet store against a chain backend. The
// stop gap doubles as the per-iteration chunk size, bounding how many pending
// items a single backend round trip resolves.
type ChainSyncService struct {
	backend Backend
	store   Store
	logger  *zap.Logger
	stopGap int
}

// NewChainSyncService builds the sync service. A non-positive stopGap falls
// back to the default of 20.
func NewChainSyncService(backend Backend, store Store, stopGap int, logger *zap.Logger) *ChainSyncService {
	if stopGap <= 0 {
		stopGap = defaultStopGap
	}
	return &ChainSyncService{
		backend: backend,
		store:   store,
		logger:  logger,
		stopGap: stopGap,
	}
}

// Sync runs one full sync session and commits its result. The session either
// commits a complete BatchUpdate or leaves the store untouched; there is no
// partial commit and no resumable checkpoint.
func (s *ChainSyncService) Sync(ctx context.Context) (*model.BatchUpdate, error) {
	req, err := s.startRequest()
	if err != nil {
		return nil, err
	}
	update, err := s.run(ctx, req, s.stopGap)
	if err != nil {
		return nil, err
	}
	if err := s.store.CommitBatch(update); err != nil {
		return nil, fmt.Errorf("commit sync batch: %w", err)
	}
	s.logger.Info("wallet sync committed",
		zap.Int("transactions", len(update.Transactions)),
		zap.Int("confirmation_updates", len(update.Confirmations)))
	return update, nil
}

func (s *ChainSyncService) startRequest() (scan.Request, error) {
	scripts := make(map[model.KeychainKind][][]byte)
	for _, kk := range model.Keychains() {
		list, err := s.store.ScriptPubkeys(kk)
		if err != nil {
			return nil, fmt.Errorf("load %s scripts: %w", kk, err)
		}
		if len(list) > 0 {
			scripts[kk] = list
		}
	}
	stored, err := s.store.TransactionDetails()
	if err != nil {
		return nil, fmt.Errorf("load stored transactions: %w", err)
	}
	known := make(map[chainhash.Hash]scan.KnownTx, len(stored))
	for _, d := range stored {
		known[d.Txid] = scan.KnownTx{Confirmation: d.Confirmation, HasRaw: d.Tx != nil}
	}
	return scan.Start(scan.Params{Scripts: scripts, Known: known, StopGap: s.stopGap}), nil
}

// run drives the request to Finished. All session state (txid heights, block
// times, the transaction cache) lives in this call frame and is discarded on
// return, success or not.
func (s *ChainSyncService) run(ctx context.Context, req scan.Request, chunkSize int) (*model.BatchUpdate, error) {
	heights := make(map[chainhash.Hash]uint32)
	blockTimes := newBlockTimeResolver(s.backend)
	cache := newTxCache(s.store, s.backend)

	for {
		var err error
		switch r := req.(type) {
		case *scan.ScriptRequest:
			req, err = s.syncScripts(ctx, r, chunkSize, heights)
		case *scan.ConftimeRequest:
			req, err = s.syncConftimes(ctx, r, chunkSize, heights, blockTimes)
		case *scan.TxRequest:
			req, err = s.syncTransactions(ctx, r, chunkSize, cache)
		case *scan.Finished:
			return r.Update, nil
		default:
			err = fmt.Errorf("unhandled sync phase %T", req)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (s *ChainSyncService) syncScripts(
	ctx context.Context,
	r *scan.ScriptRequest,
	chunkSize int,
	heights map[chainhash.Hash]uint32,
) (scan.Request, error) {
	scripts := takeChunk(r.Pending(), chunkSize)
	histories, err := s.backend.ScriptHistories(ctx, scripts)
	if err != nil {
		return nil, fmt.Errorf("script history batch: %w", err)
	}
	if len(histories) != len(scripts) {
		return nil, fmt.Errorf("%w: %d history replies for %d scripts", ErrBackendMisbehaving, len(histories), len(scripts))
	}
	for _, history := range histories {
		for _, entry := range history {
			if entry.Height <= 0 {
				// unconfirmed, no height recorded
				continue
			}
			if _, ok := heights[entry.Txid]; ok {
				continue
			}
			h, err := safe.Uint32(entry.Height)
			if err != nil {
				return nil, fmt.Errorf("%w: history height %d for %s", ErrBackendMisbehaving, entry.Height, entry.Txid)
			}
			heights[entry.Txid] = h
		}
	}
	s.logger.Debug("script phase chunk resolved", zap.Int("scripts", len(scripts)))
	return r.Satisfy(histories)
}

func (s *ChainSyncService) syncConftimes(
	ctx context.Context,
	r *scan.ConftimeRequest,
	chunkSize int,
	heights map[chainhash.Hash]uint32,
	blockTimes *blockTimeResolver,
) (scan.Request, error) {
	pending := r.Pending()

	// Collect up to chunkSize distinct uncached heights in pending order.
	// The first chunkSize pending txids reference at most that many heights,
	// so the batch satisfied below is always fully covered.
	need := make([]uint32, 0, chunkSize)
	queued := make(map[uint32]struct{}, chunkSize)
	for _, txid := range pending {
		if len(need) == chunkSize {
			break
		}
		h, ok := heights[txid]
		if !ok {
			continue
		}
		if blockTimes.Cached(h) {
			continue
		}
		if _, dup := queued[h]; dup {
			continue
		}
		queued[h] = struct{}{}
		need = append(need, h)
	}
	if err := blockTimes.Resolve(ctx, need); err != nil {
		return nil, err
	}

	batch := takeChunk(pending, chunkSize)
	conftimes := make([]*model.BlockTime, len(batch))
	for i, txid := range batch {
		h, ok := heights[txid]
		if !ok {
			// unconfirmed
			continue
		}
		ts, ok := blockTimes.Lookup(h)
		if !ok {
			return nil, fmt.Errorf("%w: no header for height %d", ErrBackendMisbehaving, h)
		}
		conftimes[i] = &model.BlockTime{Height: h, Timestamp: ts}
	}
	s.logger.Debug("conftime phase chunk resolved",
		zap.Int("txids", len(batch)),
		zap.Int("headers_fetched", len(need)))
	return r.Satisfy(conftimes)
}

func (s *ChainSyncService) syncTransactions(
	ctx context.Context,
	r *scan.TxRequest,
	chunkSize int,
	cache *txCache,
) (scan.Request, error) {
	pending := takeChunk(r.Pending(), chunkSize)
	if err := cache.EnsureCached(ctx, pending); err != nil {
		return nil, err
	}

	full := make([]*wire.MsgTx, len(pending))
	var prevIDs []chainhash.Hash
	prevSeen := make(map[chainhash.Hash]struct{})
	for i, txid := range pending {
		tx := cache.Get(txid)
		if tx == nil {
			return nil, fmt.Errorf("%w: transaction %s missing after fetch", ErrBackendMisbehaving, txid)
		}
		full[i] = tx
		for _, in := range tx.TxIn {
			if chain.IsNullOutPoint(in.PreviousOutPoint) {
				continue
			}
			prev := in.PreviousOutPoint.Hash
			if _, dup := prevSeen[prev]; dup {
				continue
			}
			prevSeen[prev] = struct{}{}
			prevIDs = append(prevIDs, prev)
		}
	}
	if err := cache.EnsureCached(ctx, prevIDs); err != nil {
		return nil, err
	}

	details := make([]scan.TxDetail, len(pending))
	for i, tx := range full {
		prevOuts := make([]*wire.TxOut, len(tx.TxIn))
		for j, in := range tx.TxIn {
			if chain.IsNullOutPoint(in.PreviousOutPoint) {
				continue
			}
			prevTx := cache.Get(in.PreviousOutPoint.Hash)
			if prevTx == nil {
				return nil, fmt.Errorf("%w: previous transaction %s missing after fetch", ErrBackendMisbehaving, in.PreviousOutPoint.Hash)
			}
			vout := in.PreviousOutPoint.Index
			if uint64(vout) >= uint64(len(prevTx.TxOut)) {
				return nil, fmt.Errorf("%w: output %d of %s out of range", ErrBackendMisbehaving, vout, in.PreviousOutPoint.Hash)
			}
			prevOuts[j] = prevTx.TxOut[vout]
		}
		details[i] = scan.TxDetail{Tx: tx, PrevOuts: prevOuts}
	}
	s.logger.Debug("tx phase chunk resolved",
		zap.Int("txids", len(pending)),
		zap.Int("prev_txids", len(prevIDs)))
	return r.Satisfy(details)
}

// Broadcast submits a raw transaction to the network.
func (s *ChainSyncService) Broadcast(ctx context.Context, tx *wire.MsgTx) error {
	return s.backend.Broadcast(ctx, tx)
}

// TipHeight returns the backend's current chain tip height.
func (s *ChainSyncService) TipHeight(ctx context.Context) (uint32, error) {
	return s.backend.TipHeight(ctx)
}

// Transaction fetches a single transaction, returning (nil, nil) when the
// backend does not know it.
func (s *ChainSyncService) Transaction(ctx context.Context, txid chainhash.Hash) (*wire.MsgTx, error) {
	return s.backend.Transaction(ctx, txid)
}

// EstimateFee asks the backend for a single-target estimate and converts it
// from the wire unit.
func (s *ChainSyncService) EstimateFee(ctx context.Context, target uint32) (model.FeeRate, error) {
	raw, err := s.backend.EstimateFee(ctx, target)
	if err != nil {
		return 0, fmt.Errorf("estimate fee for target %d: %w", target, err)
	}
	if raw <= 0 {
		// the backend reports -1 when it has no estimate for the target
		return model.DefaultFeeRate, nil
	}
	return model.FeeRateFromBTCPerKvB(raw), nil
}

// EstimateFeeRate selects a fee rate for target from the backend's sparse
// estimate table.
func (s *ChainSyncService) EstimateFeeRate(ctx context.Context, target uint32) (model.FeeRate, error) {
	estimates, err := s.backend.FeeEstimates(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch fee estimates: %w", err)
	}
	return SelectFeeRate(target, estimates), nil
}

func takeChunk[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
