// Package scan implements the staged wallet sync request protocol. A sync
// session walks three phases in order: script histories, confirmation times,
// full transactions. Each phase exposes its pending work and consumes batched
// answers until no work remains, and the terminal phase carries the single
// BatchUpdate the session commits.
package scan

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/chain"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/model"
)

// KnownTx describes what the persistent store already holds for a txid.
type KnownTx struct {
	Confirmation *model.BlockTime
	HasRaw       bool
}

// Params seeds a sync session from the persistent store.
type Params struct {
	// Scripts are the watched script pubkeys per keychain, in derivation
	// order.
	Scripts map[model.KeychainKind][][]byte
	// Known maps stored txids to their stored state.
	Known map[chainhash.Hash]KnownTx
	// StopGap ends a keychain walk after this many consecutive scripts
	// without history.
	StopGap int
}

// Request is the active phase of a sync session. Exactly one of
// *ScriptRequest, *ConftimeRequest, *TxRequest or *Finished.
type Request interface {
	syncRequest()
}

// TxDetail answers one transaction-phase work item: the full transaction and
// its inputs' referenced prior outputs, aligned with Tx.TxIn. An entry is nil
// for a null (coinbase) previous outpoint.
type TxDetail struct {
	Tx       *wire.MsgTx
	PrevOuts []*wire.TxOut
}

// Start builds the initial request for a session. Sessions with nothing to
// scan go straight to Finished.
func Start(p Params) Request {
	st := &state{
		stopGap:       p.StopGap,
		scripts:       make(map[model.KeychainKind][][]byte),
		cursor:        make(map[model.KeychainKind]int),
		lastActive:    make(map[model.KeychainKind]int),
		gapRun:        make(map[model.KeychainKind]int),
		walletScripts: make(map[string]struct{}),
		known:         p.Known,
		seen:          make(map[chainhash.Hash]struct{}),
		conftimes:     make(map[chainhash.Hash]*model.BlockTime),
	}
	if st.stopGap <= 0 {
		st.stopGap = 1
	}
	if st.known == nil {
		st.known = make(map[chainhash.Hash]KnownTx)
	}
	for _, kk := range model.Keychains() {
		scripts := p.Scripts[kk]
		if len(scripts) == 0 {
			continue
		}
		st.keychains = append(st.keychains, kk)
		st.scripts[kk] = scripts
		st.lastActive[kk] = -1
		for _, script := range scripts {
			st.walletScripts[string(script)] = struct{}{}
		}
	}
	if len(st.pendingScripts()) == 0 {
		return st.afterScripts()
	}
	return &ScriptRequest{st: st}
}

type state struct {
	stopGap   int
	keychains []model.KeychainKind
	scripts   map[model.KeychainKind][][]byte
	cursor    map[model.KeychainKind]int
	// lastActive is the highest script index with history, -1 for none.
	lastActive    map[model.KeychainKind]int
	gapRun        map[model.KeychainKind]int
	walletScripts map[string]struct{}

	known map[chainhash.Hash]KnownTx

	seen       map[chainhash.Hash]struct{}
	discovered []chainhash.Hash

	conftimeQueue []chainhash.Hash
	conftimePos   int
	conftimes     map[chainhash.Hash]*model.BlockTime

	txQueue []chainhash.Hash
	txPos   int
	details []model.TransactionDetails
}

// ScriptRequest is the script-history phase.
type ScriptRequest struct{ st *state }

func (*ScriptRequest) syncRequest() {}

// Pending returns the scripts still awaiting a history lookup, flattened
// across keychains in walk order. Calling Pending does not consume anything.
func (r *ScriptRequest) Pending() [][]byte {
	return r.st.pendingScripts()
}

// Satisfy consumes history answers for a prefix of Pending, in the same
// order, and returns the next request. Each answer is applied to the script
// it was fetched for; when the gap limit truncates a keychain partway
// through the batch, the batch's remaining answers for that keychain are
// discarded rather than shifted onto later scripts.
func (r *ScriptRequest) Satisfy(histories [][]chain.HistoryEntry) (Request, error) {
	st := r.st
	targets := st.pendingTargets()
	if len(histories) > len(targets) {
		return nil, fmt.Errorf("satisfy script phase: %d answers for %d pending scripts", len(histories), len(targets))
	}
	for i, history := range histories {
		kk, idx := targets[i].keychain, targets[i].index
		if st.cursor[kk] > idx {
			// keychain truncated earlier in this batch
			continue
		}
		st.cursor[kk] = idx + 1
		if len(history) > 0 {
			st.lastActive[kk] = idx
			st.gapRun[kk] = 0
		} else {
			st.gapRun[kk]++
			if st.gapRun[kk] >= st.stopGap {
				// gap limit reached, stop extending this keychain
				st.cursor[kk] = len(st.scripts[kk])
			}
		}
		for _, row := range history {
			if _, dup := st.seen[row.Txid]; dup {
				continue
			}
			st.seen[row.Txid] = struct{}{}
			st.discovered = append(st.discovered, row.Txid)
		}
	}
	if len(st.pendingScripts()) > 0 {
		return r, nil
	}
	return st.afterScripts(), nil
}

// ConftimeRequest is the confirmation-time phase.
type ConftimeRequest struct{ st *state }

func (*ConftimeRequest) syncRequest() {}

// Pending returns the txids still awaiting a confirmation-time answer.
func (r *ConftimeRequest) Pending() []chainhash.Hash {
	return r.st.conftimeQueue[r.st.conftimePos:]
}

// Satisfy consumes confirmation times for a prefix of Pending. A nil entry
// means the transaction is unconfirmed.
func (r *ConftimeRequest) Satisfy(times []*model.BlockTime) (Request, error) {
	st := r.st
	pending := r.Pending()
	if len(times) > len(pending) {
		return nil, fmt.Errorf("satisfy conftime phase: %d answers for %d pending txids", len(times), len(pending))
	}
	for i, bt := range times {
		st.conftimes[pending[i]] = bt
	}
	st.conftimePos += len(times)
	if st.conftimePos < len(st.conftimeQueue) {
		return r, nil
	}
	return st.afterConftimes(), nil
}

// TxRequest is the full-transaction phase.
type TxRequest struct{ st *state }

func (*TxRequest) syncRequest() {}

// Pending returns the txids whose full transactions are still needed.
func (r *TxRequest) Pending() []chainhash.Hash {
	return r.st.txQueue[r.st.txPos:]
}

// Satisfy consumes transaction answers for a prefix of Pending, in the same
// order, and folds them into the session's transaction details.
func (r *TxRequest) Satisfy(details []TxDetail) (Request, error) {
	st := r.st
	pending := r.Pending()
	if len(details) > len(pending) {
		return nil, fmt.Errorf("satisfy tx phase: %d answers for %d pending txids", len(details), len(pending))
	}
	for i, detail := range details {
		want := pending[i]
		record, err := st.buildDetails(want, detail)
		if err != nil {
			return nil, err
		}
		st.details = append(st.details, record)
	}
	st.txPos += len(details)
	if st.txPos < len(st.txQueue) {
		return r, nil
	}
	return st.finish(), nil
}

// Finished is the terminal phase carrying the update to commit.
type Finished struct {
	Update *model.BatchUpdate
}

func (*Finished) syncRequest() {}

func (st *state) pendingScripts() [][]byte {
	var out [][]byte
	for _, kk := range st.keychains {
		out = append(out, st.scripts[kk][st.cursor[kk]:]...)
	}
	return out
}

// scriptTarget names the script an answer belongs to.
type scriptTarget struct {
	keychain model.KeychainKind
	index    int
}

func (st *state) pendingTargets() []scriptTarget {
	var out []scriptTarget
	for _, kk := range st.keychains {
		for idx := st.cursor[kk]; idx < len(st.scripts[kk]); idx++ {
			out = append(out, scriptTarget{keychain: kk, index: idx})
		}
	}
	return out
}

func (st *state) afterScripts() Request {
	// Every discovered txid gets a fresh confirmation-time answer so that
	// reorged or newly confirmed transactions update their stored record.
	st.conftimeQueue = append([]chainhash.Hash(nil), st.discovered...)
	if len(st.conftimeQueue) == 0 {
		return st.afterConftimes()
	}
	return &ConftimeRequest{st: st}
}

func (st *state) afterConftimes() Request {
	for _, txid := range st.discovered {
		if k, ok := st.known[txid]; ok && k.HasRaw {
			continue
		}
		st.txQueue = append(st.txQueue, txid)
	}
	if len(st.txQueue) == 0 {
		return st.finish()
	}
	return &TxRequest{st: st}
}

func (st *state) buildDetails(want chainhash.Hash, detail TxDetail) (model.TransactionDetails, error) {
	if detail.Tx == nil {
		return model.TransactionDetails{}, fmt.Errorf("satisfy tx phase: nil transaction for %s", want)
	}
	if got := detail.Tx.TxHash(); got != want {
		return model.TransactionDetails{}, fmt.Errorf("satisfy tx phase: answer for %s, expected %s", got, want)
	}
	if len(detail.PrevOuts) != len(detail.Tx.TxIn) {
		return model.TransactionDetails{}, fmt.Errorf("satisfy tx phase: %d prior outputs for %d inputs of %s",
			len(detail.PrevOuts), len(detail.Tx.TxIn), want)
	}

	var received, sent, inputTotal, outputTotal uint64
	for _, out := range detail.Tx.TxOut {
		outputTotal += uint64(out.Value)
		if _, ours := st.walletScripts[string(out.PkScript)]; ours {
			received += uint64(out.Value)
		}
	}
	feeKnown := true
	for _, prev := range detail.PrevOuts {
		if prev == nil {
			// null previous outpoint, no value to account for
			feeKnown = false
			continue
		}
		inputTotal += uint64(prev.Value)
		if _, ours := st.walletScripts[string(prev.PkScript)]; ours {
			sent += uint64(prev.Value)
		}
	}

	record := model.TransactionDetails{
		Txid:         want,
		Tx:           detail.Tx,
		Received:     received,
		Sent:         sent,
		Confirmation: st.conftimes[want],
	}
	if feeKnown && len(detail.PrevOuts) > 0 {
		if inputTotal < outputTotal {
			return model.TransactionDetails{}, fmt.Errorf("transaction %s spends %d but creates %d", want, inputTotal, outputTotal)
		}
		fee := inputTotal - outputTotal
		record.Fee = &fee
	}
	return record, nil
}

func (st *state) finish() *Finished {
	update := &model.BatchUpdate{
		Transactions:    st.details,
		Confirmations:   make(map[chainhash.Hash]*model.BlockTime),
		LastActiveIndex: make(map[model.KeychainKind]uint32),
	}
	for _, txid := range st.discovered {
		k, ok := st.known[txid]
		if !ok || !k.HasRaw {
			continue
		}
		if bt := st.conftimes[txid]; !bt.Equal(k.Confirmation) {
			update.Confirmations[txid] = bt
		}
	}
	for _, kk := range st.keychains {
		if idx := st.lastActive[kk]; idx >= 0 {
			update.LastActiveIndex[kk] = uint32(idx)
		}
	}
	return &Finished{Update: update}
}
