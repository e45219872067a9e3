// Package chain holds types shared between the sync state machine, the
// orchestrator and the concrete chain backends.
package chain

import (
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// HistoryEntry is one row of a script's transaction history as reported by
// the indexing backend. A height of zero or below means unconfirmed.
type HistoryEntry struct {
	Txid   chainhash.Hash
	Height int32
}

// IsNullOutPoint reports whether op is the null previous-output reference
// used by coinbase inputs.
func IsNullOutPoint(op wire.OutPoint) bool {
	return op.Index == math.MaxUint32 && op.Hash == (chainhash.Hash{})
}
