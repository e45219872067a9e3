// Package model defines the wallet domain types shared across sync components.
package model

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// KeychainKind distinguishes the two derivation branches of a wallet.
type KeychainKind string

const (
	// KeychainExternal holds receive scripts handed out to other parties.
	KeychainExternal KeychainKind = "external"
	// KeychainInternal holds change scripts.
	KeychainInternal KeychainKind = "internal"
)

// Keychains lists the keychain kinds in canonical walk order.
func Keychains() []KeychainKind {
	return []KeychainKind{KeychainExternal, KeychainInternal}
}

// BlockTime pairs a confirmation height with the timestamp of its block.
type BlockTime struct {
	Height    uint32
	Timestamp time.Time
}

// Equal reports whether two confirmation records describe the same block.
// Either side may be nil, meaning unconfirmed.
func (b *BlockTime) Equal(other *BlockTime) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Height == other.Height && b.Timestamp.Equal(other.Timestamp)
}

// FeeRate is a fee rate in satoshis per virtual byte.
type FeeRate float64

// DefaultFeeRate is the fallback when no estimate covers the requested target.
const DefaultFeeRate FeeRate = 1.0

// FeeRateFromBTCPerKvB converts a BTC-per-kilo-vbyte estimate, the unit the
// electrum protocol reports, into sat/vB.
func FeeRateFromBTCPerKvB(v float64) FeeRate {
	return FeeRate(v * 1e5)
}

// TransactionDetails is the stored record for a wallet-relevant transaction.
type TransactionDetails struct {
	Txid     chainhash.Hash
	Tx       *wire.MsgTx
	Received uint64
	Sent     uint64
	// Fee is nil when it cannot be computed, e.g. for coinbase transactions.
	Fee *uint64
	// Confirmation is nil while the transaction is unconfirmed.
	Confirmation *BlockTime
}

// BatchUpdate is the single atomic payload a completed sync session produces.
// It is committed to the persistent store in one write; partial sync sessions
// never commit anything.
type BatchUpdate struct {
	// Transactions are full records for transactions fetched this session.
	Transactions []TransactionDetails
	// Confirmations are confirmation-time changes for transactions the store
	// already holds in full.
	Confirmations map[chainhash.Hash]*BlockTime
	// LastActiveIndex records the highest derivation index with history seen
	// per keychain.
	LastActiveIndex map[KeychainKind]uint32
}
