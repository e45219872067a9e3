package service

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/chain"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Backend is the narrow capability surface of a remote chain index. All
	// batched methods answer in input order; a reply-count mismatch is
	// treated as backend misbehaviour by the caller.
	Backend interface {
		ScriptHistories(ctx context.Context, scripts [][]byte) ([][]chain.HistoryEntry, error)
		BlockHeaders(ctx context.Context, heights []uint32) ([]wire.BlockHeader, error)
		Transactions(ctx context.Context, txids []chainhash.Hash) ([]*wire.MsgTx, error)
		Broadcast(ctx context.Context, tx *wire.MsgTx) error
		EstimateFee(ctx context.Context, target uint32) (float64, error)
		FeeEstimates(ctx context.Context) (map[string]float64, error)
		TipHeight(ctx context.Context) (uint32, error)
		Transaction(ctx context.Context, txid chainhash.Hash) (*wire.MsgTx, error)
	}

	// Store is the persistent wallet database the sync service reads from
	// and commits to. RawTransaction returns (nil, nil) for an unknown txid.
	Store interface {
		RawTransaction(txid chainhash.Hash) (*wire.MsgTx, error)
		TransactionDetails() ([]model.TransactionDetails, error)
		ScriptPubkeys(keychain model.KeychainKind) ([][]byte, error)
		CommitBatch(update *model.BatchUpdate) error
	}
)
