// Package leveldb persists wallet state in an embedded LevelDB database: raw
// transactions, transaction detail records, watched scripts per keychain and
// last-active derivation indices. A sync session's BatchUpdate is applied as
// one LevelDB batch, so readers never observe a partially-synced store.
package leveldb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/model"
)

var (
	prefixRawTx   = []byte("tx/")
	prefixDetails = []byte("txd/")
	prefixScript  = []byte("scr/")
	prefixIndex   = []byte("idx/")
)

type (
	// Metrics records metrics for store operations.
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

type nopMetrics struct{}

func (nopMetrics) Observe(string, error, time.Time) {}

// Store is a LevelDB-backed wallet database.
type Store struct {
	db      *leveldb.DB
	metrics Metrics
}

// Open opens (or creates) the wallet database at path.
func Open(path string, metrics Metrics) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open wallet db %s: %w", path, err)
	}
	return newStore(db, metrics), nil
}

// OpenMemory opens an in-memory wallet database, used in tests and throwaway
// sessions.
func OpenMemory(metrics Metrics) (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("open in-memory wallet db: %w", err)
	}
	return newStore(db, metrics), nil
}

func newStore(db *leveldb.DB, metrics Metrics) *Store {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Store{db: db, metrics: metrics}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// txRecord is the stored detail row for a transaction, kept separately from
// the raw bytes.
type txRecord struct {
	Received  uint64  `json:"received"`
	Sent      uint64  `json:"sent"`
	Fee       *uint64 `json:"fee,omitempty"`
	Confirmed bool    `json:"confirmed"`
	Height    uint32  `json:"height,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

func recordFromDetails(d model.TransactionDetails) txRecord {
	rec := txRecord{
		Received: d.Received,
		Sent:     d.Sent,
		Fee:      d.Fee,
	}
	if d.Confirmation != nil {
		rec.Confirmed = true
		rec.Height = d.Confirmation.Height
		rec.Timestamp = d.Confirmation.Timestamp.Unix()
	}
	return rec
}

func (r txRecord) confirmation() *model.BlockTime {
	if !r.Confirmed {
		return nil
	}
	return &model.BlockTime{Height: r.Height, Timestamp: time.Unix(r.Timestamp, 0).UTC()}
}

// RawTransaction returns the stored transaction or (nil, nil) when unknown.
func (s *Store) RawTransaction(txid chainhash.Hash) (tx *wire.MsgTx, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("raw_transaction", err, started)
	}()

	value, err := s.db.Get(rawTxKey(txid), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get raw tx %s: %w", txid, err)
	}
	tx = wire.NewMsgTx(wire.TxVersion)
	if err = tx.Deserialize(bytes.NewReader(value)); err != nil {
		return nil, fmt.Errorf("deserialize raw tx %s: %w", txid, err)
	}
	return tx, nil
}

// TransactionDetails returns every stored transaction record, with the raw
// transaction attached when present.
func (s *Store) TransactionDetails() (details []model.TransactionDetails, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("transaction_details", err, started)
	}()

	iter := s.db.NewIterator(util.BytesPrefix(prefixDetails), nil)
	defer iter.Release()
	for iter.Next() {
		key := iter.Key()
		txid, herr := chainhash.NewHash(key[len(prefixDetails):])
		if herr != nil {
			return nil, fmt.Errorf("malformed details key %x: %w", key, herr)
		}
		var rec txRecord
		if err = json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("decode details for %s: %w", txid, err)
		}
		tx, terr := s.RawTransaction(*txid)
		if terr != nil {
			return nil, terr
		}
		details = append(details, model.TransactionDetails{
			Txid:         *txid,
			Tx:           tx,
			Received:     rec.Received,
			Sent:         rec.Sent,
			Fee:          rec.Fee,
			Confirmation: rec.confirmation(),
		})
	}
	if err = iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate transaction details: %w", err)
	}
	return details, nil
}

// ScriptPubkeys returns the watched scripts of a keychain in derivation
// order.
func (s *Store) ScriptPubkeys(keychain model.KeychainKind) (scripts [][]byte, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("script_pubkeys", err, started)
	}()

	iter := s.db.NewIterator(util.BytesPrefix(scriptPrefix(keychain)), nil)
	defer iter.Release()
	for iter.Next() {
		scripts = append(scripts, append([]byte(nil), iter.Value()...))
	}
	if err = iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate %s scripts: %w", keychain, err)
	}
	return scripts, nil
}

// AddScriptPubkey registers a watched script at a derivation index.
func (s *Store) AddScriptPubkey(keychain model.KeychainKind, index uint32, script []byte) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("add_script_pubkey", err, started)
	}()

	if err = s.db.Put(scriptKey(keychain, index), script, nil); err != nil {
		return fmt.Errorf("put %s script %d: %w", keychain, index, err)
	}
	return nil
}

// LastActiveIndex returns the recorded last active derivation index of a
// keychain, with ok=false when none was recorded yet.
func (s *Store) LastActiveIndex(keychain model.KeychainKind) (index uint32, ok bool, err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("last_active_index", err, started)
	}()

	value, err := s.db.Get(indexKey(keychain), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get %s last active index: %w", keychain, err)
	}
	if len(value) != 4 {
		return 0, false, fmt.Errorf("malformed %s last active index", keychain)
	}
	return binary.BigEndian.Uint32(value), true, nil
}

// CommitBatch applies a sync session's BatchUpdate in one atomic write.
func (s *Store) CommitBatch(update *model.BatchUpdate) (err error) {
	started := time.Now()
	defer func() {
		s.metrics.Observe("commit_batch", err, started)
	}()

	batch := new(leveldb.Batch)
	for _, d := range update.Transactions {
		if d.Tx != nil {
			var buf bytes.Buffer
			buf.Grow(d.Tx.SerializeSize())
			if err = d.Tx.Serialize(&buf); err != nil {
				return fmt.Errorf("serialize tx %s: %w", d.Txid, err)
			}
			batch.Put(rawTxKey(d.Txid), buf.Bytes())
		}
		value, merr := json.Marshal(recordFromDetails(d))
		if merr != nil {
			return fmt.Errorf("encode details for %s: %w", d.Txid, merr)
		}
		batch.Put(detailsKey(d.Txid), value)
	}

	// Confirmation updates rewrite the stored record; the reads happen up
	// front and the writes land in the same atomic batch.
	for txid, bt := range update.Confirmations {
		value, gerr := s.db.Get(detailsKey(txid), nil)
		if errors.Is(gerr, leveldb.ErrNotFound) {
			return fmt.Errorf("confirmation update for unknown transaction %s", txid)
		}
		if gerr != nil {
			return fmt.Errorf("get details for %s: %w", txid, gerr)
		}
		var rec txRecord
		if err = json.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("decode details for %s: %w", txid, err)
		}
		rec.Confirmed = bt != nil
		rec.Height = 0
		rec.Timestamp = 0
		if bt != nil {
			rec.Height = bt.Height
			rec.Timestamp = bt.Timestamp.Unix()
		}
		updated, merr := json.Marshal(rec)
		if merr != nil {
			return fmt.Errorf("encode details for %s: %w", txid, merr)
		}
		batch.Put(detailsKey(txid), updated)
	}

	for keychain, index := range update.LastActiveIndex {
		var value [4]byte
		binary.BigEndian.PutUint32(value[:], index)
		batch.Put(indexKey(keychain), value[:])
	}

	if err = s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("write sync batch: %w", err)
	}
	return nil
}

func rawTxKey(txid chainhash.Hash) []byte {
	return append(append([]byte(nil), prefixRawTx...), txid[:]...)
}

func detailsKey(txid chainhash.Hash) []byte {
	return append(append([]byte(nil), prefixDetails...), txid[:]...)
}

func scriptPrefix(keychain model.KeychainKind) []byte {
	key := append(append([]byte(nil), prefixScript...), keychain...)
	return append(key, '/')
}

func scriptKey(keychain model.KeychainKind, index uint32) []byte {
	key := scriptPrefix(keychain)
	var be [4]byte
	binary.BigEndian.PutUint32(be[:], index)
	return append(key, be[:]...)
}

func indexKey(keychain model.KeychainKind) []byte {
	return append(append([]byte(nil), prefixIndex...), keychain...)
}
