package electrum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/wire"
)

// Scripthash returns the electrum index key for a script pubkey: the sha256
// digest of the script, byte-reversed, hex encoded.
func Scripthash(script []byte) string {
	digest := sha256.Sum256(script)
	for i, j := 0, len(digest)-1; i < j; i, j = i+1, j-1 {
		digest[i], digest[j] = digest[j], digest[i]
	}
	return hex.EncodeToString(digest[:])
}

func decodeHeader(raw string) (wire.BlockHeader, error) {
	var header wire.BlockHeader
	b, err := hex.DecodeString(raw)
	if err != nil {
		return header, fmt.Errorf("decode header hex: %w", err)
	}
	if err := header.Deserialize(bytes.NewReader(b)); err != nil {
		return header, fmt.Errorf("deserialize header: %w", err)
	}
	return header, nil
}

func decodeTransaction(raw string) (*wire.MsgTx, error) {
	b, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode transaction hex: %w", err)
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	if err := tx.Deserialize(bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("deserialize transaction: %w", err)
	}
	return tx, nil
}

func encodeTransaction(tx *wire.MsgTx) (string, error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSize())
	if err := tx.Serialize(&buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf.Bytes()), nil
}
