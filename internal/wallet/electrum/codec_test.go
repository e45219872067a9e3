package electrum

import (
	"bytes"
	"encoding/hex"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeHeaderForTest(t *testing.T, header wire.BlockHeader) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, header.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes())
}

func TestScripthash(t *testing.T) {
	// sha256 of the empty script, byte-reversed.
	assert.Equal(t,
		"55b852781b9995a44c939b64e441ae2724b96f99c8f4fb9a141cfc9842c4b0e3",
		Scripthash(nil))

	a := Scripthash([]byte{0x51})
	b := Scripthash([]byte{0x52})
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestTransactionCodec_RoundTrip(t *testing.T) {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(&wire.OutPoint{Hash: chainhash.Hash{0x01}, Index: 0}, []byte{0x00}, nil))
	tx.AddTxOut(wire.NewTxOut(42_000, []byte{0x51}))
	tx.LockTime = 7

	raw, err := encodeTransaction(tx)
	require.NoError(t, err)

	decoded, err := decodeTransaction(raw)
	require.NoError(t, err)
	assert.Equal(t, tx.TxHash(), decoded.TxHash())
	assert.Equal(t, uint32(7), decoded.LockTime)
}

func TestDecodeTransaction_BadInput(t *testing.T) {
	_, err := decodeTransaction("not hex")
	require.Error(t, err)

	_, err = decodeTransaction("00")
	require.Error(t, err)
}

func TestDecodeHeader_RoundTrip(t *testing.T) {
	header := wire.BlockHeader{
		Version:    2,
		PrevBlock:  chainhash.Hash{0x01},
		MerkleRoot: chainhash.Hash{0x02},
		Timestamp:  time.Unix(1_700_000_000, 0).UTC(),
		Bits:       0x1d00ffff,
		Nonce:      12345,
	}
	raw := encodeHeaderForTest(t, header)

	decoded, err := decodeHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, header.BlockHash(), decoded.BlockHash())
	assert.True(t, header.Timestamp.Equal(decoded.Timestamp))
}

func TestDecodeHeader_BadInput(t *testing.T) {
	_, err := decodeHeader("zz")
	require.Error(t, err)

	_, err = decodeHeader("00")
	require.Error(t, err)
}
