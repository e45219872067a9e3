package chain

import (
	"math"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
)

func TestIsNullOutPoint(t *testing.T) {
	assert.True(t, IsNullOutPoint(wire.OutPoint{Index: math.MaxUint32}))
	assert.False(t, IsNullOutPoint(wire.OutPoint{Index: 0}))
	assert.False(t, IsNullOutPoint(wire.OutPoint{Hash: chainhash.Hash{0x01}, Index: math.MaxUint32}))
}
