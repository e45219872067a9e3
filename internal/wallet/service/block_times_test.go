package service

import (
	"context"
	"testing"
	"time"

	"github.com/btcsuite/btcd/wire"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockTimeResolver_ResolvesAndCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	backend := NewMockBackend(ctrl)
	ctx := context.Background()

	t100 := time.Unix(1_700_000_000, 0).UTC()
	t101 := time.Unix(1_700_000_600, 0).UTC()
	backend.EXPECT().
		BlockHeaders(ctx, []uint32{100, 101}).
		Return([]wire.BlockHeader{{Timestamp: t100}, {Timestamp: t101}}, nil)

	resolver := newBlockTimeResolver(backend)
	require.NoError(t, resolver.Resolve(ctx, []uint32{100, 101, 100}))

	assert.True(t, resolver.Cached(100))
	assert.False(t, resolver.Cached(102))

	ts, ok := resolver.Lookup(101)
	require.True(t, ok)
	assert.Equal(t, t101, ts)

	// Already-resolved heights do not trigger another fetch.
	require.NoError(t, resolver.Resolve(ctx, []uint32{100, 101}))
}

func TestBlockTimeResolver_ShortReply(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	backend := NewMockBackend(ctrl)
	ctx := context.Background()

	backend.EXPECT().
		BlockHeaders(ctx, []uint32{100, 101}).
		Return([]wire.BlockHeader{{Timestamp: time.Unix(1, 0)}}, nil)

	resolver := newBlockTimeResolver(backend)
	err := resolver.Resolve(ctx, []uint32{100, 101})
	require.ErrorIs(t, err, ErrBackendMisbehaving)
}
