package electrum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDial_RejectsSocks5(t *testing.T) {
	_, err := Dial(context.Background(), Config{
		URL:    "tcp://127.0.0.1:50001",
		Socks5: "127.0.0.1:9050",
	}, zap.NewNop())
	require.Error(t, err)
}

func TestDial_RejectsMalformedURL(t *testing.T) {
	_, err := Dial(context.Background(), Config{URL: "127.0.0.1:50001"}, zap.NewNop())
	require.Error(t, err)

	_, err = Dial(context.Background(), Config{URL: "http://127.0.0.1:50001"}, zap.NewNop())
	require.Error(t, err)
}
