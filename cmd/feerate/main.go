package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/walletsync7000-backend/internal/metrics"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/electrum"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/service"
)

type config struct {
	ElectrumURL string        `long:"electrum-url" env:"WALLETSYNC_ELECTRUM_URL" description:"Electrum server URL (tcp:// or ssl://)" default:"tcp://127.0.0.1:50001"`
	Timeout     time.Duration `long:"timeout" env:"WALLETSYNC_TIMEOUT" description:"per-request timeout" default:"30s"`
	RPS         int           `long:"rps" env:"WALLETSYNC_RPS" description:"max requests per second against the server" default:"10"`
	Network     string        `long:"network" env:"WALLETSYNC_NETWORK" description:"network name, used for metric labels" default:"mainnet"`
	Target      uint32        `long:"target" env:"WALLETSYNC_FEE_TARGET" description:"confirmation target in blocks" default:"6"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("fee rate query failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	client, err := electrum.Dial(ctx, electrum.Config{
		URL:     cfg.ElectrumURL,
		Timeout: cfg.Timeout,
		RPS:     cfg.RPS,
	}, logger)
	if err != nil {
		return fmt.Errorf("init electrum client: %w", err)
	}
	defer client.Close()

	backend := electrum.NewObservedClient(client, metrics.NewElectrumClient(cfg.Network))
	estimates, err := backend.FeeEstimates(ctx)
	if err != nil {
		return fmt.Errorf("fetch fee estimates: %w", err)
	}

	rate := service.SelectFeeRate(cfg.Target, estimates)
	fmt.Printf("%.3f sat/vB for target %d\n", float64(rate), cfg.Target)
	return nil
}
