package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/walletsync7000-backend/internal/metrics"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/electrum"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/model"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/service"
	"github.com/goodnatureofminers/walletsync7000-backend/internal/wallet/store/leveldb"
)

type config struct {
	ElectrumURL string        `long:"electrum-url" env:"WALLETSYNC_ELECTRUM_URL" description:"Electrum server URL (tcp:// or ssl://)" default:"tcp://127.0.0.1:50001"`
	Socks5      string        `long:"socks5" env:"WALLETSYNC_SOCKS5" description:"socks5 proxy address"`
	Retry       int           `long:"retry" env:"WALLETSYNC_RETRY" description:"request retry count" default:"1"`
	Timeout     time.Duration `long:"timeout" env:"WALLETSYNC_TIMEOUT" description:"per-request timeout" default:"30s"`
	RPS         int           `long:"rps" env:"WALLETSYNC_RPS" description:"max requests per second against the server" default:"10"`
	StopGap     int           `long:"stop-gap" env:"WALLETSYNC_STOP_GAP" description:"unused script gap ending the scan; also the sync chunk size" default:"20"`
	DBPath      string        `long:"db" env:"WALLETSYNC_DB" description:"wallet database path" default:"wallet.db"`
	Network     string        `long:"network" env:"WALLETSYNC_NETWORK" description:"network name (mainnet, testnet, regtest, signet)" default:"mainnet"`
	Addresses   []string      `long:"watch-address" env:"WALLETSYNC_WATCH_ADDRESS" env-delim:"," description:"address added to the external keychain watch list"`
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
		logger.Fatal("wallet sync failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	params, err := networkParams(cfg.Network)
	if err != nil {
		return err
	}

	store, err := leveldb.Open(cfg.DBPath, metrics.NewWalletStore(cfg.Network))
	if err != nil {
		return fmt.Errorf("open wallet store: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	if err := registerAddresses(store, cfg.Addresses, params); err != nil {
		return err
	}

	client, err := electrum.Dial(ctx, electrum.Config{
		URL:     cfg.ElectrumURL,
		Socks5:  cfg.Socks5,
		Retry:   cfg.Retry,
		Timeout: cfg.Timeout,
		RPS:     cfg.RPS,
	}, logger)
	if err != nil {
		return fmt.Errorf("init electrum client: %w", err)
	}
	defer client.Close()

	backend := electrum.NewObservedClient(client, metrics.NewElectrumClient(cfg.Network))
	svc := service.NewChainSyncService(backend, store, cfg.StopGap, logger)

	update, err := svc.Sync(ctx)
	if err != nil {
		return err
	}
	logger.Info("sync finished",
		zap.Int("new_transactions", len(update.Transactions)),
		zap.Int("confirmation_updates", len(update.Confirmations)))
	return nil
}

func registerAddresses(store *leveldb.Store, addresses []string, params *chaincfg.Params) error {
	existing, err := store.ScriptPubkeys(model.KeychainExternal)
	if err != nil {
		return fmt.Errorf("load watched scripts: %w", err)
	}
	watched := make(map[string]struct{}, len(existing))
	for _, script := range existing {
		watched[string(script)] = struct{}{}
	}

	next := uint32(len(existing))
	for _, raw := range addresses {
		addr, err := btcutil.DecodeAddress(raw, params)
		if err != nil {
			return fmt.Errorf("decode address %q: %w", raw, err)
		}
		script, err := txscript.PayToAddrScript(addr)
		if err != nil {
			return fmt.Errorf("script for address %q: %w", raw, err)
		}
		if _, ok := watched[string(script)]; ok {
			continue
		}
		if err := store.AddScriptPubkey(model.KeychainExternal, next, script); err != nil {
			return err
		}
		watched[string(script)] = struct{}{}
		next++
	}
	return nil
}

func networkParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unknown network %q", network)
	}
}
