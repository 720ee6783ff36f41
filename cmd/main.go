// Command walletdash keeps a local view of a wallet daemon's accounts,
// balances and transaction history in sync and publishes display-ready
// view-models for a renderer to consume.
//
// Usage:
//
//	walletdash --config config.yaml
//	walletdash --setup (writes config.yaml interactively)
//	walletdash (uses CLI arguments)
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/serolight/walletdash/config"
	"github.com/serolight/walletdash/internal"
	"github.com/serolight/walletdash/internal/clients"
	"github.com/serolight/walletdash/internal/services/accounts"
	"github.com/serolight/walletdash/internal/services/txhistory"
	"github.com/serolight/walletdash/internal/setup"
)

func main() {
	cfg, runSetup, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}
	if runSetup {
		if err := setup.RunTUI("config.yaml"); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	wallet := clients.NewWalletClient(cfg.WalletHost, cfg.RequestTimeout)
	explorer := clients.NewExplorerClient(cfg.ExplorerURL, cfg.RequestTimeout)

	aggregator := accounts.NewAggregator(wallet, cfg.NativeCurrency, logger)
	pager := txhistory.NewPager(wallet, cfg.PageSize, logger)

	syncer := internal.NewSyncer(cfg, aggregator, pager, explorer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := syncer.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("syncer stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
