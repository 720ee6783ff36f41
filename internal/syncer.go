package internal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/serolight/walletdash/config"
	"github.com/serolight/walletdash/internal/clients"
	"github.com/serolight/walletdash/internal/domain"
	"github.com/serolight/walletdash/internal/events"
	"github.com/serolight/walletdash/internal/services/accounts"
	"github.com/serolight/walletdash/internal/services/txhistory"
)

// gate is a per-resource in-flight flag: a tick that finds the previous
// refresh unsettled is skipped instead of stacking a second call on the same
// resource.
type gate struct {
	busy atomic.Bool
}

// enter reports whether the caller acquired the gate.
func (g *gate) enter() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *gate) leave() {
	g.busy.Store(false)
}

// Syncer drives periodic refresh of accounts, transaction history and chain
// height, each on its own timer. Resource classes are independent and may
// overlap each other; within one class at most one call is in flight.
type Syncer struct {
	cfg      config.Config
	logger   *zap.Logger
	accounts *accounts.Aggregator
	history  *txhistory.Pager
	explorer *clients.ExplorerClient

	blockHeight atomic.Uint64

	Dashboards *events.Broadcaster[domain.DashboardView]
	Histories  *events.Broadcaster[domain.HistoryView]

	accountGate gate
	historyGate gate
	heightGate  gate
}

// NewSyncer wires the scheduler to its collaborators.
func NewSyncer(cfg config.Config, agg *accounts.Aggregator, pager *txhistory.Pager, explorer *clients.ExplorerClient, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		cfg:        cfg,
		logger:     logger.With(zap.String("component", "syncer")),
		accounts:   agg,
		history:    pager,
		explorer:   explorer,
		Dashboards: events.NewBroadcaster[domain.DashboardView](16),
		Histories:  events.NewBroadcaster[domain.HistoryView](16),
	}
}

// BlockHeight returns the last chain height seen.
func (s *Syncer) BlockHeight() uint64 {
	return s.blockHeight.Load()
}

// Run starts the refresh loops and blocks until ctx is cancelled. A failed
// cycle is logged and the loop keeps ticking; there is no retry beyond the
// next scheduled tick.
func (s *Syncer) Run(ctx context.Context) error {
	s.logger.Info("starting sync loops",
		zap.Duration("account_interval", s.cfg.AccountRefreshInterval),
		zap.Duration("tx_interval", s.cfg.TxRefreshInterval),
		zap.Duration("block_interval", s.cfg.BlockRefreshInterval))

	// first cycle up front so the dashboard is not empty for a full interval
	s.refreshAccounts(ctx)
	s.refreshHeight(ctx)

	var wg sync.WaitGroup
	loops := []struct {
		name     string
		interval time.Duration
		tick     func(context.Context)
	}{
		{"accounts", s.cfg.AccountRefreshInterval, s.refreshAccounts},
		{"txhistory", s.cfg.TxRefreshInterval, s.refreshHistory},
		{"blockheight", s.cfg.BlockRefreshInterval, s.refreshHeight},
	}

	for _, loop := range loops {
		wg.Add(1)
		go func(name string, interval time.Duration, tick func(context.Context)) {
			defer wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					s.logger.Info("sync loop stopped", zap.String("resource", name))
					return
				case <-ticker.C:
					tick(ctx)
				}
			}
		}(loop.name, loop.interval, loop.tick)
	}

	wg.Wait()
	return ctx.Err()
}

func (s *Syncer) refreshAccounts(ctx context.Context) {
	if !s.accountGate.enter() {
		s.logger.Debug("account refresh still in flight, skipping tick")
		return
	}
	defer s.accountGate.leave()

	list, err := s.accounts.RefreshList(ctx)
	if err != nil {
		s.logger.Error("account refresh failed", zap.Error(err))
		return
	}

	// default the history selection to the first account
	if s.history.Account() == "" && len(list) > 0 {
		s.history.SetAccount(list[0].PK)
	}

	s.Dashboards.Publish(s.accounts.BuildDashboard(s.blockHeight.Load()))
}

func (s *Syncer) refreshHistory(ctx context.Context) {
	if !s.historyGate.enter() {
		s.logger.Debug("tx refresh still in flight, skipping tick")
		return
	}
	defer s.historyGate.leave()

	if s.history.Account() == "" {
		return
	}
	if err := s.history.Refresh(ctx); err != nil {
		s.logger.Error("tx refresh failed", zap.Error(err))
		return
	}
	s.Histories.Publish(s.history.View())
}

func (s *Syncer) refreshHeight(ctx context.Context) {
	if !s.heightGate.enter() {
		s.logger.Debug("height refresh still in flight, skipping tick")
		return
	}
	defer s.heightGate.leave()

	height, err := s.explorer.BlockCount(ctx)
	if err != nil {
		s.logger.Error("block height refresh failed", zap.Error(err))
		return
	}
	s.blockHeight.Store(height)
	s.Dashboards.Publish(s.accounts.BuildDashboard(height))
}

// SelectAccount switches the history pager to another account and fetches
// its first page immediately.
func (s *Syncer) SelectAccount(ctx context.Context, pk string) error {
	s.history.SetAccount(pk)
	if err := s.history.GotoPage(ctx, 1); err != nil {
		return err
	}
	s.Histories.Publish(s.history.View())
	return nil
}
