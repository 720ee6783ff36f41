// Package accounts maintains the local account snapshot and aggregates
// balances across accounts and currencies.
package accounts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/serolight/walletdash/internal/domain"
	"github.com/serolight/walletdash/pkg/numeric"
)

type walletAPI interface {
	AccountList(ctx context.Context) ([]domain.Account, error)
	AccountDetail(ctx context.Context, pk string) (domain.Account, error)
}

// Aggregator owns the account snapshot. Every successful list refresh
// replaces the snapshot wholesale; a stale completion (an older request
// finishing after a newer one already applied) is discarded.
type Aggregator struct {
	client walletAPI
	native string
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot []domain.Account
	applied  uint64
	nextGen  uint64
}

// NewAggregator creates an aggregator. native is the wallet's native currency
// symbol, used for the zero display and per-account card balances.
func NewAggregator(client walletAPI, native string, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		client: client,
		native: native,
		logger: logger.With(zap.String("component", "accounts")),
	}
}

func (a *Aggregator) begin() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextGen++
	return a.nextGen
}

// tryApply installs accounts if gen is newer than the last applied
// generation. Returns false for a stale completion.
func (a *Aggregator) tryApply(gen uint64, accounts []domain.Account) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen <= a.applied {
		return false
	}
	a.applied = gen
	a.snapshot = accounts
	return true
}

// RefreshList re-fetches the full account list. Any error leaves the current
// snapshot untouched.
func (a *Aggregator) RefreshList(ctx context.Context) ([]domain.Account, error) {
	gen := a.begin()
	list, err := a.client.AccountList(ctx)
	if err != nil {
		return nil, err
	}
	if !a.tryApply(gen, list) {
		a.logger.Debug("discarded stale account list", zap.Uint64("generation", gen))
	}
	return list, nil
}

// RefreshDetail re-fetches one account and folds it into the snapshot,
// leaving the other accounts as they were.
func (a *Aggregator) RefreshDetail(ctx context.Context, pk string) (domain.Account, error) {
	acc, err := a.client.AccountDetail(ctx, pk)
	if err != nil {
		return domain.Account{}, err
	}

	a.mu.Lock()
	replaced := false
	next := make([]domain.Account, len(a.snapshot))
	copy(next, a.snapshot)
	for i := range next {
		if next[i].PK == acc.PK {
			next[i] = acc
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, acc)
	}
	a.snapshot = next
	a.mu.Unlock()

	return acc, nil
}

// Snapshot returns the current accounts.
func (a *Aggregator) Snapshot() []domain.Account {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Account, len(a.snapshot))
	copy(out, a.snapshot)
	return out
}

// Totals sums every currency across the snapshot, in first-seen order
// (account order, then each account's reported currency order). A wallet
// with no accounts or no balances still yields the native currency at zero,
// never an empty result.
func (a *Aggregator) Totals() []domain.BalanceTotal {
	snapshot := a.Snapshot()

	var order []string
	sums := make(map[string]numeric.Value)
	for _, acc := range snapshot {
		for _, currency := range acc.Currencies {
			if _, seen := sums[currency]; !seen {
				order = append(order, currency)
				sums[currency] = numeric.Zero()
			}
			sums[currency] = sums[currency].Add(acc.BalanceOf(currency))
		}
	}

	if len(order) == 0 {
		return []domain.BalanceTotal{{Currency: a.native, Total: numeric.Zero()}}
	}

	totals := make([]domain.BalanceTotal, 0, len(order))
	for _, currency := range order {
		totals = append(totals, domain.BalanceTotal{
			Currency: currency,
			Total:    sums[currency].ToDisplay(),
		})
	}
	return totals
}

// Total sums one currency across all accounts; accounts lacking it
// contribute zero.
func (a *Aggregator) Total(currency string) domain.BalanceTotal {
	sum := numeric.Zero()
	for _, acc := range a.Snapshot() {
		sum = sum.Add(acc.BalanceOf(currency))
	}
	return domain.BalanceTotal{Currency: currency, Total: sum.ToDisplay()}
}

// BuildDashboard assembles the dashboard view-model from the current
// snapshot and the last known chain height.
func (a *Aggregator) BuildDashboard(blockHeight uint64) domain.DashboardView {
	snapshot := a.Snapshot()

	cards := make([]domain.AccountCard, 0, len(snapshot))
	for _, acc := range snapshot {
		cards = append(cards, domain.AccountCard{
			PK:             acc.PK,
			ShortPK:        domain.Abbreviate(acc.PK, 8),
			ReceiveAddress: acc.ReceiveAddress(),
			Balance:        acc.BalanceOf(a.native).ToDisplay().DisplayString(),
		})
	}

	totals := a.Totals()
	viewTotals := make([]domain.CurrencyTotal, 0, len(totals))
	for _, t := range totals {
		viewTotals = append(viewTotals, domain.CurrencyTotal{
			Currency: t.Currency,
			Amount:   t.Total.DisplayString(),
		})
	}

	return domain.DashboardView{
		Timestamp:   time.Now(),
		Totals:      viewTotals,
		Accounts:    cards,
		BlockHeight: blockHeight,
	}
}
