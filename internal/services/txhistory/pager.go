// Package txhistory pages through an account's transaction history. The
// daemon reports only the per-page item count, never a grand total, so "last
// page" is inferred from short pages.
package txhistory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/serolight/walletdash/internal/domain"
)

const defaultPageSize = 10

type txAPI interface {
	TxList(ctx context.Context, pk string, page domain.PageInfo) ([]domain.Transaction, domain.PageInfo, error)
}

// State is the pagination cursor. Transitions are pure: they return the next
// state plus the fetch to issue, and the caller applies the server-reported
// page on success.
type State struct {
	PageNo    int
	PageSize  int
	LastCount int
}

// FetchIntent describes the page request a transition asks for.
type FetchIntent struct {
	PageNo   int
	PageSize int
}

// NewState starts at page 1.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return State{PageNo: 1, PageSize: pageSize}
}

// Previous steps back one page, floored at page 1. It always asks for a
// fetch, even when already at page 1.
func (s State) Previous() (State, FetchIntent) {
	next := s
	if next.PageNo > 1 {
		next.PageNo--
	}
	return next, FetchIntent{PageNo: next.PageNo, PageSize: next.PageSize}
}

// Next advances one page, but only when the last fetch returned something;
// stepping past a page that came back empty is refused.
func (s State) Next() (State, FetchIntent, bool) {
	if s.LastCount <= 0 {
		return s, FetchIntent{}, false
	}
	next := s
	next.PageNo++
	return next, FetchIntent{PageNo: next.PageNo, PageSize: next.PageSize}, true
}

// Goto jumps to page n, clamped to ≥1.
func (s State) Goto(n int) (State, FetchIntent) {
	if n < 1 {
		n = 1
	}
	next := s
	next.PageNo = n
	return next, FetchIntent{PageNo: n, PageSize: next.PageSize}
}

// Apply reconciles the state with a server-reported page.
func (s State) Apply(reported domain.PageInfo) State {
	next := s
	if reported.PageNo >= 1 {
		next.PageNo = reported.PageNo
	}
	if reported.PageSize > 0 {
		next.PageSize = reported.PageSize
	}
	next.LastCount = reported.Count
	return next
}

// NavState is the derived previous/next control state.
type NavState struct {
	PrevEnabled bool
	NextEnabled bool
}

// Navigation derives control state from a reported page.
//
// An empty non-first page means we stepped past the end; it is treated as
// "not at end unless explicitly short", so next stays enabled only when the
// page was full. No total count exists, so a full tail page still shows next
// enabled and the following fetch comes back empty.
func Navigation(p domain.PageInfo) NavState {
	if p.Count == 0 {
		if p.PageNo <= 1 {
			return NavState{PrevEnabled: false, NextEnabled: false}
		}
		return NavState{PrevEnabled: true, NextEnabled: p.Count >= p.PageSize}
	}
	if p.PageNo <= 1 {
		return NavState{PrevEnabled: false, NextEnabled: true}
	}
	return NavState{PrevEnabled: true, NextEnabled: true}
}

// Pager binds the cursor to one account and the daemon. At most one tx/list
// call is in flight at a time; a fetch that fails leaves cursor and rows
// untouched.
type Pager struct {
	client txAPI
	logger *zap.Logger

	mu    sync.Mutex
	pk    string
	state State
	rows  []domain.Transaction
	nav   NavState
}

// NewPager creates a pager with an empty account selection; ticks are no-ops
// until SetAccount is called.
func NewPager(client txAPI, pageSize int, logger *zap.Logger) *Pager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pager{
		client: client,
		logger: logger.With(zap.String("component", "txhistory")),
		state:  NewState(pageSize),
	}
}

// SetAccount switches the pager to another account and resets to page 1.
func (p *Pager) SetAccount(pk string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pk == pk {
		return
	}
	p.pk = pk
	p.state = NewState(p.state.PageSize)
	p.rows = nil
	p.nav = NavState{}
}

// Account returns the currently selected account PK.
func (p *Pager) Account() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pk
}

// Refresh re-fetches the current page, used by the sync tick.
func (p *Pager) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	target := p.state
	return p.fetch(ctx, target, FetchIntent{PageNo: target.PageNo, PageSize: target.PageSize})
}

// Previous moves to the prior page. At page 1 it stays there but still
// re-fetches.
func (p *Pager) Previous(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	target, intent := p.state.Previous()
	return p.fetch(ctx, target, intent)
}

// Next advances a page when the current page had items; otherwise it does
// nothing.
func (p *Pager) Next(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	target, intent, ok := p.state.Next()
	if !ok {
		return nil
	}
	return p.fetch(ctx, target, intent)
}

// GotoPage jumps to page n (clamped to ≥1) and fetches it.
func (p *Pager) GotoPage(ctx context.Context, n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	target, intent := p.state.Goto(n)
	return p.fetch(ctx, target, intent)
}

// fetch runs with p.mu held, which serializes tx/list calls per pager.
func (p *Pager) fetch(ctx context.Context, target State, intent FetchIntent) error {
	if p.pk == "" {
		return nil
	}

	txs, reported, err := p.client.TxList(ctx, p.pk, domain.PageInfo{
		PageNo:   intent.PageNo,
		PageSize: intent.PageSize,
	})
	if err != nil {
		p.logger.Warn("tx list fetch failed",
			zap.Int("page_no", intent.PageNo),
			zap.Error(err))
		return err
	}

	p.state = target.Apply(reported)
	p.rows = txs
	p.nav = Navigation(reported)
	return nil
}

// View assembles the history view-model for the renderer.
func (p *Pager) View() domain.HistoryView {
	p.mu.Lock()
	defer p.mu.Unlock()

	rows := make([]domain.TransactionRow, 0, len(p.rows))
	for _, tx := range p.rows {
		status := "Completed"
		if tx.Pending() {
			status = "Pending"
		}
		rows = append(rows, domain.TransactionRow{
			Hash:        tx.Hash,
			ShortHash:   domain.Abbreviate(tx.Hash, 5),
			BlockNumber: tx.BlockNumber,
			Address:     domain.Abbreviate(tx.Address, 5),
			Currency:    tx.Currency,
			Status:      status,
			Amount:      tx.Value.ToDisplay().DisplayString(),
		})
	}

	return domain.HistoryView{
		PageNo:      p.state.PageNo,
		Rows:        rows,
		PrevEnabled: p.nav.PrevEnabled,
		NextEnabled: p.nav.NextEnabled,
	}
}
