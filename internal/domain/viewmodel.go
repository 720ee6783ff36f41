package domain

import "time"

// View-models handed to the renderer. All amounts are preformatted display
// strings; the renderer never does currency math.

// AccountCard is one account tile on the dashboard.
type AccountCard struct {
	PK             string `json:"pk"`
	ShortPK        string `json:"short_pk"`
	ReceiveAddress string `json:"receive_address"`
	Balance        string `json:"balance"` // native currency, display units
}

// CurrencyTotal is one aggregated balance line.
type CurrencyTotal struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

// DashboardView is the top-level account overview.
type DashboardView struct {
	Timestamp   time.Time       `json:"ts"`
	Totals      []CurrencyTotal `json:"totals"`
	Accounts    []AccountCard   `json:"accounts"`
	BlockHeight uint64          `json:"block_height"`
}

// TransactionRow is one rendered history entry.
type TransactionRow struct {
	Hash        string `json:"hash"`
	ShortHash   string `json:"short_hash"`
	BlockNumber uint64 `json:"block_number"`
	Address     string `json:"address"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
	Amount      string `json:"amount"`
}

// HistoryView is one page of transaction history with navigation state.
type HistoryView struct {
	PageNo      int              `json:"page_no"`
	Rows        []TransactionRow `json:"rows"`
	PrevEnabled bool             `json:"prev_enabled"`
	NextEnabled bool             `json:"next_enabled"`
}

// FeePreview is the computed fee and total for the transfer form.
type FeePreview struct {
	Fee   string `json:"fee"`
	Total string `json:"total"`
}

// Abbreviate shortens an identifier to its first and last n characters,
// the form the dashboard shows for PKs and hashes.
func Abbreviate(s string, n int) string {
	if len(s) <= 2*n {
		return s
	}
	return s[:n] + " ... " + s[len(s)-n:]
}
