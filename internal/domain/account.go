package domain

import "github.com/serolight/walletdash/pkg/numeric"

// Account is an immutable snapshot of one wallet account as reported by the
// daemon. Each poll replaces the snapshot wholesale; nothing is merged.
type Account struct {
	PK         string
	PkrBase58  []string
	Currencies []string // balance currencies in daemon response order
	Balances   map[string]numeric.Value
}

// ReceiveAddress returns the preferred display address: the most recently
// derived PKR, which the daemon reports last. Earlier entries remain valid
// but are historical.
func (a Account) ReceiveAddress() string {
	if len(a.PkrBase58) == 0 {
		return ""
	}
	return a.PkrBase58[len(a.PkrBase58)-1]
}

// BalanceOf returns the base-unit balance for the currency, zero if the
// account does not carry it.
func (a Account) BalanceOf(currency string) numeric.Value {
	if v, ok := a.Balances[currency]; ok {
		return v
	}
	return numeric.Zero()
}

// BalanceTotal is one currency's balance summed across all accounts, in
// display units. Recomputed every aggregation cycle, never persisted.
type BalanceTotal struct {
	Currency string
	Total    numeric.Value
}

// Display renders the total at display precision with its currency symbol.
func (t BalanceTotal) Display() string {
	return t.Total.DisplayString() + " " + t.Currency
}
