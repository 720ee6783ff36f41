package domain

import "github.com/serolight/walletdash/pkg/numeric"

// Transaction is one history entry, immutable once returned by the daemon.
// Identified by hash.
type Transaction struct {
	Hash        string
	BlockNumber uint64 // 0 = pending, >0 = included
	Address     string // counterparty PKR
	Currency    string
	Value       numeric.Value // base units
}

// Pending reports whether the transaction has not yet been included in a block.
func (t Transaction) Pending() bool {
	return t.BlockNumber == 0
}

// PageInfo describes one page of a paginated list as reported by the daemon.
// Count is the number of items returned in this response, not a total.
type PageInfo struct {
	PageNo   int `json:"page_no"`
	PageSize int `json:"page_size"`
	Count    int `json:"count"`
}
