package ports

import "github.com/prvwallet/prvwallet/internal/core/domain"

// BalanceCache stores the last known balances of the accounts, in nano
// units. It never fetches nor expires entries by itself: callers resolve
// Unknown entries through the RPC collaborator and invalidate explicitly.
type BalanceCache interface {
	// Get returns the cached amount or domain.UnknownBalance.
	Get(accountName, tokenID string) int64
	// Save upserts the entry, last write wins.
	Save(accountName, tokenID string, amount int64)
	// Clear removes one entry.
	Clear(accountName, tokenID string)
	// ClearAll removes every entry, native and tokens, of the given accounts.
	ClearAll(accountNames ...string)
	// Entries returns a copy of all the known entries.
	Entries() []domain.BalanceEntry
}
