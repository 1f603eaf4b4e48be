package domain

import "time"

// BalanceKey identifies a cached balance. An empty TokenID refers to the
// native coin.
type BalanceKey struct {
	AccountName string
	TokenID     string
}

func (k BalanceKey) IsNative() bool {
	return k.TokenID == NativeToken
}

// BalanceEntry is the last known balance of an account for a token, in nano
// units.
type BalanceEntry struct {
	AccountName   string
	TokenID       string
	Amount        int64
	LastFetchedAt time.Time
}

func NewBalanceEntry(accountName, tokenID string, amount int64) BalanceEntry {
	return BalanceEntry{
		AccountName:   accountName,
		TokenID:       tokenID,
		Amount:        amount,
		LastFetchedAt: time.Now(),
	}
}

func (e BalanceEntry) Key() BalanceKey {
	return BalanceKey{e.AccountName, e.TokenID}
}

// IsKnown returns false for entries still waiting for a fetch to complete.
func (e BalanceEntry) IsKnown() bool {
	return e.Amount != UnknownBalance
}
