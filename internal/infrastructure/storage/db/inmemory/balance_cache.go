package inmemory

import (
	"sync"
	"time"

	"github.com/prvwallet/prvwallet/internal/core/domain"
)

// BalanceCache is the process-wide store of the last known balances. Entries
// are replaced atomically, the last write wins.
type BalanceCache struct {
	entries map[domain.BalanceKey]domain.BalanceEntry

	lock *sync.RWMutex
}

func NewBalanceCache() *BalanceCache {
	return &BalanceCache{
		entries: map[domain.BalanceKey]domain.BalanceEntry{},
		lock:    &sync.RWMutex{},
	}
}

func (c *BalanceCache) Get(accountName, tokenID string) int64 {
	c.lock.RLock()
	defer c.lock.RUnlock()

	entry, ok := c.entries[domain.BalanceKey{
		AccountName: accountName, TokenID: tokenID,
	}]
	if !ok {
		return domain.UnknownBalance
	}
	return entry.Amount
}

func (c *BalanceCache) Save(accountName, tokenID string, amount int64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	entry := domain.BalanceEntry{
		AccountName:   accountName,
		TokenID:       tokenID,
		Amount:        amount,
		LastFetchedAt: time.Now(),
	}
	c.entries[entry.Key()] = entry
}

func (c *BalanceCache) Clear(accountName, tokenID string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.entries, domain.BalanceKey{
		AccountName: accountName, TokenID: tokenID,
	})
}

func (c *BalanceCache) ClearAll(accountNames ...string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	names := make(map[string]struct{}, len(accountNames))
	for _, name := range accountNames {
		names[name] = struct{}{}
	}
	for key := range c.entries {
		if _, ok := names[key.AccountName]; ok {
			delete(c.entries, key)
		}
	}
}

func (c *BalanceCache) Entries() []domain.BalanceEntry {
	c.lock.RLock()
	defer c.lock.RUnlock()

	entries := make([]domain.BalanceEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	return entries
}
