package inmemory_test

import (
	"sync"
	"testing"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/infrastructure/storage/db/inmemory"
	"github.com/stretchr/testify/require"
)

const tokenID = "ffd8d42dc40a8d166ea4848baf8b5f6e9fe0e9c30d60062eb7d44a8df9e00854"

func TestBalanceCache(t *testing.T) {
	t.Parallel()

	t.Run("unknown entries", func(t *testing.T) {
		cache := inmemory.NewBalanceCache()
		require.Equal(t, domain.UnknownBalance, cache.Get("Account 1", domain.NativeToken))
		require.Equal(t, domain.UnknownBalance, cache.Get("Account 1", tokenID))
	})

	t.Run("save overwrites", func(t *testing.T) {
		cache := inmemory.NewBalanceCache()
		cache.Save("Account 1", domain.NativeToken, 100)
		cache.Save("Account 1", domain.NativeToken, 50)
		require.Equal(t, int64(50), cache.Get("Account 1", domain.NativeToken))
		require.Len(t, cache.Entries(), 1)
	})

	t.Run("clear forces unknown", func(t *testing.T) {
		cache := inmemory.NewBalanceCache()
		cache.Save("Account 1", domain.NativeToken, 100)
		cache.Save("Account 1", tokenID, 10)

		cache.Clear("Account 1", domain.NativeToken)
		require.Equal(t, domain.UnknownBalance, cache.Get("Account 1", domain.NativeToken))
		require.Equal(t, int64(10), cache.Get("Account 1", tokenID))

		cache.Save("Account 1", domain.NativeToken, 100)
		cache.Clear("Account 1", domain.NativeToken)
		require.Equal(t, domain.UnknownBalance, cache.Get("Account 1", domain.NativeToken))
	})

	t.Run("clear all", func(t *testing.T) {
		cache := inmemory.NewBalanceCache()
		cache.Save("Account 1", domain.NativeToken, 100)
		cache.Save("Account 1", tokenID, 10)
		cache.Save("Account 2", domain.NativeToken, 200)
		cache.Save("Account 3", domain.NativeToken, 300)

		cache.ClearAll("Account 1", "Account 2")
		require.Equal(t, domain.UnknownBalance, cache.Get("Account 1", domain.NativeToken))
		require.Equal(t, domain.UnknownBalance, cache.Get("Account 1", tokenID))
		require.Equal(t, domain.UnknownBalance, cache.Get("Account 2", domain.NativeToken))
		require.Equal(t, int64(300), cache.Get("Account 3", domain.NativeToken))
	})

	t.Run("concurrent access", func(t *testing.T) {
		cache := inmemory.NewBalanceCache()
		wg := &sync.WaitGroup{}
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				cache.Save("Account 1", domain.NativeToken, int64(i))
				cache.Get("Account 1", domain.NativeToken)
			}(i)
		}
		wg.Wait()

		balance := cache.Get("Account 1", domain.NativeToken)
		require.GreaterOrEqual(t, balance, int64(0))
		require.Less(t, balance, int64(50))
	})
}
