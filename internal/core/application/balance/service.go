package balance

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Service resolves balances through the cache, fetching them from the RPC
// collaborator only when unknown.
type Service struct {
	rpc      ports.WalletRPC
	cache    ports.BalanceCache
	accounts ports.AccountRegistry
}

func NewService(
	rpc ports.WalletRPC, cache ports.BalanceCache, accounts ports.AccountRegistry,
) (*Service, error) {
	if rpc == nil {
		return nil, fmt.Errorf("missing rpc client")
	}
	if cache == nil {
		return nil, fmt.Errorf("missing balance cache")
	}
	if accounts == nil {
		return nil, fmt.Errorf("missing account registry")
	}
	return &Service{rpc, cache, accounts}, nil
}

func (s *Service) Cache() ports.BalanceCache {
	return s.cache
}

// GetBalance returns the cached balance, if known, or fetches and caches it.
func (s *Service) GetBalance(
	ctx context.Context, account domain.Account, tokenID string,
) (int64, error) {
	if amount := s.cache.Get(account.Name, tokenID); amount != domain.UnknownBalance {
		return amount, nil
	}

	amount, err := s.rpc.GetBalance(ctx, account, tokenID)
	if err != nil {
		return domain.UnknownBalance, err
	}
	s.cache.Save(account.Name, tokenID, amount)

	log.WithFields(log.Fields{
		"account": account.Name,
		"token":   tokenID,
	}).Debug("balance fetched")
	return amount, nil
}

// GetAccountBalance is like GetBalance but looks the account up by name.
func (s *Service) GetAccountBalance(
	ctx context.Context, accountName, tokenID string,
) (domain.BalanceEntry, error) {
	account, err := s.accounts.GetAccount(ctx, accountName)
	if err != nil {
		return domain.BalanceEntry{}, err
	}
	amount, err := s.GetBalance(ctx, *account, tokenID)
	if err != nil {
		return domain.BalanceEntry{}, err
	}
	return domain.BalanceEntry{
		AccountName:   accountName,
		TokenID:       tokenID,
		Amount:        amount,
		LastFetchedAt: time.Now(),
	}, nil
}

// RefreshAll drops and refetches the native and followed token balances of
// every account concurrently.
func (s *Service) RefreshAll(ctx context.Context) ([]domain.BalanceEntry, error) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	lock := &sync.Mutex{}
	entries := make([]domain.BalanceEntry, 0, len(accounts))

	eg, ctx := errgroup.WithContext(ctx)
	for i := range accounts {
		account := accounts[i]
		tokens, err := s.accounts.FollowingTokens(ctx, account.Name)
		if err != nil {
			return nil, err
		}
		tokens = append([]string{domain.NativeToken}, tokens...)

		for _, token := range tokens {
			token := token
			eg.Go(func() error {
				s.cache.Clear(account.Name, token)
				amount, err := s.GetBalance(ctx, account, token)
				if err != nil {
					return fmt.Errorf(
						"failed to refresh balance of %s: %w", account.Name, err,
					)
				}
				lock.Lock()
				entries = append(
					entries, domain.NewBalanceEntry(account.Name, token, amount),
				)
				lock.Unlock()
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AccountName == entries[j].AccountName {
			return entries[i].TokenID < entries[j].TokenID
		}
		return entries[i].AccountName < entries[j].AccountName
	})
	return entries, nil
}

// ForgetAccount drops every cached balance of the given account.
func (s *Service) ForgetAccount(_ context.Context, accountName string) {
	s.cache.ClearAll(accountName)
}

// InvalidateAll drops every cached balance of every known account.
func (s *Service) InvalidateAll(ctx context.Context) error {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		names = append(names, a.Name)
	}
	s.cache.ClearAll(names...)
	return nil
}
