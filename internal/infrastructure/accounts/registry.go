package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
)

type accountInfo struct {
	domain.Account
	FollowingTokens []string `json:"followingTokens,omitempty"`
}

type accountsFile struct {
	Accounts []accountInfo `json:"accounts"`
}

type registry struct {
	accounts map[string]accountInfo
}

// NewFileRegistry loads the accounts exported by the wallet from the given
// JSON file.
func NewFileRegistry(path string) (ports.AccountRegistry, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}
	return NewRegistryFromJSON(buf)
}

// NewRegistryFromJSON parses the content of an accounts file.
func NewRegistryFromJSON(buf []byte) (ports.AccountRegistry, error) {
	file := accountsFile{}
	if err := json.Unmarshal(buf, &file); err != nil {
		return nil, fmt.Errorf("invalid accounts file: %w", err)
	}

	accounts := make(map[string]accountInfo, len(file.Accounts))
	for i, a := range file.Accounts {
		if a.Name == "" {
			return nil, fmt.Errorf("account %d: missing name", i)
		}
		if a.PaymentAddress == "" {
			return nil, fmt.Errorf("account %s: missing payment address", a.Name)
		}
		if _, ok := accounts[a.Name]; ok {
			return nil, fmt.Errorf("duplicated account %s", a.Name)
		}
		accounts[a.Name] = a
	}
	return &registry{accounts}, nil
}

func (r *registry) ListAccounts(_ context.Context) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, a.Account)
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Name < accounts[j].Name
	})
	return accounts, nil
}

func (r *registry) GetAccount(
	_ context.Context, name string,
) (*domain.Account, error) {
	a, ok := r.accounts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, name)
	}
	account := a.Account
	return &account, nil
}

func (r *registry) FollowingTokens(
	_ context.Context, accountName string,
) ([]string, error) {
	a, ok := r.accounts[accountName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountName)
	}
	return append([]string{}, a.FollowingTokens...), nil
}
