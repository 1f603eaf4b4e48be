package ports

import (
	"context"

	"github.com/prvwallet/prvwallet/internal/core/domain"
)

// AccountRegistry gives access to the accounts derived by the wallet and to
// the tokens each of them follows.
type AccountRegistry interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	GetAccount(ctx context.Context, name string) (*domain.Account, error)
	FollowingTokens(ctx context.Context, accountName string) ([]string, error)
}
