package balance_test

import (
	"context"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

type mockRPC struct {
	mock.Mock
}

func (m *mockRPC) EstimateFee(
	ctx context.Context, from domain.Account, to string, amount int64,
	tokenID string, privacy bool,
) (int64, error) {
	args := m.Called(ctx, from, to, amount, tokenID, privacy)

	var res int64
	if a := args.Get(0); a != nil {
		res = a.(int64)
	}
	return res, args.Error(1)
}

func (m *mockRPC) EstimateStakingAmount(
	ctx context.Context, tier domain.StakeTier,
) (int64, error) {
	args := m.Called(ctx, tier)

	var res int64
	if a := args.Get(0); a != nil {
		res = a.(int64)
	}
	return res, args.Error(1)
}

func (m *mockRPC) GetBalance(
	ctx context.Context, account domain.Account, tokenID string,
) (int64, error) {
	args := m.Called(ctx, account, tokenID)

	var res int64
	if a := args.Get(0); a != nil {
		res = a.(int64)
	}
	return res, args.Error(1)
}

func (m *mockRPC) SubmitSend(
	ctx context.Context, params ports.SendParams,
) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockRPC) SubmitStake(
	ctx context.Context, params ports.StakeParams,
) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockRPC) ValidateAddress(address string) bool {
	args := m.Called(address)
	return args.Bool(0)
}

func (m *mockRPC) BurnAddress() string {
	args := m.Called()
	return args.String(0)
}

type mockAccountRegistry struct {
	mock.Mock
}

func (m *mockAccountRegistry) ListAccounts(
	ctx context.Context,
) ([]domain.Account, error) {
	args := m.Called(ctx)

	var res []domain.Account
	if a := args.Get(0); a != nil {
		res = a.([]domain.Account)
	}
	return res, args.Error(1)
}

func (m *mockAccountRegistry) GetAccount(
	ctx context.Context, name string,
) (*domain.Account, error) {
	args := m.Called(ctx, name)

	var res *domain.Account
	if a := args.Get(0); a != nil {
		res = a.(*domain.Account)
	}
	return res, args.Error(1)
}

func (m *mockAccountRegistry) FollowingTokens(
	ctx context.Context, accountName string,
) ([]string, error) {
	args := m.Called(ctx, accountName)

	var res []string
	if a := args.Get(0); a != nil {
		res = a.([]string)
	}
	return res, args.Error(1)
}
