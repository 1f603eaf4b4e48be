package ports

import (
	"context"
	"errors"

	"github.com/prvwallet/prvwallet/internal/core/domain"
)

// ErrNetwork wraps every failure of the RPC collaborator that is not a
// problem with the user's input.
var ErrNetwork = errors.New("network error")

// SendParams is the shape of a send submission. Amount and Fee are in nano
// units.
type SendParams struct {
	From    domain.Account
	To      string
	Amount  int64
	Fee     int64
	TokenID string
	Privacy bool
}

// StakeParams is the shape of a stake submission. Amount and Fee are in nano
// units.
type StakeParams struct {
	From                         domain.Account
	BurnAddress                  string
	Amount                       int64
	Fee                          int64
	Tier                         domain.StakeTier
	CandidatePaymentAddress      string
	CandidateMiningSeedKey       string
	RewardReceiverPaymentAddress string
	AutoReStaking                bool
}

// WalletRPC is the contract of the node/SDK collaborator that estimates fees,
// fetches balances and signs and broadcasts transactions. Amounts are in nano
// units.
type WalletRPC interface {
	EstimateFee(
		ctx context.Context, from domain.Account, to string, amount int64,
		tokenID string, privacy bool,
	) (int64, error)
	EstimateStakingAmount(ctx context.Context, tier domain.StakeTier) (int64, error)
	GetBalance(ctx context.Context, account domain.Account, tokenID string) (int64, error)
	SubmitSend(ctx context.Context, params SendParams) (string, error)
	SubmitStake(ctx context.Context, params StakeParams) (string, error)
	ValidateAddress(address string) bool
	BurnAddress() string
}

// ServerSwitcher is implemented by RPC collaborators that can be re-pointed
// to a different node at runtime.
type ServerSwitcher interface {
	SwitchServer(server domain.Server) error
}
