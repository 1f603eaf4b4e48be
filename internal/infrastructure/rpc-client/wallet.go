package rpcclient

import (
	"context"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
)

// version byte + public keys + 4 bytes of checksum.
const minPaymentAddressLen = 1 + 64 + 4

func (c *Client) EstimateFee(
	ctx context.Context, from domain.Account, _ string, _ int64,
	tokenID string, _ bool,
) (int64, error) {
	var res feeEstimation
	if err := c.call(ctx, "estimatefeewithestimator", []interface{}{
		defaultFeePerKb, from.PaymentAddress, numBlocks, tokenID,
	}, &res); err != nil {
		return 0, err
	}

	size := res.EstimateTxSizeInKb
	if size <= 0 {
		size = 1
	}
	return res.EstimateFeeCoinPerKb * size, nil
}

func (c *Client) EstimateStakingAmount(
	ctx context.Context, tier domain.StakeTier,
) (int64, error) {
	var amount int64
	if err := c.call(
		ctx, "getstakingamount", []interface{}{int(tier)}, &amount,
	); err != nil {
		return 0, err
	}
	return amount, nil
}

func (c *Client) GetBalance(
	ctx context.Context, account domain.Account, tokenID string,
) (int64, error) {
	method := "getbalancebyprivatekey"
	params := []interface{}{account.PrivateKey}
	if tokenID != domain.NativeToken {
		method = "getbalanceprivacycustomtoken"
		params = append(params, tokenID)
	}

	var amount int64
	if err := c.call(ctx, method, params, &amount); err != nil {
		return domain.UnknownBalance, err
	}
	return amount, nil
}

func (c *Client) SubmitSend(
	ctx context.Context, params ports.SendParams,
) (string, error) {
	method := "createandsendtransaction"
	args := []interface{}{
		params.From.PrivateKey,
		map[string]int64{params.To: params.Amount},
		params.Fee,
		privacyFlag(params.Privacy),
	}
	if params.TokenID != domain.NativeToken {
		method = "createandsendprivacycustomtokentransaction"
		args[1] = map[string]int64{}
		args = append(args, tokenParams{
			Privacy:        params.Privacy,
			TokenID:        params.TokenID,
			TokenTxType:    customTokenTransfer,
			TokenReceivers: map[string]int64{params.To: params.Amount},
		})
	}

	return c.submit(ctx, method, args)
}

func (c *Client) SubmitStake(
	ctx context.Context, params ports.StakeParams,
) (string, error) {
	stakingType := stakingTypeShard
	if params.Tier == domain.TierBeacon {
		stakingType = stakingTypeBeacon
	}

	return c.submit(ctx, "createandsendstakingtransaction", []interface{}{
		params.From.PrivateKey,
		map[string]int64{params.BurnAddress: params.Amount},
		params.Fee,
		privacyFlag(false),
		stakingParams{
			StakingType:                  stakingType,
			CandidatePaymentAddress:      params.CandidatePaymentAddress,
			PrivateSeed:                  params.CandidateMiningSeedKey,
			RewardReceiverPaymentAddress: params.RewardReceiverPaymentAddress,
			AutoReStaking:                params.AutoReStaking,
		},
	})
}

func (c *Client) submit(
	ctx context.Context, method string, args []interface{},
) (string, error) {
	var res txResult
	if err := c.call(ctx, method, args, &res); err != nil {
		return "", err
	}
	return res.TxID, nil
}

// ValidateAddress checks that the address is base58 encoded and long enough
// to carry the public keys of a payment address.
func (c *Client) ValidateAddress(address string) bool {
	if address == "" {
		return false
	}
	decoded := base58.Decode(address)
	return len(decoded) >= minPaymentAddressLen
}

func (c *Client) BurnAddress() string {
	return c.burnAddress
}
