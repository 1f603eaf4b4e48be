package draft

import (
	"context"
	"fmt"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Coordinator packages a confirmed draft into the shape expected by the RPC
// collaborator and maps the response to a domain.SubmissionResult. It never
// retries: a transaction submission is not idempotent.
type Coordinator struct {
	rpc     ports.WalletRPC
	metrics ports.Metrics
}

func NewCoordinator(rpc ports.WalletRPC, metrics ports.Metrics) (*Coordinator, error) {
	if rpc == nil {
		return nil, fmt.Errorf("missing rpc client")
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &Coordinator{rpc, metrics}, nil
}

func (c *Coordinator) Submit(
	ctx context.Context, account domain.Account, draft domain.TransactionDraft,
) domain.SubmissionResult {
	result := c.submit(ctx, account, draft)

	outcome := ports.SubmissionSucceeded
	entry := log.WithFields(log.Fields{
		"account": account.Name,
		"kind":    draft.Kind.String(),
	})
	if result.IsSuccess() {
		entry.WithField("txid", result.TxID).Info("transaction submitted")
	} else {
		outcome = ports.SubmissionFailed
		entry.WithError(result.Reason).Warn("transaction submission failed")
	}
	c.metrics.ObserveSubmission(draft.Kind.String(), outcome)

	return result
}

func (c *Coordinator) submit(
	ctx context.Context, account domain.Account, draft domain.TransactionDraft,
) domain.SubmissionResult {
	amount, err := decimal.NewFromString(draft.Amount)
	if err != nil {
		return domain.NewFailureResult(domain.ErrInvalidAmount)
	}
	fee := decimal.Zero
	if draft.Fee != "" {
		if fee, err = decimal.NewFromString(draft.Fee); err != nil {
			return domain.NewFailureResult(domain.ErrInvalidFee)
		}
	}

	var txid string
	if draft.IsStake() {
		txid, err = c.rpc.SubmitStake(ctx, ports.StakeParams{
			From:                         account,
			BurnAddress:                  draft.ToAddress,
			Amount:                       domain.ToNano(amount),
			Fee:                          domain.ToNano(fee),
			Tier:                         draft.Stake.Tier,
			CandidatePaymentAddress:      draft.Stake.CandidatePaymentAddress,
			CandidateMiningSeedKey:       draft.Stake.CandidateMiningSeedKey,
			RewardReceiverPaymentAddress: draft.Stake.RewardReceiverPaymentAddress,
			AutoReStaking:                draft.Stake.AutoReStaking,
		})
	} else {
		txid, err = c.rpc.SubmitSend(ctx, ports.SendParams{
			From:    account,
			To:      draft.ToAddress,
			Amount:  domain.ToNano(amount),
			Fee:     domain.ToNano(fee),
			TokenID: draft.TokenID,
			Privacy: draft.Privacy,
		})
	}
	if err != nil {
		return domain.NewFailureResult(err)
	}
	if txid == "" {
		return domain.NewFailureResult(domain.ErrMissingTxID)
	}
	return domain.NewSuccessResult(txid)
}
