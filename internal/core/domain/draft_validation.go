package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationContext carries what a draft needs from the outside world to be
// validated: the resolved balance of the sent coin/token and the chain rules
// exposed by the RPC collaborator.
type ValidationContext struct {
	// Balance is the last known balance, in nano units, of the coin or token
	// being sent.
	Balance         int64
	ValidateAddress func(address string) bool
	BurnAddress     string
	// MinFeePerKb and EstimatedTxSizeKb drive the fee-rate sanity check,
	// which is skipped if either is zero.
	MinFeePerKb       decimal.Decimal
	EstimatedTxSizeKb decimal.Decimal
}

// Validate checks the draft and returns the list of soft warnings. The first
// blocking failure is returned as a *ValidationError and aborts the checks.
func (d *TransactionDraft) Validate(ctx ValidationContext) ([]string, error) {
	amount, err := d.validateAmount()
	if err != nil {
		return nil, err
	}

	if err := d.validateRecipient(ctx); err != nil {
		return nil, err
	}

	if d.IsStake() {
		if err := d.validateStake(ctx, amount); err != nil {
			return nil, err
		}
	}

	if ToNano(amount) >= ctx.Balance {
		return nil, newValidationError(
			ErrInsufficientFunds,
			fmt.Sprintf(
				"insufficient funds: amount %s must be lower than balance %s",
				amount, FromNano(maxInt64(ctx.Balance, 0)),
			),
		)
	}

	fee, err := d.parseFee()
	if err != nil {
		return nil, err
	}

	warnings := make([]string, 0)
	if !d.FeeEstimated {
		warnings = append(warnings, "fee has not been estimated for the current values")
	}
	if fee.LessThan(d.MinFee) {
		warnings = append(warnings, fmt.Sprintf(
			"fee %s is lower than the estimated minimum fee %s", fee, d.MinFee,
		))
	}
	if !ctx.MinFeePerKb.IsZero() && ctx.EstimatedTxSizeKb.IsPositive() {
		if fee.Div(ctx.EstimatedTxSizeKb).LessThan(ctx.MinFeePerKb) {
			warnings = append(warnings, fmt.Sprintf(
				"fee rate is lower than the network minimum of %s per KB",
				ctx.MinFeePerKb,
			))
		}
	}

	return warnings, nil
}

func (d *TransactionDraft) validateAmount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return decimal.Zero, newValidationError(
			ErrInvalidAmount, fmt.Sprintf("amount %q is not a number", d.Amount),
		)
	}
	if !amount.IsPositive() {
		return decimal.Zero, newValidationError(
			ErrInvalidAmount, "amount must be greater than zero",
		)
	}
	if amount.LessThan(NanoUnit) {
		return decimal.Zero, newValidationError(
			ErrAmountBelowMinimum,
			fmt.Sprintf("amount must be at least %s", NanoUnit),
		)
	}
	if !IsNanoAmount(amount) {
		return decimal.Zero, newValidationError(
			ErrInvalidAmount,
			fmt.Sprintf("amount %s is out of range or exceeds 9 decimals", amount),
		)
	}
	return amount, nil
}

func (d *TransactionDraft) validateRecipient(ctx ValidationContext) error {
	if d.ToAddress == "" {
		return newValidationError(ErrMissingRecipient, "")
	}
	if ctx.ValidateAddress != nil && !ctx.ValidateAddress(d.ToAddress) {
		return newValidationError(
			ErrInvalidRecipient,
			fmt.Sprintf("recipient address %s is not valid", d.ToAddress),
		)
	}
	return nil
}

func (d *TransactionDraft) validateStake(
	ctx ValidationContext, amount decimal.Decimal,
) error {
	if d.ToAddress != ctx.BurnAddress {
		return newValidationError(ErrNotBurnAddress, "")
	}

	required := d.stakeAmounts[d.Stake.Tier]
	if !amount.Equal(required) {
		return newValidationError(
			ErrInvalidStakeAmount,
			fmt.Sprintf(
				"amount for %s staking must be exactly %s", d.Stake.Tier, required,
			),
		)
	}

	missing := ""
	switch {
	case d.Stake.CandidatePaymentAddress == "":
		missing = FieldCandidatePaymentAddress.String()
	case d.Stake.CandidateMiningSeedKey == "":
		missing = FieldCandidateMiningSeedKey.String()
	case d.Stake.RewardReceiverPaymentAddress == "":
		missing = FieldRewardReceiverPaymentAddress.String()
	}
	if missing != "" {
		return newValidationError(
			ErrMissingStakeField, fmt.Sprintf("%s is required", missing),
		)
	}
	return nil
}

func (d *TransactionDraft) parseFee() (decimal.Decimal, error) {
	if d.Fee == "" {
		return decimal.Zero, nil
	}
	fee, err := decimal.NewFromString(d.Fee)
	if err != nil || fee.IsNegative() {
		return decimal.Zero, newValidationError(
			ErrInvalidFee, fmt.Sprintf("fee %q must be a number >= 0", d.Fee),
		)
	}
	if !IsNanoAmount(fee) {
		return decimal.Zero, newValidationError(
			ErrInvalidFee,
			fmt.Sprintf("fee %s is out of range or exceeds 9 decimals", fee),
		)
	}
	return fee, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
