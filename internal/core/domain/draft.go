package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DraftKind tells whether a draft sends coins/tokens or stakes them.
type DraftKind int

const (
	DraftSend DraftKind = iota
	DraftStake
)

func (k DraftKind) String() string {
	if k == DraftStake {
		return "stake"
	}
	return "send"
}

// StakeTier is the validator class a stake draft is for.
type StakeTier int

const (
	TierShard StakeTier = iota
	TierBeacon
)

func (t StakeTier) String() string {
	if t == TierBeacon {
		return "beacon"
	}
	return "shard"
}

// ParseStakeTier accepts both the numeric (0, 1) and the named (shard,
// beacon) form of a tier.
func ParseStakeTier(s string) (StakeTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "shard":
		return TierShard, nil
	case "1", "beacon":
		return TierBeacon, nil
	default:
		return -1, ErrInvalidStakeTier
	}
}

// DraftState is the state of the confirmation/submission flow of a draft.
type DraftState int

const (
	StateEditing DraftState = iota
	StateConfirming
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s DraftState) String() string {
	switch s {
	case StateConfirming:
		return "confirming"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "editing"
	}
}

// DraftField identifies a user-editable field of a draft.
type DraftField int

const (
	FieldToAddress DraftField = iota
	FieldAmount
	FieldTokenID
	FieldPrivacy
	FieldFee
	FieldStakeTier
	FieldCandidatePaymentAddress
	FieldCandidateMiningSeedKey
	FieldRewardReceiverPaymentAddress
	FieldAutoReStaking
)

var fieldNames = map[DraftField]string{
	FieldToAddress:                    "toAddress",
	FieldAmount:                       "amount",
	FieldTokenID:                      "tokenId",
	FieldPrivacy:                      "privacy",
	FieldFee:                          "fee",
	FieldStakeTier:                    "stakingType",
	FieldCandidatePaymentAddress:      "candidatePaymentAddress",
	FieldCandidateMiningSeedKey:       "candidateMiningSeedKey",
	FieldRewardReceiverPaymentAddress: "rewardReceiverPaymentAddress",
	FieldAutoReStaking:                "autoReStaking",
}

func (f DraftField) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// IsWatched returns whether editing the field invalidates the estimated fee.
func (f DraftField) IsWatched() bool {
	switch f {
	case FieldToAddress, FieldAmount, FieldTokenID, FieldPrivacy, FieldStakeTier:
		return true
	default:
		return false
	}
}

// StakeFields are the stake-only fields of a draft.
type StakeFields struct {
	Tier                         StakeTier
	CandidatePaymentAddress      string
	CandidateMiningSeedKey       string
	RewardReceiverPaymentAddress string
	AutoReStaking                bool
}

// TransactionDraft is an in-flight send or stake operation. Amount and Fee
// hold the raw user input in PRV and are parsed on confirmation.
type TransactionDraft struct {
	Kind        DraftKind
	FromAddress string
	ToAddress   string
	Amount      string
	TokenID     string
	Fee         string
	MinFee      decimal.Decimal
	Privacy     bool
	Stake       *StakeFields

	// FeeEstimated is true only if Fee comes from an estimation of the
	// current recipient, amount, token and privacy flag.
	FeeEstimated bool

	state        DraftState
	stakeAmounts map[StakeTier]decimal.Decimal
}

// NewSendDraft returns an empty send draft for the given account.
func NewSendDraft(from Account) *TransactionDraft {
	return &TransactionDraft{
		Kind:        DraftSend,
		FromAddress: from.PaymentAddress,
		state:       StateEditing,
	}
}

// NewStakeDraft returns a stake draft seeded with the burn address as
// recipient and the shard stake amount. The candidate and reward receiver
// default to the account itself.
func NewStakeDraft(
	from Account, burnAddress string, stakeAmounts map[StakeTier]decimal.Decimal,
) *TransactionDraft {
	amounts := make(map[StakeTier]decimal.Decimal, len(stakeAmounts))
	for tier, amount := range stakeAmounts {
		amounts[tier] = amount
	}

	return &TransactionDraft{
		Kind:        DraftStake,
		FromAddress: from.PaymentAddress,
		ToAddress:   burnAddress,
		Amount:      amounts[TierShard].String(),
		Stake: &StakeFields{
			Tier:                         TierShard,
			CandidatePaymentAddress:      from.PaymentAddress,
			CandidateMiningSeedKey:       from.MiningSeedKey,
			RewardReceiverPaymentAddress: from.PaymentAddress,
			AutoReStaking:                true,
		},
		state:        StateEditing,
		stakeAmounts: amounts,
	}
}

func (d *TransactionDraft) State() DraftState {
	return d.state
}

func (d *TransactionDraft) IsStake() bool {
	return d.Kind == DraftStake
}

// StakeAmount returns the amount required to stake for the given tier.
func (d *TransactionDraft) StakeAmount(tier StakeTier) decimal.Decimal {
	return d.stakeAmounts[tier]
}

// Edit updates a field with the raw value coming from the user. Editing a
// watched field invalidates the current fee.
func (d *TransactionDraft) Edit(field DraftField, value string) error {
	if d.state != StateEditing {
		return ErrDraftNotEditable
	}

	switch field {
	case FieldToAddress:
		d.ToAddress = strings.TrimSpace(value)
	case FieldAmount:
		d.Amount = strings.TrimSpace(value)
	case FieldTokenID:
		d.TokenID = strings.TrimSpace(value)
	case FieldPrivacy:
		privacy, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid privacy flag %q: %w", value, err)
		}
		d.Privacy = privacy
	case FieldFee:
		d.Fee = strings.TrimSpace(value)
	case FieldStakeTier, FieldCandidatePaymentAddress,
		FieldCandidateMiningSeedKey, FieldRewardReceiverPaymentAddress,
		FieldAutoReStaking:
		if err := d.editStakeField(field, value); err != nil {
			return err
		}
	default:
		return ErrUnknownDraftField
	}

	if field.IsWatched() {
		d.FeeEstimated = false
	}
	return nil
}

func (d *TransactionDraft) editStakeField(field DraftField, value string) error {
	if d.Stake == nil {
		return ErrFieldNotSupported
	}

	switch field {
	case FieldStakeTier:
		tier, err := ParseStakeTier(value)
		if err != nil {
			return err
		}
		d.Stake.Tier = tier
		d.Amount = d.stakeAmounts[tier].String()
	case FieldCandidatePaymentAddress:
		d.Stake.CandidatePaymentAddress = strings.TrimSpace(value)
	case FieldCandidateMiningSeedKey:
		d.Stake.CandidateMiningSeedKey = strings.TrimSpace(value)
	case FieldRewardReceiverPaymentAddress:
		d.Stake.RewardReceiverPaymentAddress = strings.TrimSpace(value)
	case FieldAutoReStaking:
		autoReStaking, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid auto re-staking flag %q: %w", value, err)
		}
		d.Stake.AutoReStaking = autoReStaking
	}
	return nil
}

// ApplyEstimate sets both the fee and the min fee to the estimated amount in
// nano units.
func (d *TransactionDraft) ApplyEstimate(fee int64) {
	estimated := FromNano(fee)
	d.Fee = estimated.String()
	d.MinFee = estimated
	d.FeeEstimated = true
}

// Confirm moves the draft to the confirming state if it passes validation.
// Soft validation failures are returned as warnings and do not block.
func (d *TransactionDraft) Confirm(ctx ValidationContext) ([]string, error) {
	if d.state != StateEditing {
		return nil, ErrDraftNotEditable
	}

	warnings, err := d.Validate(ctx)
	if err != nil {
		return warnings, err
	}

	d.state = StateConfirming
	return warnings, nil
}

// Cancel brings a draft waiting for confirmation back to editing.
func (d *TransactionDraft) Cancel() error {
	if d.state != StateConfirming {
		return ErrDraftNotConfirming
	}
	d.state = StateEditing
	return nil
}

// BeginSubmit marks a confirmed draft as being submitted.
func (d *TransactionDraft) BeginSubmit() error {
	if d.state != StateConfirming {
		return ErrDraftNotConfirming
	}
	d.state = StateSubmitting
	return nil
}

// Finish applies the submission result and returns the terminal state it
// went through. In both cases the draft goes back to editing: a successful
// draft is reset, a failed one keeps the user's values for a retry.
func (d *TransactionDraft) Finish(result SubmissionResult) (DraftState, error) {
	if d.state != StateSubmitting {
		return d.state, ErrDraftNotSubmitting
	}

	if result.IsSuccess() {
		d.state = StateSucceeded
		d.Reset()
		return StateSucceeded, nil
	}

	d.state = StateEditing
	return StateFailed, nil
}

// Reset clears recipient, amount and fee and brings the draft to editing.
func (d *TransactionDraft) Reset() {
	d.ToAddress = ""
	d.Amount = ""
	d.Fee = ""
	d.MinFee = decimal.Zero
	d.FeeEstimated = false
	d.state = StateEditing
}

// Snapshot returns a deep copy of the draft.
func (d *TransactionDraft) Snapshot() TransactionDraft {
	cp := *d
	if d.Stake != nil {
		stake := *d.Stake
		cp.Stake = &stake
	}
	cp.stakeAmounts = make(map[StakeTier]decimal.Decimal, len(d.stakeAmounts))
	for tier, amount := range d.stakeAmounts {
		cp.stakeAmounts[tier] = amount
	}
	return cp
}
