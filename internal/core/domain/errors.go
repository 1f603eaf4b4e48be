package domain

import "errors"

var (
	// ErrInvalidAmount is returned if the amount is not a positive number.
	ErrInvalidAmount = errors.New("amount is invalid")
	// ErrAmountBelowMinimum is returned if the amount is lower than the
	// minimum transferable unit.
	ErrAmountBelowMinimum = errors.New("amount is below the minimum unit")
	// ErrMissingRecipient ...
	ErrMissingRecipient = errors.New("missing receiving address")
	// ErrInvalidRecipient ...
	ErrInvalidRecipient = errors.New("receiver address is invalid")
	// ErrNotBurnAddress is returned if a stake draft is not sent to the burn
	// address.
	ErrNotBurnAddress = errors.New("to address must be the burn address")
	// ErrInvalidStakeAmount is returned if the amount of a stake draft differs
	// from the one required by the selected tier.
	ErrInvalidStakeAmount = errors.New("amount does not match the stake amount")
	// ErrMissingStakeField ...
	ErrMissingStakeField = errors.New("missing staking candidate info")
	// ErrInsufficientFunds is returned if the amount is not strictly lower
	// than the balance of the account.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidFee ...
	ErrInvalidFee = errors.New("fee is invalid")

	// ErrUnknownDraftField ...
	ErrUnknownDraftField = errors.New("unknown draft field")
	// ErrFieldNotSupported is returned when editing a stake-only field of a
	// send draft.
	ErrFieldNotSupported = errors.New("field not supported by draft kind")
	// ErrInvalidStakeTier ...
	ErrInvalidStakeTier = errors.New("invalid stake tier")
	// ErrDraftNotEditable is returned when editing a draft that is being
	// confirmed or submitted.
	ErrDraftNotEditable = errors.New("draft can be edited only while editing")
	// ErrDraftNotConfirming ...
	ErrDraftNotConfirming = errors.New("draft is not waiting for confirmation")
	// ErrDraftNotSubmitting ...
	ErrDraftNotSubmitting = errors.New("draft is not being submitted")

	// ErrMissingTxID is the failure reason for submissions that returned
	// neither an error nor a transaction id.
	ErrMissingTxID = errors.New("missing transaction id in response")

	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("account not found")

	// ErrServerNotFound ...
	ErrServerNotFound = errors.New("server not found")
	// ErrServerAlreadyExists ...
	ErrServerAlreadyExists = errors.New("server already exists")
	// ErrDefaultServerNotRemovable is returned when removing the server
	// currently selected as default.
	ErrDefaultServerNotRemovable = errors.New("default server could not be removed")
	// ErrInvalidServerAddress ...
	ErrInvalidServerAddress = errors.New("server address must be a valid url")
)

// ValidationError is a user-correctable problem with a draft. Reason is one
// of the sentinel errors above and can be matched with errors.Is.
type ValidationError struct {
	Reason  error
	Message string
}

func newValidationError(reason error, msg string) *ValidationError {
	return &ValidationError{reason, msg}
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return e.Reason.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}
