package ports

import "github.com/prvwallet/prvwallet/internal/core/domain"

// DraftListener is notified of everything happening to an open draft.
// Methods are never called concurrently for the same draft. A listener may
// close its own session from within a call.
type DraftListener interface {
	OnEstimationStateChange(state domain.EstimationState)
	// OnFeeUpdated receives the fee in nano units.
	OnFeeUpdated(fee int64)
	OnValidationWarning(message string)
	OnSubmissionResult(result domain.SubmissionResult)
}
