package domain

// EstimationRequest is an immutable fee estimation request. Sequence grows
// monotonically within a pipeline and is used to discard the responses of
// superseded requests.
type EstimationRequest struct {
	From     Account
	To       string
	Amount   int64
	TokenID  string
	Privacy  bool
	Sequence uint64
}

// SameInput compares two requests by value, ignoring their sequence.
func (r EstimationRequest) SameInput(other EstimationRequest) bool {
	return r.From.Name == other.From.Name &&
		r.To == other.To &&
		r.Amount == other.Amount &&
		r.TokenID == other.TokenID &&
		r.Privacy == other.Privacy
}

// EstimationState is the state of the estimation pipeline of a draft, shown
// by the UI as a loading affordance.
type EstimationState int

const (
	EstimationIdle EstimationState = iota
	EstimationInProgress
	EstimationDone
	EstimationFailed
)

func (s EstimationState) String() string {
	switch s {
	case EstimationInProgress:
		return "in progress"
	case EstimationDone:
		return "done"
	case EstimationFailed:
		return "failed"
	default:
		return "idle"
	}
}
