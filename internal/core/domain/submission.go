package domain

// SubmissionResult is the outcome of a submission: either a transaction id
// or the reason of the failure.
type SubmissionResult struct {
	TxID   string
	Reason error
}

func NewSuccessResult(txid string) SubmissionResult {
	return SubmissionResult{TxID: txid}
}

func NewFailureResult(reason error) SubmissionResult {
	return SubmissionResult{Reason: reason}
}

func (r SubmissionResult) IsSuccess() bool {
	return r.Reason == nil && r.TxID != ""
}
