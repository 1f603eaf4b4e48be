package ports

const (
	EstimationIssued         = "issued"
	EstimationShortCircuited = "short_circuited"
	EstimationSucceeded      = "succeeded"
	EstimationFailed         = "failed"
	EstimationDiscarded      = "discarded"

	SubmissionSucceeded = "succeeded"
	SubmissionFailed    = "failed"
)

// Metrics collects counters about fee estimations and submissions.
type Metrics interface {
	ObserveEstimation(outcome string)
	ObserveSubmission(kind, outcome string)
}

// NoopMetrics is used when metrics are disabled.
type NoopMetrics struct{}

func (NoopMetrics) ObserveEstimation(string)         {}
func (NoopMetrics) ObserveSubmission(string, string) {}
