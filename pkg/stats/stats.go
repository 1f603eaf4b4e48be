package stats

import (
	"bufio"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
)

const namespace = "prvwallet"

// Metrics counts fee estimations and transaction submissions with
// Prometheus counters.
type Metrics struct {
	gatherer    prometheus.Gatherer
	estimations *prometheus.CounterVec
	submissions *prometheus.CounterVec
}

// NewMetrics registers the counters to a dedicated registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	estimations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fee_estimations_total",
		Help:      "Number of fee estimation requests by outcome.",
	}, []string{"outcome"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Number of transaction submissions by kind and outcome.",
	}, []string{"kind", "outcome"})

	for _, c := range []prometheus.Collector{estimations, submissions} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}

	return &Metrics{registry, estimations, submissions}, nil
}

func (m *Metrics) ObserveEstimation(outcome string) {
	m.estimations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSubmission(kind, outcome string) {
	m.submissions.WithLabelValues(kind, outcome).Inc()
}

// Gatherer returns the registry the counters are registered to.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// Dump writes the current value of the counters to the given file, in the
// Prometheus text format.
func (m *Metrics) Dump(filename string) error {
	file, err := os.OpenFile(
		filename,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	metricFamilies, err := m.gatherer.Gather()
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	for _, mf := range metricFamilies {
		if _, err := expfmt.MetricFamilyToText(writer, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	log.Debugf("metrics dumped to %s", filename)
	return nil
}
