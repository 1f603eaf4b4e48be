package pubsub_test

import (
	"sync"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

type mockPubSub struct {
	mock.Mock
}

func (m *mockPubSub) Subscribe(topic, endpoint, secret string) (string, error) {
	args := m.Called(topic, endpoint, secret)
	return args.String(0), args.Error(1)
}

func (m *mockPubSub) Unsubscribe(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockPubSub) ListSubscriptionsForTopic(
	topic string,
) ([]ports.Subscription, error) {
	args := m.Called(topic)
	var res []ports.Subscription
	if a := args.Get(0); a != nil {
		res = a.([]ports.Subscription)
	}
	return res, args.Error(1)
}

func (m *mockPubSub) Publish(topic string, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}

func (m *mockPubSub) Close() error {
	args := m.Called()
	return args.Error(0)
}

type subscription struct {
	id, topic, endpoint string
	secured             bool
}

func (s subscription) Topic() string    { return s.topic }
func (s subscription) Id() string       { return s.id }
func (s subscription) IsSecured() bool  { return s.secured }
func (s subscription) NotifyAt() string { return s.endpoint }

type testListener struct {
	lock    sync.Mutex
	results []domain.SubmissionResult
}

func (l *testListener) OnEstimationStateChange(domain.EstimationState) {}
func (l *testListener) OnFeeUpdated(int64)                             {}
func (l *testListener) OnValidationWarning(string)                     {}
func (l *testListener) OnSubmissionResult(result domain.SubmissionResult) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.results = append(l.results, result)
}
