package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

type Service struct {
	pubsub ports.PubSub
	wg     *sync.WaitGroup
}

func NewService(pubsub ports.PubSub) *Service {
	return &Service{pubsub, &sync.WaitGroup{}}
}

func (s *Service) AddWebhook(
	_ context.Context, event, endpoint, secret string,
) (string, error) {
	topic, err := topicForEvent(event)
	if err != nil {
		return "", err
	}
	if topic == ports.UnspecifiedTopic {
		return "", fmt.Errorf("invalid webhook event type")
	}
	return s.pubsub.Subscribe(topic, endpoint, secret)
}

func (s *Service) RemoveWebhook(_ context.Context, id string) error {
	return s.pubsub.Unsubscribe(id)
}

// ListWebhooks returns the webhooks subscribed for the given event, or all
// of them if event is empty.
func (s *Service) ListWebhooks(
	_ context.Context, event string,
) ([]WebhookInfo, error) {
	topic, err := topicForEvent(event)
	if err != nil {
		return nil, err
	}
	subs, err := s.pubsub.ListSubscriptionsForTopic(topic)
	if err != nil {
		return nil, err
	}
	webhooks := make([]WebhookInfo, 0, len(subs))
	for _, sub := range subs {
		webhooks = append(webhooks, WebhookInfo{
			ID:       sub.Id(),
			Event:    sub.Topic(),
			Endpoint: sub.NotifyAt(),
			Secured:  sub.IsSecured(),
		})
	}
	return webhooks, nil
}

// PublishSubmissionResult notifies the webhooks about the outcome of a
// submission. Delivery happens in background, errors are only logged.
func (s *Service) PublishSubmissionResult(
	account domain.Account, kind domain.DraftKind,
	result domain.SubmissionResult,
) {
	event := ports.TopicTransactionSubmitted
	if !result.IsSuccess() {
		event = ports.TopicTransactionFailed
	}
	message, _ := json.Marshal(getSubmissionPayload(event, account, kind, result))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.pubsub.Publish(event, string(message)); err != nil {
			log.WithError(err).Warnf(
				"an error occured while publishing message for topic %s", event,
			)
		}
	}()
}

// Close waits for pending deliveries and closes the underlying store.
func (s *Service) Close() {
	s.wg.Wait()
	if err := s.pubsub.Close(); err != nil {
		log.WithError(err).Warn("failed to close pubsub store")
	}
}

type WebhookInfo struct {
	ID       string
	Event    string
	Endpoint string
	Secured  bool
}

// NotifyingListener forwards every call to the wrapped listener and
// publishes submission results to the webhooks.
type NotifyingListener struct {
	ports.DraftListener

	svc     *Service
	account domain.Account
	kind    domain.DraftKind
}

func (s *Service) NewNotifyingListener(
	next ports.DraftListener, account domain.Account, kind domain.DraftKind,
) *NotifyingListener {
	if next == nil {
		next = noopListener{}
	}
	return &NotifyingListener{next, s, account, kind}
}

func (l *NotifyingListener) OnSubmissionResult(result domain.SubmissionResult) {
	l.DraftListener.OnSubmissionResult(result)
	l.svc.PublishSubmissionResult(l.account, l.kind, result)
}

type noopListener struct{}

func (noopListener) OnEstimationStateChange(domain.EstimationState) {}
func (noopListener) OnFeeUpdated(int64)                             {}
func (noopListener) OnValidationWarning(string)                     {}
func (noopListener) OnSubmissionResult(domain.SubmissionResult)     {}
