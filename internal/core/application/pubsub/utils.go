package pubsub

import (
	"fmt"
	"strings"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
)

var events = map[string]string{
	"":          ports.UnspecifiedTopic,
	"*":         ports.AnyTopic,
	"any":       ports.AnyTopic,
	"submitted": ports.TopicTransactionSubmitted,
	"failed":    ports.TopicTransactionFailed,

	strings.ToLower(ports.TopicTransactionSubmitted): ports.TopicTransactionSubmitted,
	strings.ToLower(ports.TopicTransactionFailed):    ports.TopicTransactionFailed,
}

func topicForEvent(event string) (string, error) {
	topic, ok := events[strings.ToLower(strings.TrimSpace(event))]
	if !ok {
		return "", fmt.Errorf("unknown webhook event %s", event)
	}
	return topic, nil
}

func getSubmissionPayload(
	event string, account domain.Account, kind domain.DraftKind,
	result domain.SubmissionResult,
) map[string]interface{} {
	payload := map[string]interface{}{
		"event": event,
		"account": map[string]string{
			"name":            account.Name,
			"payment_address": account.PaymentAddress,
		},
		"kind": kind.String(),
	}
	if result.IsSuccess() {
		payload["txid"] = result.TxID
	} else if result.Reason != nil {
		payload["error"] = result.Reason.Error()
	}
	return payload
}
