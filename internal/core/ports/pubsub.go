package ports

const AnyTopic = "*"
const UnspecifiedTopic = ""

const (
	TopicTransactionSubmitted = "TRANSACTION_SUBMITTED"
	TopicTransactionFailed    = "TRANSACTION_FAILED"
)

type Subscription interface {
	Topic() string
	Id() string
	IsSecured() bool
	NotifyAt() string
}

// PubSub defines the methods of a pubsub service notifying http endpoints
// about submitted transactions.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic.
	Subscribe(topic, endpoint, secret string) (string, error)
	// Unsubscribe removes some client defined by its id.
	Unsubscribe(id string) error
	// ListSubscriptionsForTopic returns the info of all clients subscribed for
	// a certain topic. UnspecifiedTopic returns all subscriptions.
	ListSubscriptionsForTopic(topic string) ([]Subscription, error)
	// Publish publishes a message for a certain topic. All clients subscribed
	// for such topic, or for AnyTopic, will receive the message.
	Publish(topic string, message string) error
	// Close should be used to gracefully close the connection with the store.
	Close() error
}
