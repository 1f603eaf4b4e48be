package estimation

import (
	"context"
	"fmt"
	"time"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
)

// DefaultDebounce is the quiescence window after the last watched edit
// before a request is issued.
const DefaultDebounce = 750 * time.Millisecond

// FundAccountWarning is surfaced when a request is short-circuited because
// the account has no funds to pay fees with.
const FundAccountWarning = "please fund your account to pay the network fee"

// BalanceSource resolves the balance of an account, fetching it if not yet
// known.
type BalanceSource interface {
	GetBalance(
		ctx context.Context, account domain.Account, tokenID string,
	) (int64, error)
}

// Input is the set of watched values a request is built from.
type Input struct {
	To      string
	Amount  string
	TokenID string
	Privacy bool
}

// Edit is a raw change of one draft field.
type Edit struct {
	Field domain.DraftField
	Value string
}

type EventType int

const (
	EventStarted EventType = iota
	EventSucceeded
	EventFailed
	EventShortCircuited
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "estimation-started"
	case EventSucceeded:
		return "estimation-succeeded"
	case EventFailed:
		return "estimation-failed"
	case EventShortCircuited:
		return "estimation-short-circuited"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is delivered to the pipeline's handler. Fee is in nano units and is
// set for succeeded and short-circuited events, Err only for failed ones.
type Event struct {
	Type    EventType
	Request domain.EstimationRequest
	Fee     int64
	Err     error
}

// Handler is called by the pipeline goroutine, one event at a time.
type Handler func(Event)

type Config struct {
	RPC      ports.WalletRPC
	Balances BalanceSource
	Metrics  ports.Metrics
	Debounce time.Duration
}

func (c *Config) validate() error {
	if c.RPC == nil {
		return fmt.Errorf("missing rpc client")
	}
	if c.Balances == nil {
		return fmt.Errorf("missing balance source")
	}
	if c.Metrics == nil {
		c.Metrics = ports.NoopMetrics{}
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	return nil
}

// result is what an estimation goroutine reports back to the pipeline loop.
type result struct {
	req     domain.EstimationRequest
	fee     int64
	err     error
	skipped bool
}
