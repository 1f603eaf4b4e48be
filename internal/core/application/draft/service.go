package draft

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prvwallet/prvwallet/internal/core/application/estimation"
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// BalanceService resolves and invalidates cached balances.
type BalanceService interface {
	GetBalance(
		ctx context.Context, account domain.Account, tokenID string,
	) (int64, error)
	Cache() ports.BalanceCache
}

// ListenerDecorator wraps the listener of every opened draft.
type ListenerDecorator func(
	account domain.Account, kind domain.DraftKind, listener ports.DraftListener,
) ports.DraftListener

type Config struct {
	RPC      ports.WalletRPC
	Balances BalanceService
	Accounts ports.AccountRegistry
	Metrics  ports.Metrics
	Decorate ListenerDecorator

	Debounce          time.Duration
	MinFeePerKb       decimal.Decimal
	EstimatedTxSizeKb decimal.Decimal
}

func (c *Config) validate() error {
	if c.RPC == nil {
		return fmt.Errorf("missing rpc client")
	}
	if c.Balances == nil {
		return fmt.Errorf("missing balance service")
	}
	if c.Accounts == nil {
		return fmt.Errorf("missing account registry")
	}
	if c.Metrics == nil {
		c.Metrics = ports.NoopMetrics{}
	}
	return nil
}

// Service opens draft sessions for send and stake operations and keeps
// track of the open ones.
type Service struct {
	cfg         Config
	coordinator *Coordinator

	lock     *sync.Mutex
	sessions map[string]*Session
}

func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	coordinator, err := NewCoordinator(cfg.RPC, cfg.Metrics)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:         cfg,
		coordinator: coordinator,
		lock:        &sync.Mutex{},
		sessions:    make(map[string]*Session),
	}, nil
}

// OpenSend opens an empty send draft for the given account.
func (s *Service) OpenSend(
	ctx context.Context, accountName string, listener ports.DraftListener,
) (*Session, error) {
	account, err := s.cfg.Accounts.GetAccount(ctx, accountName)
	if err != nil {
		return nil, err
	}

	draft := domain.NewSendDraft(*account)
	return s.open(*account, draft, listener, false)
}

// OpenStake opens a stake draft for the given account, seeded with the burn
// address and the stake amounts of both tiers. The fee of the seeded draft
// is estimated right away.
func (s *Service) OpenStake(
	ctx context.Context, accountName string, listener ports.DraftListener,
) (*Session, error) {
	account, err := s.cfg.Accounts.GetAccount(ctx, accountName)
	if err != nil {
		return nil, err
	}

	stakeAmounts, err := s.stakeAmounts(ctx)
	if err != nil {
		return nil, err
	}

	draft := domain.NewStakeDraft(*account, s.cfg.RPC.BurnAddress(), stakeAmounts)
	return s.open(*account, draft, listener, true)
}

// Session returns the open session with the given id.
func (s *Service) Session(id string) (*Session, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	session, ok := s.sessions[id]
	return session, ok
}

// CloseAll closes every open session.
func (s *Service) CloseAll() {
	s.lock.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.lock.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

func (s *Service) open(
	account domain.Account, draft *domain.TransactionDraft,
	listener ports.DraftListener, prime bool,
) (*Session, error) {
	if listener == nil {
		listener = noopListener{}
	}
	if s.cfg.Decorate != nil {
		listener = s.cfg.Decorate(account, draft.Kind, listener)
	}

	session := &Session{
		id:          uuid.New().String(),
		account:     account,
		cfg:         s.cfg,
		coordinator: s.coordinator,
		listener:    listener,
		lock:        &sync.Mutex{},
		notifyLock:  &sync.Mutex{},
		draft:       draft,
		onClose:     s.forget,
	}

	initial := estimation.Input{
		To:      draft.ToAddress,
		Amount:  draft.Amount,
		TokenID: draft.TokenID,
		Privacy: draft.Privacy,
	}
	pipeline, err := estimation.NewPipeline(
		context.Background(), estimation.Config{
			RPC:      s.cfg.RPC,
			Balances: s.cfg.Balances,
			Metrics:  s.cfg.Metrics,
			Debounce: s.cfg.Debounce,
		}, account, initial, session.handleEstimation,
	)
	if err != nil {
		return nil, err
	}
	session.pipeline = pipeline

	s.lock.Lock()
	s.sessions[session.id] = session
	s.lock.Unlock()

	log.WithFields(log.Fields{
		"session": session.id,
		"account": account.Name,
		"kind":    draft.Kind.String(),
	}).Debug("draft opened")

	if prime {
		pipeline.Trigger()
	}
	return session, nil
}

func (s *Service) forget(id string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.sessions, id)
}

func (s *Service) stakeAmounts(
	ctx context.Context,
) (map[domain.StakeTier]decimal.Decimal, error) {
	tiers := []domain.StakeTier{domain.TierShard, domain.TierBeacon}
	amounts := make([]int64, len(tiers))

	eg, ctx := errgroup.WithContext(ctx)
	for i := range tiers {
		i := i
		eg.Go(func() error {
			amount, err := s.cfg.RPC.EstimateStakingAmount(ctx, tiers[i])
			if err != nil {
				return fmt.Errorf(
					"failed to fetch %s stake amount: %w", tiers[i], err,
				)
			}
			amounts[i] = amount
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	stakeAmounts := make(map[domain.StakeTier]decimal.Decimal, len(tiers))
	for i, tier := range tiers {
		stakeAmounts[tier] = domain.FromNano(amounts[i])
	}
	return stakeAmounts, nil
}

type noopListener struct{}

func (noopListener) OnEstimationStateChange(domain.EstimationState) {}
func (noopListener) OnFeeUpdated(int64)                             {}
func (noopListener) OnValidationWarning(string)                     {}
func (noopListener) OnSubmissionResult(domain.SubmissionResult)     {}
