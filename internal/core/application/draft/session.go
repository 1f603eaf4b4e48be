package draft

import (
	"context"
	"sync"

	"github.com/prvwallet/prvwallet/internal/core/application/estimation"
	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Session is an open send or stake draft together with its fee estimation
// pipeline. Network calls are never made while holding the session lock.
type Session struct {
	id          string
	account     domain.Account
	cfg         Config
	coordinator *Coordinator
	pipeline    *estimation.Pipeline
	listener    ports.DraftListener
	onClose     func(id string)

	lock            *sync.Mutex
	draft           *domain.TransactionDraft
	estimationState domain.EstimationState
	closed          bool
	// number of estimation callbacks being delivered to the listener.
	dispatching int

	// serializes listener calls coming from the pipeline and from Submit.
	notifyLock *sync.Mutex
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Account() domain.Account {
	return s.account
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() domain.TransactionDraft {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.draft.Snapshot()
}

func (s *Session) EstimationState() domain.EstimationState {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.estimationState
}

// Edit applies a raw user edit to the draft and forwards it to the fee
// estimation pipeline.
func (s *Session) Edit(field domain.DraftField, value string) error {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return ErrSessionClosed
	}
	if err := s.draft.Edit(field, value); err != nil {
		s.lock.Unlock()
		return err
	}
	edits := []estimation.Edit{{Field: field, Value: normalizedValue(s.draft, field, value)}}
	if field == domain.FieldStakeTier {
		edits = append(edits, estimation.Edit{
			Field: domain.FieldAmount, Value: s.draft.Amount,
		})
	}
	s.lock.Unlock()

	s.pipeline.Push(edits...)
	return nil
}

// Estimate asks for a fee estimation of the current values without waiting
// for the debounce window.
func (s *Session) Estimate() {
	s.pipeline.Trigger()
}

// Confirm validates the draft against the resolved balance of the sent
// coin/token and moves it to the confirming state. Soft warnings are both
// returned and notified to the listener.
func (s *Session) Confirm(ctx context.Context) ([]string, error) {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return nil, ErrSessionClosed
	}
	tokenID := s.draft.TokenID
	if s.draft.IsStake() {
		tokenID = domain.NativeToken
	}
	s.lock.Unlock()

	balance, err := s.cfg.Balances.GetBalance(ctx, s.account, tokenID)
	if err != nil {
		return nil, err
	}

	vctx := domain.ValidationContext{
		Balance:           balance,
		ValidateAddress:   s.cfg.RPC.ValidateAddress,
		BurnAddress:       s.cfg.RPC.BurnAddress(),
		MinFeePerKb:       s.cfg.MinFeePerKb,
		EstimatedTxSizeKb: s.cfg.EstimatedTxSizeKb,
	}

	s.lock.Lock()
	warnings, err := s.draft.Confirm(vctx)
	s.lock.Unlock()
	if err != nil {
		return nil, err
	}

	s.notify(func(l ports.DraftListener) {
		for _, w := range warnings {
			l.OnValidationWarning(w)
		}
	})
	return warnings, nil
}

// Cancel brings a draft waiting for confirmation back to editing.
func (s *Session) Cancel() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.draft.Cancel()
}

// Submit submits the confirmed draft. On success the cached balances of the
// account are cleared and the draft is reset, on failure both are left
// untouched so that the user can retry.
func (s *Session) Submit(ctx context.Context) (domain.SubmissionResult, error) {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return domain.SubmissionResult{}, ErrSessionClosed
	}
	if err := s.draft.BeginSubmit(); err != nil {
		s.lock.Unlock()
		return domain.SubmissionResult{}, err
	}
	draft := s.draft.Snapshot()
	s.lock.Unlock()

	result := s.coordinator.Submit(ctx, s.account, draft)

	if result.IsSuccess() {
		cache := s.cfg.Balances.Cache()
		cache.Clear(s.account.Name, domain.NativeToken)
		if draft.TokenID != domain.NativeToken {
			cache.Clear(s.account.Name, draft.TokenID)
		}
	}

	s.lock.Lock()
	state, err := s.draft.Finish(result)
	s.lock.Unlock()
	if err != nil {
		return result, err
	}

	if state == domain.StateSucceeded {
		s.pipeline.Push(
			estimation.Edit{Field: domain.FieldToAddress, Value: ""},
			estimation.Edit{Field: domain.FieldAmount, Value: ""},
		)
	}

	s.notify(func(l ports.DraftListener) {
		l.OnSubmissionResult(result)
	})
	return result, nil
}

// Close tears down the estimation pipeline. No listener call related to
// estimations starts after Close returns. Close can be called from within a
// listener callback, in which case it doesn't wait for the pipeline to stop.
func (s *Session) Close() {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return
	}
	s.closed = true
	inCallback := s.dispatching > 0
	s.lock.Unlock()

	if inCallback {
		s.pipeline.Stop()
	} else {
		s.pipeline.Close()
	}
	if s.onClose != nil {
		s.onClose(s.id)
	}
	log.WithField("session", s.id).Debug("draft closed")
}

func (s *Session) handleEstimation(ev estimation.Event) {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return
	}
	s.dispatching++
	s.lock.Unlock()
	defer func() {
		s.lock.Lock()
		s.dispatching--
		s.lock.Unlock()
	}()

	s.lock.Lock()
	switch ev.Type {
	case estimation.EventStarted:
		s.estimationState = domain.EstimationInProgress
		s.lock.Unlock()

		s.notify(func(l ports.DraftListener) {
			l.OnEstimationStateChange(domain.EstimationInProgress)
		})

	case estimation.EventFailed:
		s.estimationState = domain.EstimationFailed
		s.lock.Unlock()

		log.WithError(ev.Err).WithField("session", s.id).
			Warn("fee estimation failed")
		s.notify(func(l ports.DraftListener) {
			l.OnValidationWarning("failed to estimate fee: " + ev.Err.Error())
			l.OnEstimationStateChange(domain.EstimationFailed)
		})

	case estimation.EventSucceeded, estimation.EventShortCircuited:
		// the draft might have moved on with edits not yet seen by the
		// pipeline, in which case a newer estimation is on its way. A draft
		// that left editing with the same values keeps its fee but the
		// estimation is settled anyway.
		matches := requestMatchesDraft(ev.Request, s.draft)
		applied := matches && s.draft.State() == domain.StateEditing
		if applied {
			s.draft.ApplyEstimate(ev.Fee)
		}
		if matches {
			s.estimationState = domain.EstimationDone
		}
		s.lock.Unlock()

		if !applied {
			if matches {
				s.notify(func(l ports.DraftListener) {
					l.OnEstimationStateChange(domain.EstimationDone)
				})
			}
			return
		}
		s.notify(func(l ports.DraftListener) {
			if ev.Type == estimation.EventShortCircuited {
				l.OnValidationWarning(estimation.FundAccountWarning)
			}
			l.OnFeeUpdated(ev.Fee)
			l.OnEstimationStateChange(domain.EstimationDone)
		})

	default:
		s.lock.Unlock()
	}
}

func (s *Session) notify(fn func(l ports.DraftListener)) {
	s.notifyLock.Lock()
	defer s.notifyLock.Unlock()
	fn(s.listener)
}

func requestMatchesDraft(
	req domain.EstimationRequest, draft *domain.TransactionDraft,
) bool {
	amount, err := decimal.NewFromString(draft.Amount)
	if err != nil {
		return false
	}
	return req.To == draft.ToAddress &&
		req.Amount == domain.ToNano(amount) &&
		req.TokenID == draft.TokenID &&
		req.Privacy == draft.Privacy
}

// normalizedValue returns the value of the field as stored by the draft, so
// that the pipeline estimates exactly what the draft holds.
func normalizedValue(
	draft *domain.TransactionDraft, field domain.DraftField, raw string,
) string {
	switch field {
	case domain.FieldToAddress:
		return draft.ToAddress
	case domain.FieldAmount:
		return draft.Amount
	case domain.FieldTokenID:
		return draft.TokenID
	default:
		return raw
	}
}
