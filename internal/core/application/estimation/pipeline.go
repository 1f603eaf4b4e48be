package estimation

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prvwallet/prvwallet/internal/core/domain"
	"github.com/prvwallet/prvwallet/internal/core/ports"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Pipeline turns the stream of edits of an open draft into fee estimations.
// All its state is owned by a single goroutine: edits are queued by Push and
// Trigger, estimations run in their own goroutines and report back to the
// loop, that applies only the result of the latest issued request.
type Pipeline struct {
	cfg     Config
	from    domain.Account
	handler Handler

	lock    sync.Mutex
	pending []Edit
	trigger bool
	wake    chan struct{}

	results chan result
	cancel  context.CancelFunc
	done    chan struct{}
	closing sync.Once

	// owned by the loop goroutine.
	input      Input
	seq        uint64
	last       *domain.EstimationRequest
	lastEvent  *Event
	cancelLast context.CancelFunc
}

// NewPipeline starts a pipeline for the given account. The pipeline lives
// until Close is called or ctx is done.
func NewPipeline(
	ctx context.Context, cfg Config, from domain.Account, initial Input,
	handler Handler,
) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		handler = func(Event) {}
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pipeline{
		cfg:     cfg,
		from:    from,
		handler: handler,
		wake:    make(chan struct{}, 1),
		results: make(chan result),
		cancel:  cancel,
		done:    make(chan struct{}),
		input:   initial,
	}
	go p.run(ctx)
	return p, nil
}

// Push queues raw edits. It never blocks.
func (p *Pipeline) Push(edits ...Edit) {
	p.lock.Lock()
	p.pending = append(p.pending, edits...)
	p.lock.Unlock()
	p.notify()
}

// Trigger issues a request for the current input without waiting for the
// debounce window.
func (p *Pipeline) Trigger() {
	p.lock.Lock()
	p.trigger = true
	p.lock.Unlock()
	p.notify()
}

// Close cancels any in-flight estimation and waits for the pipeline to stop.
// No event is delivered after Close returns. It must not be called from the
// event handler, use Stop there.
func (p *Pipeline) Close() {
	p.Stop()
	<-p.done
}

// Stop cancels the pipeline without waiting for it. No event is delivered
// once the handler call in progress, if any, returns.
func (p *Pipeline) Stop() {
	p.closing.Do(func() {
		p.cancel()
	})
}

func (p *Pipeline) notify() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Pipeline) run(ctx context.Context) {
	defer close(p.done)

	var timer *time.Timer
	var timerC <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
		timer, timerC = nil, nil
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			if p.cancelLast != nil {
				p.cancelLast()
			}
			return
		case <-p.wake:
			edits, trigger := p.drain()
			watched := false
			for _, e := range edits {
				if p.apply(e) {
					watched = true
				}
			}
			if trigger {
				stopTimer()
				p.issue(ctx)
				continue
			}
			if watched {
				stopTimer()
				timer = time.NewTimer(p.cfg.Debounce)
				timerC = timer.C
			}
		case <-timerC:
			timer, timerC = nil, nil
			p.issue(ctx)
		case res := <-p.results:
			p.handleResult(ctx, res)
		}
	}
}

func (p *Pipeline) drain() ([]Edit, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	edits, trigger := p.pending, p.trigger
	p.pending, p.trigger = nil, false
	return edits, trigger
}

// apply updates the current input and returns whether the edit concerns a
// watched field.
func (p *Pipeline) apply(e Edit) bool {
	switch e.Field {
	case domain.FieldToAddress:
		p.input.To = e.Value
	case domain.FieldAmount:
		p.input.Amount = e.Value
	case domain.FieldTokenID:
		p.input.TokenID = e.Value
	case domain.FieldPrivacy:
		privacy, err := strconv.ParseBool(e.Value)
		if err != nil {
			return false
		}
		p.input.Privacy = privacy
	}
	return e.Field.IsWatched()
}

// request builds a request from the current input. It returns false if the
// input is not complete enough to be estimated.
func (p *Pipeline) request() (domain.EstimationRequest, bool) {
	if p.input.To == "" {
		return domain.EstimationRequest{}, false
	}
	amount, err := decimal.NewFromString(p.input.Amount)
	if err != nil || !amount.IsPositive() || !domain.IsNanoAmount(amount) {
		return domain.EstimationRequest{}, false
	}
	nano := domain.ToNano(amount)
	if nano <= 0 {
		return domain.EstimationRequest{}, false
	}

	return domain.EstimationRequest{
		From:    p.from,
		To:      p.input.To,
		Amount:  nano,
		TokenID: p.input.TokenID,
		Privacy: p.input.Privacy,
	}, true
}

func (p *Pipeline) issue(ctx context.Context) {
	req, ok := p.request()
	if !ok {
		return
	}

	if p.last != nil && p.last.SameInput(req) {
		// The last request is either still in flight or already applied: in
		// the latter case its fee is replayed without touching the network.
		if p.lastEvent != nil {
			p.emit(ctx, *p.lastEvent)
		}
		return
	}

	if p.cancelLast != nil {
		p.cancelLast()
	}

	p.seq++
	req.Sequence = p.seq
	p.last = &req
	p.lastEvent = nil

	reqCtx, cancel := context.WithCancel(ctx)
	p.cancelLast = cancel

	p.cfg.Metrics.ObserveEstimation(ports.EstimationIssued)
	log.WithField("seq", req.Sequence).Debug("issuing fee estimation")
	p.emit(ctx, Event{Type: EventStarted, Request: req})

	go p.estimate(ctx, reqCtx, req)
}

func (p *Pipeline) estimate(
	ctx, reqCtx context.Context, req domain.EstimationRequest,
) {
	res := result{req: req}

	balance, err := p.cfg.Balances.GetBalance(reqCtx, req.From, domain.NativeToken)
	switch {
	case err != nil:
		res.err = err
	case balance <= 0:
		res.skipped = true
	default:
		res.fee, res.err = p.cfg.RPC.EstimateFee(
			reqCtx, req.From, req.To, req.Amount, req.TokenID, req.Privacy,
		)
	}

	select {
	case p.results <- res:
	case <-ctx.Done():
	}
}

func (p *Pipeline) handleResult(ctx context.Context, res result) {
	if res.req.Sequence != p.seq {
		p.cfg.Metrics.ObserveEstimation(ports.EstimationDiscarded)
		log.WithFields(log.Fields{
			"seq":    res.req.Sequence,
			"latest": p.seq,
		}).Debug("discarded stale fee estimation")
		return
	}

	if p.cancelLast != nil {
		p.cancelLast()
		p.cancelLast = nil
	}

	if res.err != nil {
		// a failed request doesn't count for deduplication so that the same
		// input can be retried.
		p.last = nil
		p.cfg.Metrics.ObserveEstimation(ports.EstimationFailed)
		p.emit(ctx, Event{Type: EventFailed, Request: res.req, Err: res.err})
		return
	}

	event := Event{Type: EventSucceeded, Request: res.req, Fee: res.fee}
	if res.skipped {
		event = Event{Type: EventShortCircuited, Request: res.req}
		p.cfg.Metrics.ObserveEstimation(ports.EstimationShortCircuited)
	} else {
		p.cfg.Metrics.ObserveEstimation(ports.EstimationSucceeded)
	}
	p.lastEvent = &event
	p.emit(ctx, event)
}

// emit delivers the event unless the pipeline has been stopped.
func (p *Pipeline) emit(ctx context.Context, ev Event) {
	if ctx.Err() != nil {
		return
	}
	p.handler(ev)
}
