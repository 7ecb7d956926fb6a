// Package tracker keeps a displayed order's status current by polling the
// order API, and exposes the two customer actions available on that view.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"click-collect/models"

	"go.uber.org/zap"
)

// DefaultInterval is how often the order is re-fetched.
const DefaultInterval = 30 * time.Second

var ErrNotAllowed = errors.New("action not allowed in current state")

// OrderAPI is the part of the order API the poller uses.
type OrderAPI interface {
	GetOrder(ctx context.Context, orderNumber string) (*models.Order, error)
	GetReview(ctx context.Context, orderNumber string) (*models.Review, error)
	MarkCollected(ctx context.Context, orderNumber string) (*models.Order, error)
	SubmitReview(ctx context.Context, orderNumber string, req models.ReviewRequest) (*models.Review, error)
}

// View is what the order page renders.
type View struct {
	Order     *models.Order
	Review    *models.Review
	Err       error // last fetch error; Order keeps the last good value
	Seq       uint64
	UpdatedAt time.Time
}

// Progress of the current order, or the zero Progress before the first fetch.
func (v View) Progress() Progress {
	if v.Order == nil {
		return Progress{}
	}
	return ProgressOf(v.Order.Status)
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Poller) { p.logger = l }
}

// WithOnUpdate registers fn to receive every applied View.
func WithOnUpdate(fn func(View)) Option {
	return func(p *Poller) { p.onUpdate = fn }
}

// Poller polls one order. Fetches may overlap; each takes a sequence number
// and a result is applied only if no newer fetch has been applied already.
type Poller struct {
	orderNumber string
	api         OrderAPI
	interval    time.Duration
	logger      *zap.SugaredLogger
	onUpdate    func(View)

	issued atomic.Uint64

	// life ends on Stop; Refresh fetches are bound to it.
	life context.Context
	kill context.CancelFunc

	deliverMu sync.Mutex
	delivered uint64

	mu      sync.Mutex
	view    View
	applied uint64
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(orderNumber string, api OrderAPI, opts ...Option) *Poller {
	p := &Poller{
		orderNumber: orderNumber,
		api:         api,
		interval:    DefaultInterval,
		logger:      zap.NewNop().Sugar(),
	}
	p.life, p.kill = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start fetches immediately and then every interval until Stop is called or
// ctx is done. Calling Start more than once has no effect.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.loop(ctx)
}

// Stop cancels the schedule and any in-flight fetch, and waits for them to
// finish. No update is applied after Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.kill()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// State returns the latest applied view.
func (p *Poller) State() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Refresh triggers an out-of-schedule fetch in the background. The fetch is
// cancelled when ctx is done or the poller is stopped.
func (p *Poller) Refresh(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	unlink := context.AfterFunc(p.life, cancel)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()
		defer unlink()
		p.fetch(ctx)
	}()
}

// Load fetches once, synchronously, and returns the resulting view. Useful
// for one-shot callers that never Start the poller.
func (p *Poller) Load(ctx context.Context) View {
	p.fetch(ctx)
	return p.State()
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	p.mu.Lock()
	if !p.stopped {
		p.goFetch(ctx)
	}
	p.mu.Unlock()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			if !p.stopped {
				p.goFetch(ctx)
			}
			p.mu.Unlock()
		}
	}
}

// goFetch must be called with p.mu held.
func (p *Poller) goFetch(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.fetch(ctx)
	}()
}

// fetch loads the order (and its review once collected) and applies the
// result unless a newer fetch got there first.
func (p *Poller) fetch(ctx context.Context) {
	seq := p.issued.Add(1)

	order, err := p.api.GetOrder(ctx, p.orderNumber)
	var review *models.Review
	if err == nil && order != nil && order.Status == models.StatusCollected {
		r, rerr := p.api.GetReview(ctx, p.orderNumber)
		if rerr != nil {
			p.logger.Debugw("review fetch failed", "order_number", p.orderNumber, "error", rerr)
		}
		review = r
	}

	p.apply(seq, order, review, err)
}

func (p *Poller) apply(seq uint64, order *models.Order, review *models.Review, err error) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	if seq < p.applied {
		p.mu.Unlock()
		p.logger.Debugw("stale order status discarded", "order_number", p.orderNumber, "seq", seq)
		return
	}
	p.applied = seq

	if err != nil {
		p.view.Err = err
		p.logger.Debugw("order status fetch failed", "order_number", p.orderNumber, "error", err)
	} else if order != nil {
		p.view.Order = order
		p.view.Err = nil
		if review != nil {
			p.view.Review = review
		}
	}
	p.view.Seq = seq
	p.view.UpdatedAt = time.Now()
	view := p.view
	fn := p.onUpdate
	p.mu.Unlock()

	if fn != nil {
		p.deliver(fn, view)
	}
}

// deliver hands view to fn unless a newer view was delivered already, so
// callbacks never see the status go backwards.
func (p *Poller) deliver(fn func(View), view View) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()
	if view.Seq < p.delivered {
		p.logger.Debugw("stale order update dropped", "order_number", p.orderNumber, "seq", view.Seq)
		return
	}
	p.delivered = view.Seq
	fn(view)
}

// CanMarkCollected reports whether the collect action is offered.
func (p *Poller) CanMarkCollected() bool {
	return allowCollect(p.State()) == nil
}

// CanReview reports whether the review form is offered.
func (p *Poller) CanReview() bool {
	return allowReview(p.State()) == nil
}

func allowCollect(v View) error {
	if v.Order == nil || v.Order.Status != models.StatusReady {
		return fmt.Errorf("%w: collect requires status %s", ErrNotAllowed, models.StatusReady)
	}
	return nil
}

func allowReview(v View) error {
	if v.Order == nil || v.Order.Status != models.StatusCollected {
		return fmt.Errorf("%w: review requires status %s", ErrNotAllowed, models.StatusCollected)
	}
	if v.Review != nil {
		return fmt.Errorf("%w: order already reviewed", ErrNotAllowed)
	}
	return nil
}

// MarkCollected confirms pickup of a ready order and re-fetches it. Failures
// are logged and reported as false; the view is left untouched.
func (p *Poller) MarkCollected(ctx context.Context) bool {
	if err := allowCollect(p.State()); err != nil {
		p.logger.Debugw("mark collected skipped", "order_number", p.orderNumber, "error", err)
		return false
	}
	if _, err := p.api.MarkCollected(ctx, p.orderNumber); err != nil {
		p.logger.Warnw("mark collected failed", "order_number", p.orderNumber, "error", err)
		return false
	}
	p.fetch(ctx)
	return true
}

// SubmitReview rates a collected, not yet reviewed order. rating must be
// between 1 and 5. Failures are logged and reported as false.
func (p *Poller) SubmitReview(ctx context.Context, rating int, comment string) bool {
	if rating < 1 || rating > 5 {
		p.logger.Debugw("review rejected", "order_number", p.orderNumber, "rating", rating)
		return false
	}
	if err := allowReview(p.State()); err != nil {
		p.logger.Debugw("review skipped", "order_number", p.orderNumber, "error", err)
		return false
	}

	review, err := p.api.SubmitReview(ctx, p.orderNumber, models.ReviewRequest{Rating: rating, Comment: comment})
	if err != nil {
		p.logger.Warnw("submit review failed", "order_number", p.orderNumber, "error", err)
		return false
	}

	p.mu.Lock()
	if !p.stopped {
		p.view.Review = review
	}
	p.mu.Unlock()

	p.fetch(ctx)
	return true
}
