package livesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/order"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyMounted is returned by a second Mount.
	ErrAlreadyMounted = errors.New("dashboard is already mounted")

	// ErrDisposed is returned when using a dashboard after Unmount.
	ErrDisposed = errors.New("dashboard is disposed")

	// ErrNotMounted is returned by Refresh before Mount.
	ErrNotMounted = errors.New("dashboard is not mounted")
)

// Loader performs a full fetch of the orders a view shows, in display order.
type Loader func(ctx context.Context) ([]*order.Order, error)

// Filter reports whether a pushed order belongs to the view.
type Filter func(o *order.Order) bool

// Snapshot is an immutable, versioned copy of a dashboard's cache.
type Snapshot struct {
	// Version increases with every published change.
	Version uint64

	// Orders is the cached sequence, newest first.
	Orders []*order.Order

	// LoadedAt is the time of the last successful full fetch.
	LoadedAt time.Time

	// Err is the error of the last full fetch, nil once a fetch succeeds.
	Err error
}

// Get returns the order with the given id.
func (s Snapshot) Get(id kernel.ID) (*order.Order, bool) {
	for _, o := range s.Orders {
		if o.ID().IsEqual(id) {
			return o, true
		}
	}
	return nil, false
}

// Config configures a Dashboard.
type Config struct {
	Name           string
	Loader         Loader
	Filter         Filter
	Channel        ports.PushChannel
	ReconcileDelay time.Duration
	Logger         *slog.Logger
}

type state int

const (
	stateIdle state = iota
	stateMounted
	stateDisposed
)

type fetchResult struct {
	orders []*order.Order
	err    error
}

// Dashboard is one mounted view's live order cache.
//
// Lifecycle:
//
//	idle ──Mount──> mounted ──Unmount──> disposed
//
// Mount subscribes to the push channel exactly once and performs the initial full
// fetch. Events that arrive while a full fetch is in flight are applied to the
// cache (once the initial fetch has landed) and replayed after the bulk replace,
// so a slow fetch never erases them. Signal-only events trigger a re-fetch.
type Dashboard struct {
	id         uuid.UUID
	name       string
	loader     Loader
	filter     Filter
	channel    ports.PushChannel
	logger     *slog.Logger
	reconciler *Reconciler

	mu     sync.Mutex
	state  state
	cancel context.CancelFunc
	done   chan struct{}

	loaded     chan struct{}
	initialErr error

	refreshCh chan struct{}
	results   chan fetchResult

	// owned by the task goroutine
	cache       *OrderCache
	initialized bool
	fetching    bool
	again       bool
	replay      []*order.Order
	version     uint64
	lastErr     error
	loadedAt    time.Time

	snapshot   atomic.Pointer[Snapshot]
	lastActive atomic.Int64

	watchMu        sync.Mutex
	watchers       map[int]chan struct{}
	nextWatcher    int
	watchersClosed bool
}

// NewDashboard creates an idle dashboard.
func NewDashboard(cfg Config) (*Dashboard, error) {
	if cfg.Loader == nil {
		return nil, errs.NewValueIsRequiredError("loader")
	}
	if cfg.Channel == nil {
		return nil, errs.NewValueIsRequiredError("push channel")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	id := uuid.New()
	d := &Dashboard{
		id:        id,
		name:      cfg.Name,
		loader:    cfg.Loader,
		filter:    cfg.Filter,
		channel:   cfg.Channel,
		logger:    cfg.Logger.With("component", "dashboard", "view", cfg.Name, "dashboard_id", id.String()),
		loaded:    make(chan struct{}),
		refreshCh: make(chan struct{}, 1),
		results:   make(chan fetchResult),
		cache:     NewOrderCache(),
		watchers:  make(map[int]chan struct{}),
	}
	d.reconciler = NewReconciler(cfg.ReconcileDelay, func() {
		if err := d.Refresh(); err == nil {
			d.logger.Info("push confirmation not received, re-fetching")
		}
	})
	d.snapshot.Store(&Snapshot{})
	d.Touch()

	return d, nil
}

// ID identifies the dashboard in logs.
func (d *Dashboard) ID() uuid.UUID {
	return d.id
}

// Name is the view the dashboard serves.
func (d *Dashboard) Name() string {
	return d.name
}

// Mount subscribes to the push channel and waits for the initial fetch.
//
// The dashboard outlives ctx: ctx only bounds the wait. When the initial fetch
// fails, Mount returns its error but the dashboard stays mounted and streaming;
// a later Refresh may succeed.
//
// Returns:
//   - ErrAlreadyMounted on a second call
//   - ErrDisposed after Unmount
//   - the subscription error, leaving the dashboard idle
//   - the initial fetch error, or ctx.Err() if ctx ends first
func (d *Dashboard) Mount(ctx context.Context) error {
	d.mu.Lock()
	switch d.state {
	case stateMounted:
		d.mu.Unlock()
		return ErrAlreadyMounted
	case stateDisposed:
		d.mu.Unlock()
		return ErrDisposed
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub, err := d.channel.Subscribe(loopCtx)
	if err != nil {
		cancel()
		d.mu.Unlock()
		return fmt.Errorf("subscribe to push channel: %w", err)
	}

	d.state = stateMounted
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.run(loopCtx, sub)
	d.mu.Unlock()

	d.Touch()
	d.logger.InfoContext(ctx, "dashboard mounted")

	select {
	case <-d.loaded:
		return d.initialErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unmount cancels the subscription and every pending reconciliation and waits for
// the task goroutine to exit. No mutation happens after Unmount returns.
// Unmount is idempotent; an unmounted dashboard cannot be mounted again.
func (d *Dashboard) Unmount() {
	d.mu.Lock()
	prev := d.state
	d.state = stateDisposed
	cancel, done := d.cancel, d.done
	d.mu.Unlock()

	if prev == stateMounted {
		d.reconciler.Stop()
		cancel()
		<-done
		d.logger.Info("dashboard unmounted")
	}
	d.closeWatchers()
}

// Mounted reports whether the dashboard is live.
func (d *Dashboard) Mounted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state == stateMounted
}

// Refresh asks for a full re-fetch. Requests made while a fetch is running are
// coalesced into one follow-up fetch.
func (d *Dashboard) Refresh() error {
	d.mu.Lock()
	st := d.state
	d.mu.Unlock()

	switch st {
	case stateIdle:
		return ErrNotMounted
	case stateDisposed:
		return ErrDisposed
	}

	select {
	case d.refreshCh <- struct{}{}:
	default:
	}
	return nil
}

// Expect registers the status orderID should reach; see Reconciler.Expect.
func (d *Dashboard) Expect(orderID kernel.ID, status order.Status) {
	d.reconciler.Expect(orderID, status)
}

// Snapshot returns the latest published snapshot. It is safe for concurrent use.
func (d *Dashboard) Snapshot() Snapshot {
	return *d.snapshot.Load()
}

// Watch returns a channel signalled after each new snapshot, and a function that
// stops watching. The channel is closed on Unmount.
func (d *Dashboard) Watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	d.watchMu.Lock()
	defer d.watchMu.Unlock()

	if d.watchersClosed {
		close(ch)
		return ch, func() {}
	}

	key := d.nextWatcher
	d.nextWatcher++
	d.watchers[key] = ch

	return ch, func() {
		d.watchMu.Lock()
		defer d.watchMu.Unlock()

		if c, ok := d.watchers[key]; ok {
			delete(d.watchers, key)
			close(c)
			d.Touch()
		}
	}
}

// Touch records viewer activity.
func (d *Dashboard) Touch() {
	d.lastActive.Store(time.Now().UnixNano())
}

// IdleFor returns how long the dashboard has gone without viewer activity.
// A dashboard with an attached watcher is never idle.
func (d *Dashboard) IdleFor(now time.Time) time.Duration {
	d.watchMu.Lock()
	watched := len(d.watchers) > 0
	d.watchMu.Unlock()

	if watched {
		return 0
	}
	return now.Sub(time.Unix(0, d.lastActive.Load()))
}

func (d *Dashboard) run(ctx context.Context, sub ports.Subscription) {
	defer close(d.done)
	defer func() {
		if err := sub.Close(); err != nil {
			d.logger.Warn("closing subscription", "error", err)
		}
	}()

	d.startFetch(ctx)

	events := sub.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				d.logger.WarnContext(ctx, "push channel closed the subscription")
				events = nil
				continue
			}
			d.apply(ctx, ev)
		case res := <-d.results:
			d.finishFetch(ctx, res)
		case <-d.refreshCh:
			d.startFetch(ctx)
		}
	}
}

func (d *Dashboard) apply(ctx context.Context, ev ports.OrderEvent) {
	if ctx.Err() != nil {
		return
	}
	if ev.IsSignal() {
		d.startFetch(ctx)
		return
	}

	o := ev.Order
	d.reconciler.Observe(o)
	if d.filter != nil && !d.filter(o) {
		return
	}

	if d.fetching || !d.initialized {
		d.replay = append(d.replay, o)
	}
	if !d.initialized {
		return
	}

	d.cache.Upsert(o)
	d.publish()
}

func (d *Dashboard) startFetch(ctx context.Context) {
	if d.fetching {
		d.again = true
		return
	}
	d.fetching = true

	go func() {
		orders, err := d.loader(ctx)
		select {
		case d.results <- fetchResult{orders: orders, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (d *Dashboard) finishFetch(ctx context.Context, res fetchResult) {
	if ctx.Err() != nil {
		return
	}

	d.fetching = false
	replay := d.replay
	d.replay = nil

	if res.err != nil {
		d.lastErr = res.err
		d.logger.ErrorContext(ctx, "full fetch failed", "error", res.err)
	} else {
		d.lastErr = nil
		d.loadedAt = time.Now()

		kept := make([]*order.Order, 0, len(res.orders))
		for _, o := range res.orders {
			if o == nil {
				continue
			}
			d.reconciler.Observe(o)
			if d.filter == nil || d.filter(o) {
				kept = append(kept, o)
			}
		}
		d.cache.ReplaceAll(kept)
	}

	if res.err == nil || !d.initialized {
		for _, o := range replay {
			d.cache.Upsert(o)
		}
	}

	first := !d.initialized
	d.initialized = true
	d.publish()

	if first {
		d.initialErr = res.err
		close(d.loaded)
	}

	if d.again {
		d.again = false
		d.startFetch(ctx)
	}
}

func (d *Dashboard) publish() {
	d.version++
	d.snapshot.Store(&Snapshot{
		Version:  d.version,
		Orders:   d.cache.Snapshot(),
		LoadedAt: d.loadedAt,
		Err:      d.lastErr,
	})

	d.watchMu.Lock()
	defer d.watchMu.Unlock()

	for _, ch := range d.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (d *Dashboard) closeWatchers() {
	d.watchMu.Lock()
	defer d.watchMu.Unlock()

	if d.watchersClosed {
		return
	}
	d.watchersClosed = true
	for key, ch := range d.watchers {
		delete(d.watchers, key)
		close(ch)
	}
}
