// Package syncer keeps the local store eventually consistent with the remote
// backend. Pulls replace whole collections (last writer wins per collection)
// except those written locally within the suppression window. Local writes
// reach the remote side through a single ordered push queue.
package syncer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"fitmarket/internal/bus"
	"fitmarket/internal/domain"
	"fitmarket/internal/metrics"
	"fitmarket/internal/store/local"
	"fitmarket/internal/store/remote"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultSuppressionWindow = 8 * time.Second
	DefaultQueueSize         = 256
	DefaultTimeout           = 10 * time.Second
	DefaultInterval          = 30 * time.Second
	DefaultSyncTimeout       = 2 * time.Minute
)

var ErrClosed = errors.New("sync coordinator closed")

// Report describes one pull.
type Report struct {
	Refreshed  []domain.Collection `json:"refreshed"`
	Suppressed []domain.Collection `json:"suppressed"`
	Failed     []domain.Collection `json:"failed"`
	LocalOnly  bool                `json:"local_only"`
}

// Status is a snapshot of the coordinator for diagnostics.
type Status struct {
	LastPullAt     time.Time     `json:"last_pull_at"`
	LastPullError  string        `json:"last_pull_error,omitempty"`
	LastReport     Report        `json:"last_report"`
	PendingPushes  int64         `json:"pending_pushes"`
	LocalOnly      bool          `json:"local_only"`
	BreakerState   string        `json:"breaker_state"`
	RecentFailures []PushFailure `json:"recent_failures"`
}

type binding struct {
	collection domain.Collection
	pull       func(ctx context.Context, skip func() bool) (bool, error)
}

func bind[T any](c domain.Collection, table remote.Table[T], store *local.Store) binding {
	return binding{
		collection: c,
		pull: func(ctx context.Context, skip func() bool) (bool, error) {
			items, err := table.FetchAll(ctx)
			if err != nil {
				return false, err
			}
			return local.ReplaceUnless(ctx, store, c, items, skip)
		},
	}
}

type Coordinator struct {
	store    *local.Store
	gw       *remote.Gateway
	bus      *bus.Bus
	bindings []binding

	timeout     time.Duration
	interval    time.Duration
	syncTimeout time.Duration
	now         func() time.Time
	log         *zap.Logger
	metrics     *metrics.Metrics

	suppress *suppressor
	group    singleflight.Group

	queue   chan request
	quit    chan struct{}
	pending atomic.Int64
	wg      sync.WaitGroup
	closing sync.Once

	// sendMu guards closed and every send on queue, so nothing is enqueued
	// once the worker starts its final drain.
	sendMu sync.RWMutex
	closed bool

	mu         sync.Mutex
	lastPullAt time.Time
	lastErr    error
	lastReport Report
	failures   []PushFailure
}

type Option func(*config)

type config struct {
	window      time.Duration
	queueSize   int
	timeout     time.Duration
	interval    time.Duration
	syncTimeout time.Duration
	now         func() time.Time
	log         *zap.Logger
	metrics     *metrics.Metrics
}

func WithSuppressionWindow(d time.Duration) Option {
	return func(c *config) { c.window = d }
}

func WithQueueSize(n int) Option {
	return func(c *config) { c.queueSize = n }
}

// WithTimeout bounds each queued push.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithSyncTimeout bounds one shared ForceSync round trip.
func WithSyncTimeout(d time.Duration) Option {
	return func(c *config) { c.syncTimeout = d }
}

// WithInterval sets the period of Run.
func WithInterval(d time.Duration) Option {
	return func(c *config) { c.interval = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *config) { c.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// New starts the push worker. Call Close to stop it.
func New(store *local.Store, gw *remote.Gateway, b *bus.Bus, opts ...Option) *Coordinator {
	cfg := config{
		window:      DefaultSuppressionWindow,
		queueSize:   DefaultQueueSize,
		timeout:     DefaultTimeout,
		interval:    DefaultInterval,
		syncTimeout: DefaultSyncTimeout,
		now:         time.Now,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.metrics == nil {
		cfg.metrics = metrics.New(nil)
	}

	c := &Coordinator{
		store:       store,
		gw:          gw,
		bus:         b,
		timeout:     cfg.timeout,
		interval:    cfg.interval,
		syncTimeout: cfg.syncTimeout,
		now:         cfg.now,
		log:         cfg.log,
		metrics:     cfg.metrics,
		suppress:    newSuppressor(cfg.window, cfg.now),
		queue:       make(chan request, cfg.queueSize),
		quit:        make(chan struct{}),
	}
	c.bindings = []binding{
		bind(domain.CollectionProfessionals, gw.Professionals, store),
		bind(domain.CollectionClients, gw.Clients, store),
		bind(domain.CollectionCategories, gw.Categories, store),
		bind(domain.CollectionPlans, gw.Plans, store),
		bind(domain.CollectionSlots, gw.Slots, store),
		bind(domain.CollectionBookings, gw.Bookings, store),
		bind(domain.CollectionMessages, gw.Messages, store),
		bind(domain.CollectionNotifications, gw.Notifications, store),
		bind(domain.CollectionFavorites, gw.Favorites, store),
	}

	c.wg.Add(1)
	go c.worker()
	return c
}

// MarkLocalWrite opens the suppression window for the given collections.
// With no arguments every synced collection is marked.
func (c *Coordinator) MarkLocalWrite(collections ...domain.Collection) {
	if len(collections) == 0 {
		collections = domain.SyncedCollections()
	}
	c.suppress.mark(collections...)
}

// Suppressed reports whether a pull would currently skip collection.
func (c *Coordinator) Suppressed(collection domain.Collection) bool {
	return c.suppress.active(collection)
}

// PullAll replaces every local collection with the remote snapshot, except
// collections inside their suppression window and collections whose fetch
// failed. The bus is published once when anything changed.
func (c *Coordinator) PullAll(ctx context.Context) (Report, error) {
	rep := Report{}
	if !c.gw.Configured() {
		rep.LocalOnly = true
		c.metrics.Pulls.WithLabelValues("local_only").Inc()
		c.recordPull(rep, nil)
		return rep, nil
	}

	start := c.now()
	var errs []error
	for _, b := range c.bindings {
		collection := b.collection
		written, err := b.pull(ctx, func() bool { return c.suppress.active(collection) })
		switch {
		case errors.Is(err, remote.ErrNotConfigured):
			rep.LocalOnly = true
		case err != nil:
			rep.Failed = append(rep.Failed, collection)
			errs = append(errs, err)
			c.log.Warn("pull failed",
				zap.String("collection", string(collection)),
				zap.String("kind", remote.Classify(err).Error()),
				zap.Error(err),
			)
		case written:
			rep.Refreshed = append(rep.Refreshed, collection)
		default:
			rep.Suppressed = append(rep.Suppressed, collection)
			c.metrics.Suppressed.WithLabelValues(string(collection)).Inc()
			c.log.Debug("pull suppressed by recent local write",
				zap.String("collection", string(collection)),
			)
		}
	}

	if len(rep.Refreshed) > 0 {
		c.bus.Publish()
	}

	err := errors.Join(errs...)
	result := "ok"
	if err != nil {
		result = "partial"
		if len(rep.Refreshed) == 0 && len(rep.Suppressed) == 0 {
			result = "failed"
		}
	}
	c.metrics.Pulls.WithLabelValues(result).Inc()
	c.log.Info("pull finished",
		zap.Int("refreshed", len(rep.Refreshed)),
		zap.Int("suppressed", len(rep.Suppressed)),
		zap.Int("failed", len(rep.Failed)),
		zap.Duration("took", c.now().Sub(start)),
	)
	c.recordPull(rep, err)
	return rep, err
}

// ForceSync drains pending pushes and then pulls. Concurrent callers share
// the in-flight round trip and its result. The round trip is bounded by the
// sync timeout rather than by any one caller, so a caller giving up only
// stops its own wait.
func (c *Coordinator) ForceSync(ctx context.Context) (Report, error) {
	ch := c.group.DoChan("sync", func() (interface{}, error) {
		syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.syncTimeout)
		defer cancel()

		if err := c.Flush(syncCtx); err != nil {
			return Report{}, err
		}
		return c.PullAll(syncCtx)
	})

	select {
	case res := <-ch:
		rep, _ := res.Val.(Report)
		return rep, res.Err
	case <-ctx.Done():
		return Report{}, ctx.Err()
	}
}

// Run pulls once immediately and then every interval until ctx is done.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		if _, err := c.ForceSync(ctx); err != nil && ctx.Err() == nil {
			c.log.Warn("periodic sync incomplete", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		LastPullAt:     c.lastPullAt,
		LastReport:     c.lastReport,
		PendingPushes:  c.pending.Load(),
		LocalOnly:      !c.gw.Configured() || c.lastReport.LocalOnly,
		BreakerState:   c.gw.BreakerState(),
		RecentFailures: append([]PushFailure(nil), c.failures...),
	}
	if c.lastErr != nil {
		st.LastPullError = c.lastErr.Error()
	}
	return st
}

// Close stops the push worker after attempting everything already queued.
func (c *Coordinator) Close() {
	c.closing.Do(func() {
		c.sendMu.Lock()
		c.closed = true
		c.sendMu.Unlock()

		close(c.quit)
		c.wg.Wait()
	})
}

func (c *Coordinator) recordPull(rep Report, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastPullAt = c.now()
	c.lastReport = rep
	c.lastErr = err
}
