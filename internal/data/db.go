// Package data is the single surface the application talks to. Reads come
// from the local store; writes land locally, publish on the bus, and are
// pushed to the remote backend in the background.
package data

import (
	"context"
	"sync"
	"time"

	"fitmarket/internal/bus"
	"fitmarket/internal/domain"
	"fitmarket/internal/metrics"
	"fitmarket/internal/plan"
	"fitmarket/internal/store/local"
	"fitmarket/internal/store/remote"
	"fitmarket/internal/syncer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DB struct {
	// mu serializes mutators so multi-collection updates are not interleaved.
	mu sync.Mutex

	store   *local.Store
	gw      *remote.Gateway
	sync    *syncer.Coordinator
	bus     *bus.Bus
	plans   plan.Lifecycle
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

type Option func(*DB)

func WithLogger(log *zap.Logger) Option {
	return func(d *DB) { d.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *DB) { d.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(d *DB) { d.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(d *DB) { d.newID = fn }
}

func New(store *local.Store, gw *remote.Gateway, coord *syncer.Coordinator, b *bus.Bus, opts ...Option) *DB {
	d := &DB{
		store: store,
		gw:    gw,
		sync:  coord,
		bus:   b,
		log:   zap.NewNop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.metrics == nil {
		d.metrics = metrics.New(nil)
	}
	d.plans = plan.New(d.now)
	return d
}

// Subscribe registers fn for every data change. Call the returned func to
// stop receiving.
func (d *DB) Subscribe(fn func()) func() {
	return d.bus.Subscribe(fn)
}

// ForceSync pushes pending writes and pulls everything from the backend.
func (d *DB) ForceSync(ctx context.Context) (syncer.Report, error) {
	return d.sync.ForceSync(ctx)
}

func (d *DB) MarkLocalWrite(collections ...domain.Collection) {
	d.sync.MarkLocalWrite(collections...)
}

func (d *DB) SyncStatus() syncer.Status {
	return d.sync.Status()
}

// commit runs fn under the mutator lock and publishes once on success. The
// bus is notified outside the lock so listeners may call back into DB.
func (d *DB) commit(fn func() error) error {
	d.mu.Lock()
	err := fn()
	d.mu.Unlock()

	if err == nil {
		d.bus.Publish()
	}
	return err
}

// load never fails: a broken local read is logged and yields an empty set.
func load[T any](ctx context.Context, d *DB, c domain.Collection) []T {
	items, err := local.Load[T](ctx, d.store, c)
	if err != nil {
		d.log.Error("local read failed", zap.String("collection", string(c)), zap.Error(err))
		return []T{}
	}
	return items
}

// update opens the suppression window for c before touching it, so a pull
// already in flight cannot overwrite the result.
func update[T any](ctx context.Context, d *DB, c domain.Collection, fn func([]T) ([]T, error)) error {
	d.sync.MarkLocalWrite(c)
	return local.Update(ctx, d.store, c, fn)
}

func (d *DB) userTable(role domain.UserRole) remote.Table[domain.User] {
	if domain.UserCollection(role) == domain.CollectionProfessionals {
		return d.gw.Professionals
	}
	return d.gw.Clients
}
