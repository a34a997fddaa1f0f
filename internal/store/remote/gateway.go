// Package remote is the gateway to the hosted relational backend. Each
// collection maps to a table of the same name.
package remote

import (
	"time"

	"fitmarket/internal/domain"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultTimeout = 10 * time.Second

// Gateway holds one Table per synced collection. Fields are exported so
// callers (and tests) can swap a single table.
type Gateway struct {
	Professionals Table[domain.User]
	Clients       Table[domain.User]
	Categories    Table[domain.Category]
	Plans         Table[domain.Plan]
	Slots         Table[domain.TimeSlot]
	Bookings      Table[domain.Booking]
	Messages      Table[domain.ChatMessage]
	Notifications Table[domain.Notification]
	Favorites     Table[domain.Favorite]

	configured bool
	breaker    *gobreaker.CircuitBreaker
}

type options struct {
	timeout  time.Duration
	log      *zap.Logger
	settings *gobreaker.Settings
}

type Option func(*options)

// WithTimeout bounds every remote call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithBreakerSettings overrides the circuit breaker configuration.
func WithBreakerSettings(s gobreaker.Settings) Option {
	return func(o *options) { o.settings = &s }
}

// NewGateway binds every collection to db. A nil db yields a gateway whose
// tables all report ErrNotConfigured.
func NewGateway(db *gorm.DB, opts ...Option) *Gateway {
	o := options{timeout: defaultTimeout, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	if db == nil {
		return &Gateway{
			Professionals: notConfigured[domain.User]{domain.CollectionProfessionals},
			Clients:       notConfigured[domain.User]{domain.CollectionClients},
			Categories:    notConfigured[domain.Category]{domain.CollectionCategories},
			Plans:         notConfigured[domain.Plan]{domain.CollectionPlans},
			Slots:         notConfigured[domain.TimeSlot]{domain.CollectionSlots},
			Bookings:      notConfigured[domain.Booking]{domain.CollectionBookings},
			Messages:      notConfigured[domain.ChatMessage]{domain.CollectionMessages},
			Notifications: notConfigured[domain.Notification]{domain.CollectionNotifications},
			Favorites:     notConfigured[domain.Favorite]{domain.CollectionFavorites},
		}
	}

	cb := newBreaker(o)
	t := o.timeout
	return &Gateway{
		Professionals: newGormTable[domain.User](db, domain.CollectionProfessionals, cb, t),
		Clients:       newGormTable[domain.User](db, domain.CollectionClients, cb, t),
		Categories:    newGormTable[domain.Category](db, domain.CollectionCategories, cb, t),
		Plans:         newGormTable[domain.Plan](db, domain.CollectionPlans, cb, t),
		Slots:         newGormTable[domain.TimeSlot](db, domain.CollectionSlots, cb, t),
		Bookings:      newGormTable[domain.Booking](db, domain.CollectionBookings, cb, t),
		Messages:      newGormTable[domain.ChatMessage](db, domain.CollectionMessages, cb, t),
		Notifications: newGormTable[domain.Notification](db, domain.CollectionNotifications, cb, t),
		Favorites:     newGormTable[domain.Favorite](db, domain.CollectionFavorites, cb, t),
		configured:    true,
		breaker:       cb,
	}
}

// Configured reports whether a backend is bound.
func (g *Gateway) Configured() bool { return g.configured }

// BreakerState returns the shared breaker state, or "disabled" when not
// configured.
func (g *Gateway) BreakerState() string {
	if g.breaker == nil {
		return "disabled"
	}
	return g.breaker.State().String()
}

func newBreaker(o options) *gobreaker.CircuitBreaker {
	if o.settings != nil {
		return gobreaker.NewCircuitBreaker(*o.settings)
	}
	log := o.log
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "remote-store",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     o.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		// Rejections are the backend answering; they must not open the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil || Classify(err) == ErrRejected
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Migrate creates or updates every remote table.
func Migrate(db *gorm.DB) error {
	tables := []struct {
		name  domain.Collection
		model interface{}
	}{
		{domain.CollectionProfessionals, &domain.User{}},
		{domain.CollectionClients, &domain.User{}},
		{domain.CollectionCategories, &domain.Category{}},
		{domain.CollectionPlans, &domain.Plan{}},
		{domain.CollectionSlots, &domain.TimeSlot{}},
		{domain.CollectionBookings, &domain.Booking{}},
		{domain.CollectionMessages, &domain.ChatMessage{}},
		{domain.CollectionNotifications, &domain.Notification{}},
		{domain.CollectionFavorites, &domain.Favorite{}},
	}
	for _, t := range tables {
		if err := db.Table(string(t.name)).AutoMigrate(t.model); err != nil {
			return err
		}
	}
	return nil
}
