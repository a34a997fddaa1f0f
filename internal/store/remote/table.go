package remote

import (
	"context"
	"time"

	"fitmarket/internal/domain"

	"github.com/sony/gobreaker"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Table is the typed CRUD surface of one remote collection.
type Table[T any] interface {
	FetchAll(ctx context.Context) ([]T, error)
	Upsert(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
}

type gormTable[T any] struct {
	name    domain.Collection
	db      *gorm.DB
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

func newGormTable[T any](db *gorm.DB, name domain.Collection, cb *gobreaker.CircuitBreaker, timeout time.Duration) *gormTable[T] {
	return &gormTable[T]{name: name, db: db, cb: cb, timeout: timeout}
}

func (t *gormTable[T]) FetchAll(ctx context.Context) ([]T, error) {
	items := []T{}
	err := t.run(ctx, "fetch", func(tx *gorm.DB) error {
		return tx.Order("id").Find(&items).Error
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (t *gormTable[T]) Upsert(ctx context.Context, item T) error {
	return t.run(ctx, "upsert", func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&item).Error
	})
}

func (t *gormTable[T]) Delete(ctx context.Context, id string) error {
	return t.run(ctx, "delete", func(tx *gorm.DB) error {
		var zero T
		return tx.Where("id = ?", id).Delete(&zero).Error
	})
}

func (t *gormTable[T]) run(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	_, err := t.cb.Execute(func() (interface{}, error) {
		return nil, fn(t.db.WithContext(ctx).Table(string(t.name)))
	})
	return wrap(op, t.name, err)
}

type notConfigured[T any] struct {
	name domain.Collection
}

func (n notConfigured[T]) FetchAll(context.Context) ([]T, error) {
	return nil, &Error{Op: "fetch", Collection: n.name, Kind: ErrNotConfigured}
}

func (n notConfigured[T]) Upsert(context.Context, T) error {
	return &Error{Op: "upsert", Collection: n.name, Kind: ErrNotConfigured}
}

func (n notConfigured[T]) Delete(context.Context, string) error {
	return &Error{Op: "delete", Collection: n.name, Kind: ErrNotConfigured}
}
