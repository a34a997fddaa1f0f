// Package local is the device-local persistent cache: one JSON array per
// collection, stored under a namespaced key.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"fitmarket/internal/domain"

	"go.uber.org/zap"
)

const defaultImageLimit = 100 * 1024

// ImageStripper is implemented by records carrying embedded images that may
// be dropped when storage runs out of room.
type ImageStripper interface {
	StripInlineImages(limit int) bool
}

// Store serializes access to a Backend. All read-modify-write sequences run
// under one lock so a collection is never observed half-written.
type Store struct {
	mu         sync.Mutex
	backend    Backend
	namespace  string
	imageLimit int
	log        *zap.Logger
}

type Option func(*Store)

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithImageLimit sets the size above which inline images are stripped on a
// quota failure.
func WithImageLimit(bytes int) Option {
	return func(s *Store) { s.imageLimit = bytes }
}

func New(backend Backend, namespace string, opts ...Option) *Store {
	s := &Store{
		backend:    backend,
		namespace:  namespace,
		imageLimit: defaultImageLimit,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(c domain.Collection) string {
	return s.namespace + ":" + string(c)
}

// Load returns the stored collection, or an empty slice if nothing was
// written yet.
func Load[T any](ctx context.Context, s *Store, c domain.Collection) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[T](ctx, s, c)
}

// Save replaces the collection wholesale.
func Save[T any](ctx context.Context, s *Store, c domain.Collection, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(ctx, s, c, items)
}

// Update runs fn over the current collection and stores its result. Nothing
// is written when fn fails.
func Update[T any](ctx context.Context, s *Store, c domain.Collection, fn func([]T) ([]T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := load[T](ctx, s, c)
	if err != nil {
		return err
	}
	out, err := fn(items)
	if err != nil {
		return err
	}
	return save(ctx, s, c, out)
}

// ReplaceUnless stores items unless skip reports true. skip is evaluated
// under the store lock, after any concurrent local write has finished.
func ReplaceUnless[T any](ctx context.Context, s *Store, c domain.Collection, items []T, skip func() bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if skip != nil && skip() {
		return false, nil
	}
	if err := save(ctx, s, c, items); err != nil {
		return false, err
	}
	return true, nil
}

// LoadValue reads a single-record collection such as the session user.
func LoadValue[T any](ctx context.Context, s *Store, c domain.Collection) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.backend.Read(ctx, s.key(c))
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	return v, nil
}

// SaveValue writes a single-record collection; nil clears it.
func SaveValue[T any](ctx context.Context, s *Store, c domain.Collection, v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveValue(ctx, s, c, v)
}

// UpdateWithValue runs fn over collection c and the single record vc and
// stores both under one lock. A nil value from fn leaves vc untouched. When
// the value cannot be written the collection is restored to its previous
// contents, so either both writes land or neither does.
func UpdateWithValue[T, V any](ctx context.Context, s *Store, c, vc domain.Collection, fn func([]T, *V) ([]T, *V, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.backend.Read(ctx, s.key(c))
	if err != nil {
		return err
	}
	items, err := load[T](ctx, s, c)
	if err != nil {
		return err
	}

	rawVal, err := s.backend.Read(ctx, s.key(vc))
	if err != nil {
		return err
	}
	var cur *V
	if len(rawVal) > 0 {
		if err := json.Unmarshal(rawVal, &cur); err != nil {
			return fmt.Errorf("decode %s: %w", vc, err)
		}
	}

	out, val, err := fn(items, cur)
	if err != nil {
		return err
	}
	if err := save(ctx, s, c, out); err != nil {
		return err
	}
	if val == nil {
		return nil
	}
	if err := saveValue(ctx, s, vc, val); err != nil {
		if len(prev) == 0 {
			prev = []byte("[]")
		}
		if rerr := s.backend.Write(ctx, s.key(c), prev); rerr != nil {
			s.log.Error("restore after failed value write",
				zap.String("collection", string(c)),
				zap.Error(rerr),
			)
		}
		return err
	}
	return nil
}

func load[T any](ctx context.Context, s *Store, c domain.Collection) ([]T, error) {
	raw, err := s.backend.Read(ctx, s.key(c))
	if err != nil {
		return nil, err
	}
	items := []T{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save[T any](ctx context.Context, s *Store, c domain.Collection, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	err = s.backend.Write(ctx, s.key(c), raw)
	if !errors.Is(err, ErrQuotaExceeded) {
		return err
	}

	stripped, changed := stripImages(items, s.imageLimit)
	if !changed {
		return err
	}
	s.log.Warn("local quota exceeded, retrying without inline images",
		zap.String("collection", string(c)),
		zap.Int("bytes", len(raw)),
	)

	raw, err = json.Marshal(stripped)
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, s.key(c), raw); err != nil {
		return fmt.Errorf("write %s after stripping images: %w", c, err)
	}
	return nil
}

func saveValue[T any](ctx context.Context, s *Store, c domain.Collection, v *T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	err = s.backend.Write(ctx, s.key(c), raw)
	if v == nil || !errors.Is(err, ErrQuotaExceeded) {
		return err
	}

	cp := *v
	st, ok := any(&cp).(ImageStripper)
	if !ok || !st.StripInlineImages(s.imageLimit) {
		return err
	}
	s.log.Warn("local quota exceeded, retrying without inline images",
		zap.String("collection", string(c)),
		zap.Int("bytes", len(raw)),
	)

	raw, err = json.Marshal(&cp)
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, s.key(c), raw); err != nil {
		return fmt.Errorf("write %s after stripping images: %w", c, err)
	}
	return nil
}

func stripImages[T any](items []T, limit int) ([]T, bool) {
	out := make([]T, len(items))
	copy(out, items)

	changed := false
	for i := range out {
		if st, ok := any(&out[i]).(ImageStripper); ok && st.StripInlineImages(limit) {
			changed = true
		}
	}
	return out, changed
}
