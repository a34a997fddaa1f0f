package syncer

import (
	"sync"
	"time"

	"fitmarket/internal/domain"
)

// suppressor remembers when each collection was last written locally.
type suppressor struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	last   map[domain.Collection]time.Time
}

func newSuppressor(window time.Duration, now func() time.Time) *suppressor {
	return &suppressor{
		window: window,
		now:    now,
		last:   make(map[domain.Collection]time.Time),
	}
}

func (s *suppressor) mark(collections ...domain.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, c := range collections {
		s.last[c] = now
	}
}

// active reports whether a pull must leave c alone.
func (s *suppressor) active(c domain.Collection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.last[c]
	return ok && s.now().Sub(t) < s.window
}
