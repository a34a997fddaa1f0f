package syncer

import (
	"context"
	"errors"
	"time"

	"fitmarket/internal/domain"
	"fitmarket/internal/store/remote"

	"go.uber.org/zap"
)

const maxRecentFailures = 20

type Action string

const (
	ActionUpsert Action = "upsert"
	ActionDelete Action = "delete"
)

// Op is one pending remote write.
type Op struct {
	Collection domain.Collection
	Action     Action
	ID         string

	run func(ctx context.Context) error
}

// Upsert builds an op that writes item to table.
func Upsert[T any](c domain.Collection, table remote.Table[T], id string, item T) Op {
	return Op{
		Collection: c,
		Action:     ActionUpsert,
		ID:         id,
		run:        func(ctx context.Context) error { return table.Upsert(ctx, item) },
	}
}

// Delete builds an op that removes id from table.
func Delete[T any](c domain.Collection, table remote.Table[T], id string) Op {
	return Op{
		Collection: c,
		Action:     ActionDelete,
		ID:         id,
		run:        func(ctx context.Context) error { return table.Delete(ctx, id) },
	}
}

// PushFailure records a remote write that did not land.
type PushFailure struct {
	Collection domain.Collection `json:"collection"`
	Action     Action            `json:"action"`
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	Error      string            `json:"error"`
	At         time.Time         `json:"at"`
}

type request struct {
	op      *Op
	barrier chan struct{}
}

// Push hands op to the ordered remote writer. It never fails: remote errors
// are logged and recorded in Status, and local state stays as written.
func (c *Coordinator) Push(op Op) {
	if !c.gw.Configured() {
		return
	}

	c.sendMu.RLock()
	defer c.sendMu.RUnlock()
	if c.closed {
		c.log.Warn("push dropped after close",
			zap.String("collection", string(op.Collection)),
			zap.String("id", op.ID),
		)
		return
	}

	c.pending.Add(1)
	c.metrics.PushQueueDepth.Inc()
	c.queue <- request{op: &op}
}

// Flush blocks until every push enqueued before the call has been attempted.
func (c *Coordinator) Flush(ctx context.Context) error {
	if !c.gw.Configured() {
		return nil
	}

	done := make(chan struct{})
	if err := c.enqueueBarrier(ctx, done); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) enqueueBarrier(ctx context.Context, done chan struct{}) error {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()
	if c.closed {
		return ErrClosed
	}

	select {
	case c.queue <- request{barrier: done}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) worker() {
	defer c.wg.Done()
	for {
		select {
		case req := <-c.queue:
			c.handle(req)
		case <-c.quit:
			for {
				select {
				case req := <-c.queue:
					c.handle(req)
				default:
					return
				}
			}
		}
	}
}

func (c *Coordinator) handle(req request) {
	if req.barrier != nil {
		close(req.barrier)
		return
	}
	defer func() {
		c.pending.Add(-1)
		c.metrics.PushQueueDepth.Dec()
	}()

	op := req.op
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	err := op.run(ctx)
	switch {
	case err == nil:
		c.metrics.Pushes.WithLabelValues(string(op.Collection), "ok").Inc()
	case errors.Is(err, remote.ErrNotConfigured):
		c.metrics.Pushes.WithLabelValues(string(op.Collection), "local_only").Inc()
	default:
		kind := remote.Classify(err)
		c.metrics.Pushes.WithLabelValues(string(op.Collection), "failed").Inc()
		c.log.Error("remote push failed",
			zap.String("collection", string(op.Collection)),
			zap.String("action", string(op.Action)),
			zap.String("id", op.ID),
			zap.String("kind", kind.Error()),
			zap.Error(err),
		)
		c.recordFailure(PushFailure{
			Collection: op.Collection,
			Action:     op.Action,
			ID:         op.ID,
			Kind:       kind.Error(),
			Error:      err.Error(),
			At:         c.now(),
		})
	}
}

func (c *Coordinator) recordFailure(f PushFailure) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures = append(c.failures, f)
	if len(c.failures) > maxRecentFailures {
		c.failures = c.failures[len(c.failures)-maxRecentFailures:]
	}
}
