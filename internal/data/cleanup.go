package data

import (
	"context"
	"time"

	"fitmarket/internal/domain"
	"fitmarket/internal/syncer"

	"go.uber.org/zap"
)

// PruneNotifications removes read notifications older than keep and returns
// how many were removed. Unread notifications are never pruned.
func (d *DB) PruneNotifications(ctx context.Context, keep time.Duration) (int, error) {
	if keep <= 0 {
		return 0, invalid("retention must be positive")
	}

	start := time.Now()
	cutoff := d.now().Add(-keep)
	var removed []string
	err := d.commit(func() error {
		err := update(ctx, d, domain.CollectionNotifications, func(items []domain.Notification) ([]domain.Notification, error) {
			out := items[:0:0]
			for _, n := range items {
				if n.IsRead && n.CreatedAt.Before(cutoff) {
					removed = append(removed, n.ID)
					continue
				}
				out = append(out, n)
			}
			return out, nil
		})
		if err != nil {
			return err
		}
		for _, id := range removed {
			d.sync.Push(syncer.Delete(domain.CollectionNotifications, d.gw.Notifications, id))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	d.log.Info("notification cleanup completed",
		zap.Int("deleted", len(removed)),
		zap.Duration("took", time.Since(start)))
	return len(removed), nil
}
