package data

import (
	"context"
	"slices"
	"strings"

	"fitmarket/internal/domain"
	"fitmarket/internal/syncer"
)

func (d *DB) SendMessage(ctx context.Context, m domain.ChatMessage) (domain.ChatMessage, error) {
	switch {
	case m.SenderID == "" || m.ReceiverID == "":
		return domain.ChatMessage{}, invalid("sender_id and receiver_id are required")
	case m.SenderID == m.ReceiverID:
		return domain.ChatMessage{}, invalid("cannot message yourself")
	case strings.TrimSpace(m.Text) == "" && m.Attachment == nil:
		return domain.ChatMessage{}, invalid("message needs text or an attachment")
	}

	err := d.commit(func() error {
		if m.ID == "" {
			m.ID = d.newID()
		}
		m.Timestamp = d.now()
		m.IsRead = false

		err := update(ctx, d, domain.CollectionMessages, func(items []domain.ChatMessage) ([]domain.ChatMessage, error) {
			return append(items, m), nil
		})
		if err != nil {
			return err
		}
		d.sync.Push(syncer.Upsert(domain.CollectionMessages, d.gw.Messages, m.ID, m))
		d.notify(ctx, messageNote(m))
		return nil
	})
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return m, nil
}

// MarkMessagesAsRead marks everything otherID sent to readerID as read and
// returns how many messages changed.
func (d *DB) MarkMessagesAsRead(ctx context.Context, readerID, otherID string) (int, error) {
	var marked []domain.ChatMessage
	err := d.commit(func() error {
		err := update(ctx, d, domain.CollectionMessages, func(items []domain.ChatMessage) ([]domain.ChatMessage, error) {
			for i, m := range items {
				if m.SenderID == otherID && m.ReceiverID == readerID && !m.IsRead {
					items[i].IsRead = true
					marked = append(marked, items[i])
				}
			}
			return items, nil
		})
		if err != nil {
			return err
		}
		for _, m := range marked {
			d.sync.Push(syncer.Upsert(domain.CollectionMessages, d.gw.Messages, m.ID, m))
		}
		return nil
	})
	return len(marked), err
}

// ToggleFavorite adds or removes professionalID from userID's favorites and
// reports whether it is now a favorite.
func (d *DB) ToggleFavorite(ctx context.Context, userID, professionalID string) (bool, error) {
	if userID == "" || professionalID == "" {
		return false, invalid("user_id and professional_id are required")
	}

	var added bool
	err := d.commit(func() error {
		var op syncer.Op
		err := update(ctx, d, domain.CollectionFavorites, func(items []domain.Favorite) ([]domain.Favorite, error) {
			i := slices.IndexFunc(items, func(f domain.Favorite) bool {
				return f.UserID == userID && f.ProfessionalID == professionalID
			})
			if i >= 0 {
				op = syncer.Delete(domain.CollectionFavorites, d.gw.Favorites, items[i].ID)
				out, _ := removeByID(items, items[i].ID, favoriteID)
				return out, nil
			}

			f := domain.Favorite{ID: d.newID(), UserID: userID, ProfessionalID: professionalID, CreatedAt: d.now()}
			op = syncer.Upsert(domain.CollectionFavorites, d.gw.Favorites, f.ID, f)
			added = true
			return append(items, f), nil
		})
		if err != nil {
			return err
		}
		d.sync.Push(op)
		return nil
	})
	return added, err
}

func (d *DB) MarkNotificationsRead(ctx context.Context, userID string) (int, error) {
	var marked []domain.Notification
	err := d.commit(func() error {
		err := update(ctx, d, domain.CollectionNotifications, func(items []domain.Notification) ([]domain.Notification, error) {
			for i, n := range items {
				if n.UserID == userID && !n.IsRead {
					items[i].IsRead = true
					marked = append(marked, items[i])
				}
			}
			return items, nil
		})
		if err != nil {
			return err
		}
		for _, n := range marked {
			d.sync.Push(syncer.Upsert(domain.CollectionNotifications, d.gw.Notifications, n.ID, n))
		}
		return nil
	})
	return len(marked), err
}
