package data

import (
	"context"

	"fitmarket/internal/domain"
	"fitmarket/internal/plan"
	"fitmarket/internal/store/local"
	"fitmarket/internal/syncer"
)

// SaveUser creates or replaces a user in the collection matching its role.
// Plan fields are normalized so they always describe one plan state.
func (d *DB) SaveUser(ctx context.Context, u domain.User) (domain.User, error) {
	if !u.Role.Valid() {
		return domain.User{}, invalid("unknown role %q", u.Role)
	}

	err := d.commit(func() error {
		now := d.now()
		if u.ID == "" {
			u.ID = d.newID()
		} else if prev, ok := d.GetUser(ctx, u.ID); ok && prev.Role != u.Role {
			return invalid("role of user %q cannot change from %s to %s", u.ID, prev.Role, u.Role)
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = now
		}
		if u.Status == "" {
			u.Status = domain.UserActive
		}
		u.UpdatedAt = now
		if u.IsProfessional() {
			u = plan.Apply(u, plan.Of(u))
		} else {
			u = plan.Apply(u, plan.NoPlan{})
		}

		return d.storeUser(ctx, u)
	})
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// storeUser writes u locally, refreshes the session copy if it is the
// signed-in user, and queues the remote write. Both local writes land or
// neither does.
func (d *DB) storeUser(ctx context.Context, u domain.User) error {
	c := domain.UserCollection(u.Role)
	d.sync.MarkLocalWrite(c)
	err := local.UpdateWithValue(ctx, d.store, c, domain.CollectionSessionUser,
		func(items []domain.User, session *domain.User) ([]domain.User, *domain.User, error) {
			items = upsertByID(items, u, userID)
			if session == nil || session.ID != u.ID {
				return items, nil, nil
			}
			return items, &u, nil
		})
	if err != nil {
		return err
	}

	d.sync.Push(syncer.Upsert(c, d.userTable(u.Role), u.ID, u))
	return nil
}

// SetSessionUser records who is signed in on this device. It never leaves
// the device.
func (d *DB) SetSessionUser(ctx context.Context, u domain.User) error {
	if u.ID == "" {
		return invalid("session user needs an id")
	}
	return d.commit(func() error {
		return local.SaveValue(ctx, d.store, domain.CollectionSessionUser, &u)
	})
}

func (d *DB) ClearSession(ctx context.Context) error {
	return d.commit(func() error {
		return local.SaveValue[domain.User](ctx, d.store, domain.CollectionSessionUser, nil)
	})
}
