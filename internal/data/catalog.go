package data

import (
	"context"
	"slices"

	"fitmarket/internal/capacity"
	"fitmarket/internal/domain"
	"fitmarket/internal/store/local"
	"fitmarket/internal/syncer"

	"go.uber.org/zap"
)

// SaveSlot creates or updates a slot. Capacity is fixed once the slot exists.
func (d *DB) SaveSlot(ctx context.Context, s domain.TimeSlot) (domain.TimeSlot, error) {
	switch {
	case s.TeacherID == "":
		return domain.TimeSlot{}, invalid("teacher_id is required")
	case s.StartAt.IsZero() || !s.EndAt.After(s.StartAt):
		return domain.TimeSlot{}, invalid("end_at must be after start_at")
	case s.CapacityTotal <= 0:
		return domain.TimeSlot{}, invalid("capacity_total must be positive")
	}
	if s.Type == "" {
		s.Type = domain.SlotIndividual
	}
	if s.Type != domain.SlotIndividual && s.Type != domain.SlotGroup {
		return domain.TimeSlot{}, invalid("unknown slot type %q", s.Type)
	}
	if s.Status == "" {
		s.Status = domain.SlotActive
	}

	err := d.commit(func() error {
		if s.ID == "" {
			s.ID = d.newID()
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = d.now()
		}
		s.CapacityBooked = 0

		err := update(ctx, d, domain.CollectionSlots, func(items []domain.TimeSlot) ([]domain.TimeSlot, error) {
			if i := slices.IndexFunc(items, func(x domain.TimeSlot) bool { return x.ID == s.ID }); i >= 0 {
				if items[i].CapacityTotal != s.CapacityTotal {
					return nil, ErrCapacityImmutable
				}
				s.CreatedAt = items[i].CreatedAt
			}
			return upsertByID(items, s, slotID), nil
		})
		if err != nil {
			return err
		}
		d.sync.Push(syncer.Upsert(domain.CollectionSlots, d.gw.Slots, s.ID, s))
		return nil
	})
	if err != nil {
		return domain.TimeSlot{}, err
	}
	s.CapacityBooked = capacity.Occupied(s.ID, d.GetBookings(ctx))
	return s, nil
}

// DeleteSlot cancels every booking still holding a seat on the slot and then
// removes it. Remote writes are queued only once both local writes landed.
func (d *DB) DeleteSlot(ctx context.Context, id string) error {
	return d.commit(func() error {
		if _, ok := d.findSlot(ctx, id); !ok {
			return notFound("slot", id)
		}

		before := d.GetBookings(ctx)
		var cancelled []domain.Booking
		err := update(ctx, d, domain.CollectionBookings, func(items []domain.Booking) ([]domain.Booking, error) {
			for i, b := range items {
				if b.SlotID == id && capacity.Occupies(b) {
					items[i].Status = domain.BookingCancelled
					cancelled = append(cancelled, items[i])
				}
			}
			return items, nil
		})
		if err != nil {
			return err
		}

		err = update(ctx, d, domain.CollectionSlots, func(items []domain.TimeSlot) ([]domain.TimeSlot, error) {
			out, ok := removeByID(items, id, slotID)
			if !ok {
				return nil, notFound("slot", id)
			}
			return out, nil
		})
		if err != nil {
			if len(cancelled) > 0 {
				if rerr := local.Save(ctx, d.store, domain.CollectionBookings, before); rerr != nil {
					d.log.Error("restore bookings after failed slot delete",
						zap.String("slot_id", id),
						zap.Error(rerr),
					)
				}
			}
			return err
		}

		d.sync.Push(syncer.Delete(domain.CollectionSlots, d.gw.Slots, id))
		notes := make([]domain.Notification, 0, len(cancelled))
		for _, b := range cancelled {
			d.sync.Push(syncer.Upsert(domain.CollectionBookings, d.gw.Bookings, b.ID, b))
			if n, ok := bookingStatusNote(b); ok {
				notes = append(notes, n)
			}
		}
		d.notify(ctx, notes...)
		return nil
	})
}

func (d *DB) SavePlan(ctx context.Context, p domain.Plan) (domain.Plan, error) {
	switch {
	case p.Name == "":
		return domain.Plan{}, invalid("plan name is required")
	case p.Price < 0:
		return domain.Plan{}, invalid("plan price cannot be negative")
	case p.PromoPrice != nil && *p.PromoPrice < 0:
		return domain.Plan{}, invalid("promo price cannot be negative")
	case p.DurationMonths < 0 || p.DurationDays < 0:
		return domain.Plan{}, invalid("plan duration cannot be negative")
	}

	err := d.commit(func() error {
		if p.ID == "" {
			p.ID = d.newID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = d.now()
		}
		err := update(ctx, d, domain.CollectionPlans, func(items []domain.Plan) ([]domain.Plan, error) {
			return upsertByID(items, p, planID), nil
		})
		if err != nil {
			return err
		}
		d.sync.Push(syncer.Upsert(domain.CollectionPlans, d.gw.Plans, p.ID, p))
		return nil
	})
	if err != nil {
		return domain.Plan{}, err
	}
	return p, nil
}

func (d *DB) DeletePlan(ctx context.Context, id string) error {
	return d.commit(func() error {
		err := update(ctx, d, domain.CollectionPlans, func(items []domain.Plan) ([]domain.Plan, error) {
			out, ok := removeByID(items, id, planID)
			if !ok {
				return nil, notFound("plan", id)
			}
			return out, nil
		})
		if err != nil {
			return err
		}
		d.sync.Push(syncer.Delete(domain.CollectionPlans, d.gw.Plans, id))
		return nil
	})
}

func (d *DB) SaveCategory(ctx context.Context, c domain.Category) (domain.Category, error) {
	if c.Name == "" {
		return domain.Category{}, invalid("category name is required")
	}

	err := d.commit(func() error {
		if c.ID == "" {
			c.ID = d.newID()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = d.now()
		}
		err := update(ctx, d, domain.CollectionCategories, func(items []domain.Category) ([]domain.Category, error) {
			return upsertByID(items, c, categoryID), nil
		})
		if err != nil {
			return err
		}
		d.sync.Push(syncer.Upsert(domain.CollectionCategories, d.gw.Categories, c.ID, c))
		return nil
	})
	if err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (d *DB) DeleteCategory(ctx context.Context, id string) error {
	return d.commit(func() error {
		err := update(ctx, d, domain.CollectionCategories, func(items []domain.Category) ([]domain.Category, error) {
			out, ok := removeByID(items, id, categoryID)
			if !ok {
				return nil, notFound("category", id)
			}
			return out, nil
		})
		if err != nil {
			return err
		}
		d.sync.Push(syncer.Delete(domain.CollectionCategories, d.gw.Categories, id))
		return nil
	})
}
