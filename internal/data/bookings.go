package data

import (
	"context"
	"errors"
	"slices"

	"fitmarket/internal/capacity"
	"fitmarket/internal/domain"
	"fitmarket/internal/syncer"

	"go.uber.org/zap"
)

// CreateBooking re-checks capacity against the stored bookings at the moment
// of insertion. The check is local only: another device may still book the
// last seat before this booking reaches the backend.
func (d *DB) CreateBooking(ctx context.Context, in domain.Booking) (domain.Booking, error) {
	if in.ClientID == "" || in.SlotID == "" {
		return domain.Booking{}, invalid("client_id and slot_id are required")
	}

	var created domain.Booking
	err := d.commit(func() error {
		slot, ok := d.findSlot(ctx, in.SlotID)
		if !ok {
			return notFound("slot", in.SlotID)
		}

		current := d.GetBookings(ctx)
		if err := capacity.Check(in.ClientID, slot, current); err != nil {
			d.rejectBooking(err, in)
			return err
		}
		if err := d.checkReservationLimit(ctx, slot.TeacherID, current); err != nil {
			d.rejectBooking(err, in)
			return err
		}

		b := in
		if b.ID == "" {
			b.ID = d.newID()
		}
		b.TeacherID = slot.TeacherID
		b.Status = domain.BookingPending
		if b.Price == 0 {
			b.Price = slot.Price
		}
		if b.Date.IsZero() {
			b.Date = slot.StartAt
		}
		b.CreatedAt = d.now()

		err := update(ctx, d, domain.CollectionBookings, func(items []domain.Booking) ([]domain.Booking, error) {
			if err := capacity.Check(b.ClientID, slot, items); err != nil {
				return nil, err
			}
			return append(items, b), nil
		})
		if err != nil {
			d.rejectBooking(err, b)
			return err
		}

		created = b
		d.sync.Push(syncer.Upsert(domain.CollectionBookings, d.gw.Bookings, b.ID, b))
		d.notify(ctx, bookingCreatedNote(b, slot))
		return nil
	})
	return created, err
}

// UpdateBookingStatus moves a booking to status. A booking that starts
// occupying a seat again has to fit the slot like a new one.
func (d *DB) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (domain.Booking, error) {
	if !status.Valid() {
		return domain.Booking{}, invalid("unknown booking status %q", status)
	}

	var updated domain.Booking
	var changed bool
	err := d.commit(func() error {
		slots := load[domain.TimeSlot](ctx, d, domain.CollectionSlots)

		err := update(ctx, d, domain.CollectionBookings, func(items []domain.Booking) ([]domain.Booking, error) {
			i := slices.IndexFunc(items, func(b domain.Booking) bool { return b.ID == id })
			if i < 0 {
				return nil, notFound("booking", id)
			}
			b := items[i]

			if status.Occupies() && !b.Status.Occupies() {
				j := slices.IndexFunc(slots, func(s domain.TimeSlot) bool { return s.ID == b.SlotID })
				if j < 0 {
					return nil, notFound("slot", b.SlotID)
				}
				others := slices.Delete(slices.Clone(items), i, i+1)
				if err := capacity.Check(b.ClientID, slots[j], others); err != nil {
					return nil, err
				}
			}

			changed = b.Status != status
			b.Status = status
			items[i] = b
			updated = b
			return items, nil
		})
		if err != nil {
			return err
		}

		d.sync.Push(syncer.Upsert(domain.CollectionBookings, d.gw.Bookings, updated.ID, updated))
		if n, ok := bookingStatusNote(updated); ok && changed {
			d.notify(ctx, n)
		}
		return nil
	})
	return updated, err
}

func (d *DB) DeleteBooking(ctx context.Context, id string) error {
	return d.commit(func() error {
		err := update(ctx, d, domain.CollectionBookings, func(items []domain.Booking) ([]domain.Booking, error) {
			out, ok := removeByID(items, id, bookingID)
			if !ok {
				return nil, notFound("booking", id)
			}
			return out, nil
		})
		if err != nil {
			return err
		}
		d.sync.Push(syncer.Delete(domain.CollectionBookings, d.gw.Bookings, id))
		return nil
	})
}

// checkReservationLimit applies the monthly cap of the professional's plan
// when the plan is in force and found in the catalog.
func (d *DB) checkReservationLimit(ctx context.Context, teacherID string, bookings []domain.Booking) error {
	pros := d.GetPros(ctx)
	i := slices.IndexFunc(pros, func(u domain.User) bool { return u.ID == teacherID })
	if i < 0 || !d.plans.EffectivelyActive(pros[i]) {
		return nil
	}
	p, ok := planByName(d.GetPlans(ctx), pros[i].PlanType)
	if !ok || p.MaxReservationsPerMonth <= 0 {
		return nil
	}

	now := d.now()
	year, month, _ := now.Date()
	count := 0
	for _, b := range bookings {
		if b.TeacherID != teacherID || !capacity.Occupies(b) {
			continue
		}
		y, m, _ := b.CreatedAt.In(now.Location()).Date()
		if y == year && m == month {
			count++
		}
	}

	if count >= p.MaxReservationsPerMonth {
		return &LimitError{
			Err:      ErrReservationLimit,
			Current:  count,
			Limit:    p.MaxReservationsPerMonth,
			PlanName: p.Name,
		}
	}
	return nil
}

func (d *DB) rejectBooking(err error, b domain.Booking) {
	reason := "other"
	switch {
	case errors.Is(err, capacity.ErrCapacityExceeded):
		reason = "capacity"
	case errors.Is(err, capacity.ErrDuplicateBooking):
		reason = "duplicate"
	case errors.Is(err, capacity.ErrSlotClosed):
		reason = "closed"
	case errors.Is(err, ErrReservationLimit):
		reason = "limit"
	}
	d.metrics.BookingRejections.WithLabelValues(reason).Inc()
	d.log.Debug("booking rejected",
		zap.String("reason", reason),
		zap.String("client_id", b.ClientID),
		zap.String("slot_id", b.SlotID),
	)
}
