// Package capacity derives seat usage of time slots from their bookings.
// Nothing here is stored: every answer is recomputed from the inputs.
package capacity

import (
	"errors"

	"fitmarket/internal/domain"
)

var (
	ErrCapacityExceeded = errors.New("slot capacity exceeded")
	ErrDuplicateBooking = errors.New("client already holds an active booking for this slot")
	ErrSlotClosed       = errors.New("slot is not open for booking")
)

// Occupies reports whether b holds a seat.
func Occupies(b domain.Booking) bool {
	return b.Status.Occupies()
}

// Occupied counts the seats taken on slotID.
func Occupied(slotID string, bookings []domain.Booking) int {
	n := 0
	for _, b := range bookings {
		if b.SlotID == slotID && Occupies(b) {
			n++
		}
	}
	return n
}

// AvailableSeats never goes below zero, even if stale remote data left the
// slot overbooked.
func AvailableSeats(slot domain.TimeSlot, bookings []domain.Booking) int {
	free := slot.CapacityTotal - Occupied(slot.ID, bookings)
	if free < 0 {
		return 0
	}
	return free
}

// Check returns nil when clientID may book slot, or the reason it may not.
func Check(clientID string, slot domain.TimeSlot, bookings []domain.Booking) error {
	if slot.Status == domain.SlotCancelled {
		return ErrSlotClosed
	}
	for _, b := range bookings {
		if b.SlotID == slot.ID && b.ClientID == clientID && Occupies(b) {
			return ErrDuplicateBooking
		}
	}
	if AvailableSeats(slot, bookings) <= 0 {
		return ErrCapacityExceeded
	}
	return nil
}

func CanBook(clientID string, slot domain.TimeSlot, bookings []domain.Booking) bool {
	return Check(clientID, slot, bookings) == nil
}

// Annotate returns copies of slots with CapacityBooked filled in.
func Annotate(slots []domain.TimeSlot, bookings []domain.Booking) []domain.TimeSlot {
	counts := make(map[string]int, len(slots))
	for _, b := range bookings {
		if Occupies(b) {
			counts[b.SlotID]++
		}
	}

	out := make([]domain.TimeSlot, len(slots))
	for i, s := range slots {
		s.CapacityBooked = counts[s.ID]
		out[i] = s
	}
	return out
}
