package data

import (
	"slices"
	"strings"

	"fitmarket/internal/domain"
)

func upsertByID[T any](items []T, item T, id func(T) string) []T {
	key := id(item)
	if i := slices.IndexFunc(items, func(x T) bool { return id(x) == key }); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}

func removeByID[T any](items []T, key string, id func(T) string) ([]T, bool) {
	i := slices.IndexFunc(items, func(x T) bool { return id(x) == key })
	if i < 0 {
		return items, false
	}
	return slices.Delete(items, i, i+1), true
}

func userID(u domain.User) string         { return u.ID }
func bookingID(b domain.Booking) string   { return b.ID }
func slotID(s domain.TimeSlot) string     { return s.ID }
func planID(p domain.Plan) string         { return p.ID }
func categoryID(c domain.Category) string { return c.ID }
func favoriteID(f domain.Favorite) string { return f.ID }

func planByName(plans []domain.Plan, name string) (domain.Plan, bool) {
	if name == "" {
		return domain.Plan{}, false
	}
	i := slices.IndexFunc(plans, func(p domain.Plan) bool { return strings.EqualFold(p.Name, name) })
	if i < 0 {
		return domain.Plan{}, false
	}
	return plans[i], true
}
