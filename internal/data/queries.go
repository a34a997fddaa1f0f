package data

import (
	"context"
	"slices"
	"strings"
	"time"

	"fitmarket/internal/capacity"
	"fitmarket/internal/domain"
	"fitmarket/internal/store/local"

	"go.uber.org/zap"
)

func (d *DB) GetPros(ctx context.Context) []domain.User {
	return load[domain.User](ctx, d, domain.CollectionProfessionals)
}

// GetVisiblePros returns active professionals whose plan is in force right
// now, ordered by rating.
func (d *DB) GetVisiblePros(ctx context.Context) []domain.User {
	pros := slices.DeleteFunc(d.GetPros(ctx), func(u domain.User) bool {
		if u.Status != "" && u.Status != domain.UserActive {
			return true
		}
		return !d.plans.EffectivelyActive(u)
	})
	slices.SortStableFunc(pros, func(a, b domain.User) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		}
		return 0
	})
	return pros
}

func (d *DB) GetClients(ctx context.Context) []domain.User {
	return load[domain.User](ctx, d, domain.CollectionClients)
}

// GetUser looks the id up among professionals first, then clients.
func (d *DB) GetUser(ctx context.Context, id string) (domain.User, bool) {
	for _, c := range []domain.Collection{domain.CollectionProfessionals, domain.CollectionClients} {
		users := load[domain.User](ctx, d, c)
		if i := slices.IndexFunc(users, func(u domain.User) bool { return u.ID == id }); i >= 0 {
			return users[i], true
		}
	}
	return domain.User{}, false
}

// GetSessionUser returns the signed-in user of this device, or nil.
func (d *DB) GetSessionUser(ctx context.Context) *domain.User {
	u, err := local.LoadValue[domain.User](ctx, d.store, domain.CollectionSessionUser)
	if err != nil {
		d.log.Error("session read failed", zap.Error(err))
		return nil
	}
	return u
}

func (d *DB) GetBookings(ctx context.Context) []domain.Booking {
	return load[domain.Booking](ctx, d, domain.CollectionBookings)
}

func (d *DB) GetClientBookings(ctx context.Context, clientID string) []domain.Booking {
	return d.filterBookings(ctx, func(b domain.Booking) bool { return b.ClientID == clientID })
}

func (d *DB) GetTeacherBookings(ctx context.Context, teacherID string) []domain.Booking {
	return d.filterBookings(ctx, func(b domain.Booking) bool { return b.TeacherID == teacherID })
}

func (d *DB) filterBookings(ctx context.Context, keep func(domain.Booking) bool) []domain.Booking {
	out := slices.DeleteFunc(d.GetBookings(ctx), func(b domain.Booking) bool { return !keep(b) })
	slices.SortStableFunc(out, func(a, b domain.Booking) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

// GetSlots returns every slot ordered by start time with CapacityBooked
// derived from current bookings.
func (d *DB) GetSlots(ctx context.Context) []domain.TimeSlot {
	slots := capacity.Annotate(
		load[domain.TimeSlot](ctx, d, domain.CollectionSlots),
		d.GetBookings(ctx),
	)
	slices.SortStableFunc(slots, func(a, b domain.TimeSlot) int { return a.StartAt.Compare(b.StartAt) })
	return slots
}

func (d *DB) GetSlotsByTeacher(ctx context.Context, teacherID string) []domain.TimeSlot {
	return slices.DeleteFunc(d.GetSlots(ctx), func(s domain.TimeSlot) bool { return s.TeacherID != teacherID })
}

// AvailableSeats is zero for unknown slots.
func (d *DB) AvailableSeats(ctx context.Context, slotID string) int {
	slot, ok := d.findSlot(ctx, slotID)
	if !ok {
		return 0
	}
	return capacity.AvailableSeats(slot, d.GetBookings(ctx))
}

func (d *DB) CanBook(ctx context.Context, clientID, slotID string) bool {
	slot, ok := d.findSlot(ctx, slotID)
	if !ok {
		return false
	}
	return capacity.CanBook(clientID, slot, d.GetBookings(ctx))
}

func (d *DB) findSlot(ctx context.Context, id string) (domain.TimeSlot, bool) {
	slots := load[domain.TimeSlot](ctx, d, domain.CollectionSlots)
	if i := slices.IndexFunc(slots, func(s domain.TimeSlot) bool { return s.ID == id }); i >= 0 {
		return slots[i], true
	}
	return domain.TimeSlot{}, false
}

func (d *DB) GetCategories(ctx context.Context) []domain.Category {
	cats := load[domain.Category](ctx, d, domain.CollectionCategories)
	slices.SortStableFunc(cats, func(a, b domain.Category) int { return a.DisplayOrder - b.DisplayOrder })
	return cats
}

func (d *DB) GetPlans(ctx context.Context) []domain.Plan {
	plans := load[domain.Plan](ctx, d, domain.CollectionPlans)
	slices.SortStableFunc(plans, func(a, b domain.Plan) int { return a.DisplayOrder - b.DisplayOrder })
	return plans
}

// GetMessages returns the exchange between a and b, oldest first.
func (d *DB) GetMessages(ctx context.Context, a, b string) []domain.ChatMessage {
	msgs := slices.DeleteFunc(load[domain.ChatMessage](ctx, d, domain.CollectionMessages), func(m domain.ChatMessage) bool {
		return !m.Involves(a, b)
	})
	slices.SortStableFunc(msgs, func(x, y domain.ChatMessage) int { return x.Timestamp.Compare(y.Timestamp) })
	return msgs
}

// GetConversations derives one conversation per counterpart of userID,
// most recent first.
func (d *DB) GetConversations(ctx context.Context, userID string) []domain.Conversation {
	byOther := map[string]*domain.Conversation{}
	for _, m := range load[domain.ChatMessage](ctx, d, domain.CollectionMessages) {
		var other string
		switch userID {
		case m.SenderID:
			other = m.ReceiverID
		case m.ReceiverID:
			other = m.SenderID
		default:
			continue
		}

		conv, ok := byOther[other]
		if !ok {
			conv = &domain.Conversation{
				ID:           domain.ConversationID(userID, other),
				Participants: [2]string{userID, other},
				OtherUserID:  other,
			}
			byOther[other] = conv
		}
		if !m.Timestamp.Before(conv.LastMessage.Timestamp) {
			conv.LastMessage = m
		}
		if m.ReceiverID == userID && !m.IsRead {
			conv.UnreadCount++
		}
	}

	out := make([]domain.Conversation, 0, len(byOther))
	for _, c := range byOther {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b domain.Conversation) int {
		if c := b.LastMessage.Timestamp.Compare(a.LastMessage.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (d *DB) GetFavorites(ctx context.Context, userID string) []domain.Favorite {
	return slices.DeleteFunc(load[domain.Favorite](ctx, d, domain.CollectionFavorites), func(f domain.Favorite) bool {
		return f.UserID != userID
	})
}

// GetNotifications returns the user's notifications, newest first.
func (d *DB) GetNotifications(ctx context.Context, userID string) []domain.Notification {
	out := slices.DeleteFunc(load[domain.Notification](ctx, d, domain.CollectionNotifications), func(n domain.Notification) bool {
		return n.UserID != userID
	})
	slices.SortStableFunc(out, func(a, b domain.Notification) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

// IsPlanExpired treats a missing expiry as expired.
func (d *DB) IsPlanExpired(expiry *time.Time) bool {
	if expiry == nil {
		return true
	}
	return d.plans.IsExpired(*expiry)
}

func (d *DB) GetDaysRemaining(expiry *time.Time) int {
	if expiry == nil {
		return 0
	}
	return d.plans.DaysRemaining(*expiry)
}
