package data

import (
	"context"
	"fmt"

	"fitmarket/internal/domain"
	"fitmarket/internal/syncer"

	"go.uber.org/zap"
)

// notify stores notes and queues them for the backend. Failures are logged
// and never fail the operation that produced them.
func (d *DB) notify(ctx context.Context, notes ...domain.Notification) {
	if len(notes) == 0 {
		return
	}
	now := d.now()
	for i := range notes {
		notes[i].ID = d.newID()
		notes[i].CreatedAt = now
	}

	err := update(ctx, d, domain.CollectionNotifications, func(items []domain.Notification) ([]domain.Notification, error) {
		return append(items, notes...), nil
	})
	if err != nil {
		d.log.Warn("notification not stored", zap.Int("count", len(notes)), zap.Error(err))
		return
	}
	for _, n := range notes {
		d.sync.Push(syncer.Upsert(domain.CollectionNotifications, d.gw.Notifications, n.ID, n))
	}
}

func bookingCreatedNote(b domain.Booking, slot domain.TimeSlot) domain.Notification {
	return domain.Notification{
		UserID: slot.TeacherID,
		Type:   domain.NotifBookingCreated,
		Title:  "Nueva reserva",
		Body:   fmt.Sprintf("Tienes una nueva reserva para el %s", slot.StartAt.Format("02/01/2006 15:04")),
		Link:   "/bookings/" + b.ID,
	}
}

func bookingStatusNote(b domain.Booking) (domain.Notification, bool) {
	n := domain.Notification{UserID: b.ClientID, Link: "/bookings/" + b.ID}
	switch b.Status {
	case domain.BookingConfirmed:
		n.Type, n.Title = domain.NotifBookingConfirmed, "Reserva confirmada"
	case domain.BookingRejected:
		n.Type, n.Title = domain.NotifBookingRejected, "Reserva rechazada"
	case domain.BookingCancelled:
		n.Type, n.Title = domain.NotifBookingCancelled, "Reserva cancelada"
	default:
		return n, false
	}
	n.Body = fmt.Sprintf("Tu reserva del %s ahora está %s", b.Date.Format("02/01/2006 15:04"), b.Status)
	return n, true
}

func messageNote(m domain.ChatMessage) domain.Notification {
	body := m.Text
	if body == "" && m.Attachment != nil {
		body = m.Attachment.Name
	}
	if r := []rune(body); len(r) > 80 {
		body = string(r[:80]) + "…"
	}
	return domain.Notification{
		UserID: m.ReceiverID,
		Type:   domain.NotifNewMessage,
		Title:  "Nuevo mensaje",
		Body:   body,
		Link:   "/chat/" + m.SenderID,
	}
}

func planNote(u domain.User, activated bool) domain.Notification {
	if activated {
		return domain.Notification{
			UserID: u.ID,
			Type:   domain.NotifPlanActivated,
			Title:  "Plan activado",
			Body:   fmt.Sprintf("Tu plan %s está activo", u.PlanType),
			Link:   "/plan",
		}
	}
	return domain.Notification{
		UserID: u.ID,
		Type:   domain.NotifPlanSuspended,
		Title:  "Plan suspendido",
		Body:   fmt.Sprintf("Tu plan %s fue suspendido", u.PlanType),
		Link:   "/plan",
	}
}
