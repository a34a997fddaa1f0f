package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pendiente"
	BookingConfirmed BookingStatus = "Confirmada"
	BookingRejected  BookingStatus = "Rechazada"
	BookingCancelled BookingStatus = "Cancelada"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCancelled:
		return true
	}
	return false
}

// Occupies reports whether a booking in this status holds a capacity unit.
func (s BookingStatus) Occupies() bool {
	return s == BookingPending || s == BookingConfirmed
}

type Booking struct {
	ID        string        `json:"id" gorm:"column:id;primaryKey"`
	ClientID  string        `json:"client_id" gorm:"index"`
	TeacherID string        `json:"teacher_id" gorm:"index"`
	SlotID    string        `json:"slot_id" gorm:"index"`
	Date      time.Time     `json:"date"`
	Price     float64       `json:"price"`
	Status    BookingStatus `json:"status"`
	Message   string        `json:"message,omitempty" gorm:"type:text"`
	CreatedAt time.Time     `json:"created_at"`
}
