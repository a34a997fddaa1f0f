package domain

import "time"

type NotificationType string

const (
	NotifBookingCreated   NotificationType = "booking_created"
	NotifBookingConfirmed NotificationType = "booking_confirmed"
	NotifBookingRejected  NotificationType = "booking_rejected"
	NotifBookingCancelled NotificationType = "booking_cancelled"
	NotifNewMessage       NotificationType = "new_message"
	NotifPlanActivated    NotificationType = "plan_activated"
	NotifPlanSuspended    NotificationType = "plan_suspended"
)

type Notification struct {
	ID        string           `json:"id" gorm:"column:id;primaryKey"`
	UserID    string           `json:"user_id" gorm:"index"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body,omitempty" gorm:"type:text"`
	Link      string           `json:"link,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
