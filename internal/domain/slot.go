package domain

import "time"

type SlotType string

const (
	SlotIndividual SlotType = "individual"
	SlotGroup      SlotType = "grupo"
)

type SlotStatus string

const (
	SlotActive    SlotStatus = "active"
	SlotCancelled SlotStatus = "cancelled"
)

// TimeSlot is a bookable window offered by a professional.
type TimeSlot struct {
	ID            string     `json:"id" gorm:"column:id;primaryKey"`
	TeacherID     string     `json:"teacher_id" gorm:"index"`
	StartAt       time.Time  `json:"start_at"`
	EndAt         time.Time  `json:"end_at"`
	CapacityTotal int        `json:"capacity_total"`
	Type          SlotType   `json:"type"`
	Location      string     `json:"location,omitempty"`
	Price         float64    `json:"price"`
	Status        SlotStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`

	// Derived from live bookings on every read; never persisted.
	CapacityBooked int `json:"capacity_booked" gorm:"-"`
}
