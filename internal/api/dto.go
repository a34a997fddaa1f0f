package api

import (
	"time"

	"fitmarket/internal/domain"
)

type createBookingRequest struct {
	SlotID  string `json:"slot_id" binding:"required"`
	Message string `json:"message"`
}

type bookingStatusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

type slotRequest struct {
	StartAt       time.Time         `json:"start_at" binding:"required"`
	EndAt         time.Time         `json:"end_at" binding:"required"`
	CapacityTotal int               `json:"capacity_total" binding:"required,min=1"`
	Type          domain.SlotType   `json:"type"`
	Location      string            `json:"location"`
	Price         float64           `json:"price" binding:"min=0"`
	Status        domain.SlotStatus `json:"status"`
}

type profileRequest struct {
	Name       string            `json:"name"`
	LastName   string            `json:"last_name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	City       string            `json:"city"`
	Areas      []string          `json:"areas"`
	Bio        string            `json:"bio"`
	Location   string            `json:"location"`
	Modalities []domain.Modality `json:"modalities"`
	Image      string            `json:"image"`
	Price      float64           `json:"price" binding:"min=0"`
}

type sendMessageRequest struct {
	ReceiverID string             `json:"receiver_id" binding:"required"`
	Text       string             `json:"text"`
	Attachment *domain.Attachment `json:"attachment"`
}

type planDurationRequest struct {
	PlanName string `json:"plan_name"`
	Days     int    `json:"days" binding:"min=0"`
}

type extendRequest struct {
	Days int `json:"days" binding:"required,min=1"`
}

type expiryRequest struct {
	Expiry time.Time `json:"expiry" binding:"required"`
}

type planToggleRequest struct {
	PlanName string `json:"plan_name"`
	Active   *bool  `json:"active" binding:"required"`
}

// PlanStatusResponse is the read-side view of a professional's plan.
type PlanStatusResponse struct {
	Status        domain.PlanStatus `json:"status"`
	PlanType      string            `json:"plan_type,omitempty"`
	Expiry        *time.Time        `json:"expiry,omitempty"`
	RequestedPlan string            `json:"requested_plan_id,omitempty"`
	Expired       bool              `json:"expired"`
	DaysRemaining int               `json:"days_remaining"`
	Active        bool              `json:"active"`
}

type availabilityResponse struct {
	SlotID         string `json:"slot_id"`
	AvailableSeats int    `json:"available_seats"`
	CanBook        *bool  `json:"can_book,omitempty"`
}
