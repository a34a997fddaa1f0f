package domain

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleClient  UserRole = "client"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleClient, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserActive      UserStatus = "active"
	UserBlocked     UserStatus = "blocked"
	UserDeactivated UserStatus = "deactivated"
)

type Modality string

const (
	ModalityInPerson Modality = "presencial"
	ModalityOnline   Modality = "online"
)

// PlanStatus is the stored tag of a professional's subscription state.
// The empty value means no plan.
type PlanStatus string

const (
	PlanStatusNone      PlanStatus = ""
	PlanStatusPending   PlanStatus = "pending"
	PlanStatusActive    PlanStatus = "active"
	PlanStatusSuspended PlanStatus = "suspended"
)

// User is an identity. Teachers additionally carry the professional profile
// and plan fields; for other roles those stay zero.
type User struct {
	ID            string     `json:"id" gorm:"column:id;primaryKey"`
	Name          string     `json:"name"`
	LastName      string     `json:"last_name"`
	Role          UserRole   `json:"role"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	PhoneVerified bool       `json:"phone_verified"`
	City          string     `json:"city,omitempty"`
	Status        UserStatus `json:"status"`

	// Professional profile
	Areas      []string   `json:"areas,omitempty" gorm:"serializer:json"`
	Bio        string     `json:"bio,omitempty" gorm:"type:text"`
	Location   string     `json:"location,omitempty"`
	Modalities []Modality `json:"modalities,omitempty" gorm:"serializer:json"`
	Rating     float64    `json:"rating,omitempty"`
	Reviews    int        `json:"reviews,omitempty"`
	Image      string     `json:"image,omitempty" gorm:"type:text"`
	Price      float64    `json:"price,omitempty"`

	// Plan
	PlanStatus      PlanStatus `json:"plan_status,omitempty"`
	PlanType        string     `json:"plan_type,omitempty"`
	PlanExpiry      *time.Time `json:"plan_expiry,omitempty"`
	RequestedPlanID string     `json:"requested_plan_id,omitempty"`
	RequestedPlanAt *time.Time `json:"requested_plan_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsProfessional() bool { return u.Role == RoleTeacher }

func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.LastName)
}

// PlanActive reports the stored flag only; expiry is not considered.
func (u User) PlanActive() bool { return u.PlanStatus == PlanStatusActive }

// StripInlineImages drops embedded data-URI images longer than limit bytes.
// Remote URLs are kept regardless of length.
func (u *User) StripInlineImages(limit int) bool {
	if isInlineImage(u.Image) && len(u.Image) > limit {
		u.Image = ""
		return true
	}
	return false
}

func isInlineImage(s string) bool {
	return strings.HasPrefix(s, "data:")
}
