package plan

import (
	"time"

	"fitmarket/internal/domain"
)

// State is a professional's subscription state. Exactly one of NoPlan,
// Pending, Active or Suspended.
type State interface {
	Status() domain.PlanStatus
	sealed()
}

type NoPlan struct{}

// Pending waits for admin approval of a paid plan. LastType and LastExpiry
// keep the previous plan, if any, for display.
type Pending struct {
	PlanID      string
	RequestedAt time.Time
	LastType    string
	LastExpiry  time.Time
}

// Active may still be expired; expiry is evaluated on read.
type Active struct {
	PlanType string
	Expiry   time.Time
}

// Suspended keeps the last plan type and expiry for display.
type Suspended struct {
	PlanType string
	Expiry   time.Time
}

func (NoPlan) Status() domain.PlanStatus    { return domain.PlanStatusNone }
func (Pending) Status() domain.PlanStatus   { return domain.PlanStatusPending }
func (Active) Status() domain.PlanStatus    { return domain.PlanStatusActive }
func (Suspended) Status() domain.PlanStatus { return domain.PlanStatusSuspended }

func (NoPlan) sealed()    {}
func (Pending) sealed()   {}
func (Active) sealed()    {}
func (Suspended) sealed() {}

// Of decodes the stored plan fields of u.
func Of(u domain.User) State {
	switch u.PlanStatus {
	case domain.PlanStatusPending:
		return Pending{
			PlanID:      u.RequestedPlanID,
			RequestedAt: deref(u.RequestedPlanAt),
			LastType:    u.PlanType,
			LastExpiry:  deref(u.PlanExpiry),
		}
	case domain.PlanStatusActive:
		return Active{PlanType: u.PlanType, Expiry: deref(u.PlanExpiry)}
	case domain.PlanStatusSuspended:
		return Suspended{PlanType: u.PlanType, Expiry: deref(u.PlanExpiry)}
	default:
		return NoPlan{}
	}
}

// Apply returns u with its plan fields encoding s. Fields that do not belong
// to s are cleared.
func Apply(u domain.User, s State) domain.User {
	u.PlanStatus = s.Status()
	u.PlanType = ""
	u.PlanExpiry = nil
	u.RequestedPlanID = ""
	u.RequestedPlanAt = nil

	switch v := s.(type) {
	case Pending:
		u.RequestedPlanID = v.PlanID
		u.RequestedPlanAt = ref(v.RequestedAt)
		u.PlanType = v.LastType
		u.PlanExpiry = ref(v.LastExpiry)
	case Active:
		u.PlanType = v.PlanType
		u.PlanExpiry = ref(v.Expiry)
	case Suspended:
		u.PlanType = v.PlanType
		u.PlanExpiry = ref(v.Expiry)
	}
	return u
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func ref(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
