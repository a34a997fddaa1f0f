// Package plan implements the subscription state machine of professionals:
// NoPlan, Pending approval, Active until an expiry, and Suspended.
// Expiry is derived on read; nothing sweeps expired plans.
package plan

import (
	"math"
	"time"

	"fitmarket/internal/domain"
)

const day = 24 * time.Hour

// Lifecycle applies plan transitions. Every method returns an updated copy
// and leaves its argument untouched.
type Lifecycle struct {
	Now func() time.Time
}

func New(now func() time.Time) Lifecycle {
	if now == nil {
		now = time.Now
	}
	return Lifecycle{Now: now}
}

func (l Lifecycle) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// Request is the self-service path. A free plan activates at once for
// FreeTierDays; a paid plan waits in Pending for an admin, carrying the
// previous plan type and expiry along.
func (l Lifecycle) Request(u domain.User, p domain.Plan) (domain.User, error) {
	now := l.now()
	pending := Pending{PlanID: p.ID, RequestedAt: now}

	switch s := Of(u).(type) {
	case Active:
		if !l.IsExpired(s.Expiry) {
			return u, ErrPlanStillActive
		}
		pending.LastType, pending.LastExpiry = s.PlanType, s.Expiry
	case Suspended:
		pending.LastType, pending.LastExpiry = s.PlanType, s.Expiry
	case Pending:
		pending.LastType, pending.LastExpiry = s.LastType, s.LastExpiry
	}

	if p.IsFree() {
		return Apply(u, Active{PlanType: p.Name, Expiry: now.Add(FreeTierDays * day)}), nil
	}
	return Apply(u, pending), nil
}

// Approve activates a pending, suspended or lapsed plan for days from now.
// An empty planName keeps the current plan type.
func (l Lifecycle) Approve(u domain.User, planName string, days int) (domain.User, error) {
	if days <= 0 {
		return u, ErrInvalidDuration
	}

	switch s := Of(u).(type) {
	case Pending:
		if planName == "" {
			planName = s.LastType
		}
	case Suspended:
		if planName == "" {
			planName = s.PlanType
		}
	case Active:
		if !l.IsExpired(s.Expiry) {
			return u, ErrInvalidTransition
		}
		if planName == "" {
			planName = s.PlanType
		}
	default:
		return u, ErrInvalidTransition
	}
	if planName == "" {
		return u, ErrInvalidTransition
	}

	return Apply(u, Active{PlanType: planName, Expiry: l.now().Add(time.Duration(days) * day)}), nil
}

// Assign forces an activation from any state.
func (l Lifecycle) Assign(u domain.User, planName string, days int) (domain.User, error) {
	if days <= 0 {
		return u, ErrInvalidDuration
	}
	return Apply(u, Active{PlanType: planName, Expiry: l.now().Add(time.Duration(days) * day)}), nil
}

func (l Lifecycle) Suspend(u domain.User) (domain.User, error) {
	a, ok := Of(u).(Active)
	if !ok {
		return u, ErrInvalidTransition
	}
	return Apply(u, Suspended(a)), nil
}

// Extend adds days to the current expiry, or to now if it already passed.
func (l Lifecycle) Extend(u domain.User, days int) (domain.User, error) {
	if days <= 0 {
		return u, ErrInvalidDuration
	}

	now := l.now()
	shift := func(expiry time.Time) time.Time {
		base := expiry
		if base.Before(now) {
			base = now
		}
		return base.Add(time.Duration(days) * day)
	}

	switch s := Of(u).(type) {
	case Active:
		s.Expiry = shift(s.Expiry)
		return Apply(u, s), nil
	case Suspended:
		s.Expiry = shift(s.Expiry)
		return Apply(u, s), nil
	default:
		return u, ErrNoExpiry
	}
}

// SetExpiry overrides the expiry without changing the state.
func (l Lifecycle) SetExpiry(u domain.User, expiry time.Time) (domain.User, error) {
	if expiry.IsZero() {
		return u, ErrInvalidDuration
	}

	switch s := Of(u).(type) {
	case Active:
		s.Expiry = expiry
		return Apply(u, s), nil
	case Suspended:
		s.Expiry = expiry
		return Apply(u, s), nil
	default:
		return u, ErrNoExpiry
	}
}

// Update is the admin on/off switch. Turning a plan on keeps a future expiry
// and otherwise starts a fresh period of days. Turning it off suspends an
// active plan and drops a pending request back to the plan it replaced.
func (l Lifecycle) Update(u domain.User, planName string, active bool, days int) (domain.User, error) {
	s := Of(u)

	if !active {
		switch v := s.(type) {
		case Active:
			return Apply(u, Suspended(v)), nil
		case Pending:
			if v.LastType == "" {
				return Apply(u, NoPlan{}), nil
			}
			return Apply(u, Suspended{PlanType: v.LastType, Expiry: v.LastExpiry}), nil
		default:
			return u, nil
		}
	}

	var expiry time.Time
	switch v := s.(type) {
	case Active:
		expiry = v.Expiry
		if planName == "" {
			planName = v.PlanType
		}
	case Suspended:
		expiry = v.Expiry
		if planName == "" {
			planName = v.PlanType
		}
	case Pending:
		expiry = v.LastExpiry
		if planName == "" {
			planName = v.LastType
		}
	}
	if l.IsExpired(expiry) {
		if days <= 0 {
			return u, ErrInvalidDuration
		}
		expiry = l.now().Add(time.Duration(days) * day)
	}
	return Apply(u, Active{PlanType: planName, Expiry: expiry}), nil
}

// IsExpired reports now > expiry. A zero expiry counts as expired.
func (l Lifecycle) IsExpired(expiry time.Time) bool {
	return l.now().After(expiry)
}

// DaysRemaining rounds partial days up and never goes below zero.
func (l Lifecycle) DaysRemaining(expiry time.Time) int {
	left := expiry.Sub(l.now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(float64(left) / float64(day)))
}

// EffectivelyActive is the only correct answer to "does this professional
// have a plan right now".
func (l Lifecycle) EffectivelyActive(u domain.User) bool {
	a, ok := Of(u).(Active)
	return ok && !l.IsExpired(a.Expiry)
}
