package data

import (
	"context"
	"slices"
	"time"

	"fitmarket/internal/domain"
	"fitmarket/internal/plan"
)

// RequestPlan is the professional's self-service request for planID.
func (d *DB) RequestPlan(ctx context.Context, professionalID, planID string) (domain.User, error) {
	plans := d.GetPlans(ctx)
	i := slices.IndexFunc(plans, func(p domain.Plan) bool { return p.ID == planID })
	if i < 0 {
		return domain.User{}, notFound("plan", planID)
	}
	p := plans[i]
	if !p.IsActive {
		return domain.User{}, invalid("plan %q is not offered", p.Name)
	}

	return d.updatePlan(ctx, professionalID, func(u domain.User) (domain.User, error) {
		return d.plans.Request(u, p)
	})
}

// AssignPlanToTrainer activates planName whatever the current state. A
// non-positive days takes the plan's own duration.
func (d *DB) AssignPlanToTrainer(ctx context.Context, professionalID, planName string, days int) (domain.User, error) {
	days = d.resolveDays(ctx, planName, days)
	return d.updatePlan(ctx, professionalID, func(u domain.User) (domain.User, error) {
		return d.plans.Assign(u, planName, days)
	})
}

// ActivatePlanWithDuration approves a pending request or reactivates a
// suspended or lapsed plan. An empty planName falls back to the requested
// plan.
func (d *DB) ActivatePlanWithDuration(ctx context.Context, professionalID, planName string, days int) (domain.User, error) {
	return d.updatePlan(ctx, professionalID, func(u domain.User) (domain.User, error) {
		name := planName
		if p, ok := plan.Of(u).(plan.Pending); ok && name == "" {
			plans := d.GetPlans(ctx)
			if i := slices.IndexFunc(plans, func(x domain.Plan) bool { return x.ID == p.PlanID }); i >= 0 {
				name = plans[i].Name
			}
		}
		if name == "" {
			name = u.PlanType
		}
		return d.plans.Approve(u, name, d.resolveDays(ctx, name, days))
	})
}

func (d *DB) SuspendPlan(ctx context.Context, professionalID string) (domain.User, error) {
	return d.updatePlan(ctx, professionalID, d.plans.Suspend)
}

func (d *DB) AddDaysToExpiry(ctx context.Context, professionalID string, days int) (domain.User, error) {
	return d.updatePlan(ctx, professionalID, func(u domain.User) (domain.User, error) {
		return d.plans.Extend(u, days)
	})
}

func (d *DB) SetCustomExpiry(ctx context.Context, professionalID string, expiry time.Time) (domain.User, error) {
	return d.updatePlan(ctx, professionalID, func(u domain.User) (domain.User, error) {
		return d.plans.SetExpiry(u, expiry)
	})
}

// UpdateTrainerPlan is the admin on/off switch for a professional's plan.
func (d *DB) UpdateTrainerPlan(ctx context.Context, professionalID, planName string, active bool) (domain.User, error) {
	return d.updatePlan(ctx, professionalID, func(u domain.User) (domain.User, error) {
		name := planName
		if name == "" {
			name = u.PlanType
		}
		return d.plans.Update(u, planName, active, d.resolveDays(ctx, name, 0))
	})
}

func (d *DB) resolveDays(ctx context.Context, planName string, days int) int {
	if days > 0 {
		return days
	}
	if p, ok := planByName(d.GetPlans(ctx), planName); ok {
		return plan.DurationDays(&p, planName)
	}
	return plan.DurationDays(nil, planName)
}

// updatePlan runs a plan transition on one professional and notifies them
// when the plan turned on or off.
func (d *DB) updatePlan(ctx context.Context, professionalID string, fn func(domain.User) (domain.User, error)) (domain.User, error) {
	var updated domain.User
	err := d.commit(func() error {
		pros := d.GetPros(ctx)
		i := slices.IndexFunc(pros, func(u domain.User) bool { return u.ID == professionalID })
		if i < 0 {
			return notFound("professional", professionalID)
		}
		before := pros[i]

		u, err := fn(before)
		if err != nil {
			return err
		}
		u.UpdatedAt = d.now()
		if err := d.storeUser(ctx, u); err != nil {
			return err
		}
		updated = u

		wasOn, isOn := d.plans.EffectivelyActive(before), d.plans.EffectivelyActive(u)
		switch {
		case isOn && (!wasOn || before.PlanType != u.PlanType):
			d.notify(ctx, planNote(u, true))
		case before.PlanStatus == domain.PlanStatusActive && u.PlanStatus == domain.PlanStatusSuspended:
			d.notify(ctx, planNote(u, false))
		}
		return nil
	})
	return updated, err
}
