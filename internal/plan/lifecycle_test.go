package plan

import (
	"testing"
	"time"

	"fitmarket/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)

func lifecycle() Lifecycle {
	return New(func() time.Time { return fixedNow })
}

func teacher() domain.User {
	return domain.User{ID: "t1", Role: domain.RoleTeacher}
}

func TestRequest_FreePlanActivatesImmediately(t *testing.T) {
	l := lifecycle()

	u, err := l.Request(teacher(), domain.Plan{ID: "free", Name: "Básico", Price: 0})
	require.NoError(t, err)

	assert.True(t, u.PlanActive())
	require.NotNil(t, u.PlanExpiry)
	assert.Equal(t, fixedNow.Add(30*24*time.Hour), *u.PlanExpiry)
	assert.Equal(t, 30, l.DaysRemaining(*u.PlanExpiry))
	assert.Empty(t, u.RequestedPlanID)
}

func TestRequest_PaidPlanGoesPending(t *testing.T) {
	l := lifecycle()

	u, err := l.Request(teacher(), domain.Plan{ID: "pro", Name: "Profesional", Price: 19.99})
	require.NoError(t, err)

	assert.Equal(t, domain.PlanStatusPending, u.PlanStatus)
	assert.False(t, u.PlanActive())
	assert.Equal(t, "pro", u.RequestedPlanID)
	require.NotNil(t, u.RequestedPlanAt)
	assert.Equal(t, fixedNow, *u.RequestedPlanAt)
	assert.Nil(t, u.PlanExpiry)
}

func TestRequest_RejectedWhileActive(t *testing.T) {
	l := lifecycle()
	u, err := l.Assign(teacher(), "Profesional", 10)
	require.NoError(t, err)

	_, err = l.Request(u, domain.Plan{ID: "annual", Name: "Anual", Price: 99})
	assert.ErrorIs(t, err, ErrPlanStillActive)
}

func TestRequest_AllowedAfterExpiry(t *testing.T) {
	l := lifecycle()
	past := fixedNow.Add(-time.Hour)
	u := Apply(teacher(), Active{PlanType: "Básico", Expiry: past})

	u, err := l.Request(u, domain.Plan{ID: "pro", Name: "Profesional", Price: 19.99})
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusPending, u.PlanStatus)
	assert.False(t, l.EffectivelyActive(u))
	assert.Equal(t, "Básico", u.PlanType)
	require.NotNil(t, u.PlanExpiry)
	assert.Equal(t, past, *u.PlanExpiry)
}

func TestRequest_FromSuspendedKeepsLastPlan(t *testing.T) {
	l := lifecycle()
	expiry := fixedNow.Add(20 * 24 * time.Hour)
	u := Apply(teacher(), Suspended{PlanType: "Profesional", Expiry: expiry})

	u, err := l.Request(u, domain.Plan{ID: "annual", Name: "Anual", Price: 99})
	require.NoError(t, err)

	assert.Equal(t, Pending{
		PlanID:      "annual",
		RequestedAt: fixedNow,
		LastType:    "Profesional",
		LastExpiry:  expiry,
	}, Of(u))
	assert.False(t, u.PlanActive())
	assert.False(t, l.EffectivelyActive(u))

	// Rejecting the request restores the suspended plan.
	back, err := l.Update(u, "", false, 0)
	require.NoError(t, err)
	assert.Equal(t, Suspended{PlanType: "Profesional", Expiry: expiry}, Of(back))

	// Re-requesting while pending keeps the same history.
	again, err := l.Request(u, domain.Plan{ID: "pro", Name: "Profesional", Price: 19.99})
	require.NoError(t, err)
	p, ok := Of(again).(Pending)
	require.True(t, ok)
	assert.Equal(t, "Profesional", p.LastType)
	assert.Equal(t, expiry, p.LastExpiry)

	// Approving without a name falls back to the previous plan type.
	approved, err := l.Approve(u, "", 30)
	require.NoError(t, err)
	assert.Equal(t, "Profesional", approved.PlanType)
	assert.True(t, approved.PlanActive())
	assert.Empty(t, approved.RequestedPlanID)
}

func TestApprove_ProfessionalScenario(t *testing.T) {
	l := lifecycle()
	u, err := l.Request(teacher(), domain.Plan{ID: "pro", Name: "Profesional", Price: 19.99})
	require.NoError(t, err)

	u, err = l.Approve(u, "Profesional", 90)
	require.NoError(t, err)

	assert.True(t, u.PlanActive())
	assert.Equal(t, "Profesional", u.PlanType)
	assert.Equal(t, 90, l.DaysRemaining(*u.PlanExpiry))
	assert.Empty(t, u.RequestedPlanID)
	assert.Nil(t, u.RequestedPlanAt)
	assert.True(t, l.EffectivelyActive(u))
}

func TestApprove_FromSuspendedKeepsType(t *testing.T) {
	l := lifecycle()
	u := Apply(teacher(), Suspended{PlanType: "Anual", Expiry: fixedNow.Add(-48 * time.Hour)})

	u, err := l.Approve(u, "", 365)
	require.NoError(t, err)
	assert.Equal(t, "Anual", u.PlanType)
	assert.Equal(t, 365, l.DaysRemaining(*u.PlanExpiry))
}

func TestApprove_InvalidStates(t *testing.T) {
	l := lifecycle()

	_, err := l.Approve(teacher(), "Profesional", 90)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	active := Apply(teacher(), Active{PlanType: "Básico", Expiry: fixedNow.Add(24 * time.Hour)})
	_, err = l.Approve(active, "Profesional", 90)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = l.Approve(active, "Profesional", 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestSuspend_RetainsTypeAndExpiry(t *testing.T) {
	l := lifecycle()
	expiry := fixedNow.Add(12 * 24 * time.Hour)
	u := Apply(teacher(), Active{PlanType: "Profesional", Expiry: expiry})

	u, err := l.Suspend(u)
	require.NoError(t, err)

	assert.Equal(t, domain.PlanStatusSuspended, u.PlanStatus)
	assert.False(t, u.PlanActive())
	assert.Equal(t, "Profesional", u.PlanType)
	assert.Equal(t, expiry, *u.PlanExpiry)
	assert.False(t, l.EffectivelyActive(u))

	_, err = l.Suspend(u)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExtend_AddsToFutureExpiry(t *testing.T) {
	l := lifecycle()
	u := Apply(teacher(), Active{PlanType: "Profesional", Expiry: fixedNow.Add(5 * 24 * time.Hour)})

	u, err := l.Extend(u, 30)
	require.NoError(t, err)
	assert.Equal(t, 35, l.DaysRemaining(*u.PlanExpiry))
}

func TestExtend_LapsedPlanCountsFromNow(t *testing.T) {
	l := lifecycle()
	u := Apply(teacher(), Active{PlanType: "Básico", Expiry: fixedNow.Add(-10 * 24 * time.Hour)})

	u, err := l.Extend(u, 7)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), *u.PlanExpiry)
}

func TestExtendAndSetExpiry_RequireAnExpiry(t *testing.T) {
	l := lifecycle()
	pending := Apply(teacher(), Pending{PlanID: "pro", RequestedAt: fixedNow})

	_, err := l.Extend(teacher(), 5)
	assert.ErrorIs(t, err, ErrNoExpiry)
	_, err = l.Extend(pending, 5)
	assert.ErrorIs(t, err, ErrNoExpiry)
	_, err = l.SetExpiry(pending, fixedNow.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNoExpiry)
}

func TestSetExpiry_OnSuspendedKeepsState(t *testing.T) {
	l := lifecycle()
	u := Apply(teacher(), Suspended{PlanType: "Anual", Expiry: fixedNow})
	custom := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	u, err := l.SetExpiry(u, custom)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusSuspended, u.PlanStatus)
	assert.Equal(t, custom, *u.PlanExpiry)
}

func TestUpdate_Toggle(t *testing.T) {
	l := lifecycle()

	u, err := l.Update(teacher(), "Básico", true, 30)
	require.NoError(t, err)
	assert.True(t, l.EffectivelyActive(u))
	expiry := *u.PlanExpiry

	u, err = l.Update(u, "", false, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusSuspended, u.PlanStatus)

	u, err = l.Update(u, "", true, 30)
	require.NoError(t, err)
	assert.Equal(t, expiry, *u.PlanExpiry, "future expiry is kept")
	assert.Equal(t, "Básico", u.PlanType)

	pending := Apply(teacher(), Pending{PlanID: "pro", RequestedAt: fixedNow})
	u, err = l.Update(pending, "", false, 0)
	require.NoError(t, err)
	assert.Equal(t, NoPlan{}, Of(u))
}

func TestOfApply_ClearsForeignFields(t *testing.T) {
	at := fixedNow
	u := teacher()
	u.PlanStatus = domain.PlanStatusPending
	u.RequestedPlanID = "pro"
	u.RequestedPlanAt = &at
	u.PlanType = "Básico"

	assert.Equal(t, Pending{PlanID: "pro", RequestedAt: at, LastType: "Básico"}, Of(u))

	u = Apply(u, Active{PlanType: "Profesional", Expiry: at})
	assert.Empty(t, u.RequestedPlanID)
	assert.Nil(t, u.RequestedPlanAt)

	u = Apply(u, NoPlan{})
	assert.Empty(t, u.PlanType)
	assert.Nil(t, u.PlanExpiry)
}

func TestIsExpiredAndDaysRemaining(t *testing.T) {
	l := lifecycle()

	assert.False(t, l.IsExpired(fixedNow))
	assert.True(t, l.IsExpired(fixedNow.Add(-time.Second)))
	assert.True(t, l.IsExpired(time.Time{}))

	assert.Equal(t, 0, l.DaysRemaining(fixedNow.Add(-time.Hour)))
	assert.Equal(t, 1, l.DaysRemaining(fixedNow.Add(time.Hour)))
	assert.Equal(t, 2, l.DaysRemaining(fixedNow.Add(25*time.Hour)))
}

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name string
		plan *domain.Plan
		arg  string
		want int
	}{
		{"explicit days", &domain.Plan{Name: "Anual", DurationDays: 45}, "", 45},
		{"months", &domain.Plan{Name: "Trimestral", DurationMonths: 3}, "", 90},
		{"twelve months", &domain.Plan{Name: "X", DurationMonths: 12}, "", 365},
		{"name from plan", &domain.Plan{Name: "Plan Anual"}, "", 365},
		{"anual", nil, "Anual", 365},
		{"annual", nil, "Annual Pro", 365},
		{"profesional", nil, "Profesional", 90},
		{"professional", nil, "professional", 90},
		{"default", nil, "Básico", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DurationDays(tt.plan, tt.arg))
		})
	}
}
