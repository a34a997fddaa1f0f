package data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"fitmarket/internal/bus"
	"fitmarket/internal/capacity"
	"fitmarket/internal/database"
	"fitmarket/internal/domain"
	"fitmarket/internal/plan"
	"fitmarket/internal/store/local"
	"fitmarket/internal/store/remote"
	"fitmarket/internal/syncer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	db    *DB
	gw    *remote.Gateway
	sync  *syncer.Coordinator
	store *local.Store
}

func newTestEnv(t *testing.T, configured bool) *testEnv {
	t.Helper()
	return newTestEnvWith(t, configured, 0, nil)
}

// failingBackend fails writes to the key in fail, if set.
type failingBackend struct {
	local.Backend
	fail string
}

func (b *failingBackend) Write(ctx context.Context, key string, value []byte) error {
	if b.fail != "" && key == b.fail {
		return errors.New("disk failure")
	}
	return b.Backend.Write(ctx, key, value)
}

func newTestEnvWith(t *testing.T, configured bool, maxBytes int, wrap func(local.Backend) local.Backend, opts ...local.Option) *testEnv {
	t.Helper()

	localDB, err := database.Connect(fmt.Sprintf("file:datalocal_%s?mode=memory&cache=shared", t.Name()), nil)
	require.NoError(t, err)
	sqlBackend, err := local.NewSQLBackend(localDB, maxBytes)
	require.NoError(t, err)
	var backend local.Backend = sqlBackend
	if wrap != nil {
		backend = wrap(backend)
	}
	store := local.New(backend, "test", opts...)

	gw := remote.NewGateway(nil)
	if configured {
		remoteDB, err := database.Connect(fmt.Sprintf("file:dataremote_%s?mode=memory&cache=shared", t.Name()), nil)
		require.NoError(t, err)
		require.NoError(t, remote.Migrate(remoteDB))
		gw = remote.NewGateway(remoteDB)
	}

	clock := func() time.Time { return testNow }
	b := bus.New()
	coord := syncer.New(store, gw, b, syncer.WithClock(clock))
	t.Cleanup(coord.Close)

	return &testEnv{
		db:    New(store, gw, coord, b, WithClock(clock)),
		gw:    gw,
		sync:  coord,
		store: store,
	}
}

func (e *testEnv) slot(t *testing.T, teacherID string, seats int) domain.TimeSlot {
	t.Helper()
	s, err := e.db.SaveSlot(context.Background(), domain.TimeSlot{
		TeacherID:     teacherID,
		StartAt:       testNow.Add(24 * time.Hour),
		EndAt:         testNow.Add(25 * time.Hour),
		CapacityTotal: seats,
		Type:          domain.SlotGroup,
		Price:         15,
	})
	require.NoError(t, err)
	return s
}

func (e *testEnv) teacher(t *testing.T, id string) domain.User {
	t.Helper()
	u, err := e.db.SaveUser(context.Background(), domain.User{ID: id, Name: "Ana", Role: domain.RoleTeacher})
	require.NoError(t, err)
	return u
}

func TestCreateBooking_SingleSeatScenario(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	s := env.slot(t, "t1", 1)

	assert.True(t, env.db.CanBook(ctx, "A", s.ID))

	a, err := env.db.CreateBooking(ctx, domain.Booking{ClientID: "A", SlotID: s.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, a.Status)
	assert.Equal(t, "t1", a.TeacherID)
	assert.Equal(t, 15.0, a.Price)

	assert.False(t, env.db.CanBook(ctx, "A", s.ID))
	assert.False(t, env.db.CanBook(ctx, "B", s.ID))
	assert.Equal(t, 0, env.db.AvailableSeats(ctx, s.ID))

	_, err = env.db.CreateBooking(ctx, domain.Booking{ClientID: "B", SlotID: s.ID})
	assert.ErrorIs(t, err, capacity.ErrCapacityExceeded)
	_, err = env.db.CreateBooking(ctx, domain.Booking{ClientID: "A", SlotID: s.ID})
	assert.ErrorIs(t, err, capacity.ErrDuplicateBooking)
	assert.Len(t, env.db.GetBookings(ctx), 1)

	_, err = env.db.UpdateBookingStatus(ctx, a.ID, domain.BookingCancelled)
	require.NoError(t, err)
	assert.True(t, env.db.CanBook(ctx, "B", s.ID))
	assert.Equal(t, 1, env.db.AvailableSeats(ctx, s.ID))
}

func TestCreateBooking_UnknownSlot(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.db.CreateBooking(context.Background(), domain.Booking{ClientID: "A", SlotID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.db.CreateBooking(context.Background(), domain.Booking{ClientID: "A"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateBookingStatus_ReoccupyRechecksCapacity(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	s := env.slot(t, "t1", 1)

	a, err := env.db.CreateBooking(ctx, domain.Booking{ClientID: "A", SlotID: s.ID})
	require.NoError(t, err)
	_, err = env.db.UpdateBookingStatus(ctx, a.ID, domain.BookingRejected)
	require.NoError(t, err)
	_, err = env.db.CreateBooking(ctx, domain.Booking{ClientID: "B", SlotID: s.ID})
	require.NoError(t, err)

	_, err = env.db.UpdateBookingStatus(ctx, a.ID, domain.BookingPending)
	assert.ErrorIs(t, err, capacity.ErrCapacityExceeded)

	_, err = env.db.UpdateBookingStatus(ctx, a.ID, "Perdida")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.db.UpdateBookingStatus(ctx, "nope", domain.BookingConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSlots_DerivesCapacityBooked(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	s := env.slot(t, "t1", 3)

	for _, c := range []string{"A", "B"} {
		_, err := env.db.CreateBooking(ctx, domain.Booking{ClientID: c, SlotID: s.ID})
		require.NoError(t, err)
	}

	slots := env.db.GetSlotsByTeacher(ctx, "t1")
	require.Len(t, slots, 1)
	assert.Equal(t, 2, slots[0].CapacityBooked)
	assert.Empty(t, env.db.GetSlotsByTeacher(ctx, "t2"))
}

func TestBookingNotifications(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	s := env.slot(t, "t1", 2)

	b, err := env.db.CreateBooking(ctx, domain.Booking{ClientID: "A", SlotID: s.ID})
	require.NoError(t, err)

	teacherNotes := env.db.GetNotifications(ctx, "t1")
	require.Len(t, teacherNotes, 1)
	assert.Equal(t, domain.NotifBookingCreated, teacherNotes[0].Type)

	_, err = env.db.UpdateBookingStatus(ctx, b.ID, domain.BookingConfirmed)
	require.NoError(t, err)
	clientNotes := env.db.GetNotifications(ctx, "A")
	require.Len(t, clientNotes, 1)
	assert.Equal(t, domain.NotifBookingConfirmed, clientNotes[0].Type)

	n, err := env.db.MarkNotificationsRead(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, env.db.GetNotifications(ctx, "A")[0].IsRead)
	assert.False(t, env.db.GetNotifications(ctx, "t1")[0].IsRead)
}

func TestWritesReachRemoteAndSurviveSync(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()
	s := env.slot(t, "t1", 2)

	b, err := env.db.CreateBooking(ctx, domain.Booking{ClientID: "A", SlotID: s.ID})
	require.NoError(t, err)
	assert.True(t, env.sync.Suppressed(domain.CollectionBookings))

	rep, err := env.db.ForceSync(ctx)
	require.NoError(t, err)
	assert.Contains(t, rep.Suppressed, domain.CollectionBookings)

	remoteBookings, err := env.gw.Bookings.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, remoteBookings, 1)
	assert.Equal(t, b.ID, remoteBookings[0].ID)

	remoteSlots, err := env.gw.Slots.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, remoteSlots, 1)
	assert.Equal(t, 2, remoteSlots[0].CapacityTotal)

	assert.Len(t, env.db.GetBookings(ctx), 1)
	assert.Empty(t, env.db.SyncStatus().RecentFailures)
}

func TestLocalOnlyMode(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.db.SaveCategory(ctx, domain.Category{Name: "Yoga"})
	require.NoError(t, err)

	rep, err := env.db.ForceSync(ctx)
	require.NoError(t, err)
	assert.True(t, rep.LocalOnly)
	assert.True(t, env.db.SyncStatus().LocalOnly)
	assert.Len(t, env.db.GetCategories(ctx), 1)
}

func TestSubscribe(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	calls := 0
	seen := 0
	unsubscribe := env.db.Subscribe(func() {
		calls++
		seen = len(env.db.GetCategories(ctx))
	})

	_, err := env.db.SaveCategory(ctx, domain.Category{Name: "Yoga"})
	require.NoError(t, err)
	_, err = env.db.SaveCategory(ctx, domain.Category{Name: "Box"})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, seen)

	unsubscribe()
	require.NoError(t, env.db.DeleteCategory(ctx, env.db.GetCategories(ctx)[0].ID))
	assert.Equal(t, 2, calls)

	// failed writes do not publish
	err = env.db.DeleteCategory(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveUser_RoutesByRoleAndRefreshesSession(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	pro := env.teacher(t, "t1")
	client, err := env.db.SaveUser(ctx, domain.User{Name: "Luis", Role: domain.RoleClient, PlanStatus: domain.PlanStatusActive})
	require.NoError(t, err)

	assert.Len(t, env.db.GetPros(ctx), 1)
	require.Len(t, env.db.GetClients(ctx), 1)
	assert.Equal(t, domain.PlanStatusNone, env.db.GetClients(ctx)[0].PlanStatus, "clients never carry a plan")
	assert.Equal(t, domain.UserActive, client.Status)

	require.NoError(t, env.db.SetSessionUser(ctx, pro))
	pro.City = "Madrid"
	_, err = env.db.SaveUser(ctx, pro)
	require.NoError(t, err)

	session := env.db.GetSessionUser(ctx)
	require.NotNil(t, session)
	assert.Equal(t, "Madrid", session.City)

	got, ok := env.db.GetUser(ctx, client.ID)
	require.True(t, ok)
	assert.Equal(t, "Luis", got.Name)

	require.NoError(t, env.db.ClearSession(ctx))
	assert.Nil(t, env.db.GetSessionUser(ctx))

	_, err = env.db.SaveUser(ctx, domain.User{Role: "guest"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSaveUser_RoleIsFixed(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.db.SaveUser(ctx, domain.User{ID: "u1", Name: "Luis", Role: domain.RoleClient})
	require.NoError(t, err)

	_, err = env.db.SaveUser(ctx, domain.User{ID: "u1", Name: "Luis", Role: domain.RoleTeacher})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Len(t, env.db.GetClients(ctx), 1)
	assert.Empty(t, env.db.GetPros(ctx))
	got, ok := env.db.GetUser(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, domain.RoleClient, got.Role)
}

func TestSaveUser_SessionUserQuotaStripsImage(t *testing.T) {
	env := newTestEnvWith(t, true, 2000, nil, local.WithImageLimit(100))
	ctx := context.Background()

	pro := env.teacher(t, "t1")
	require.NoError(t, env.db.SetSessionUser(ctx, pro))

	pro.Image = "data:image/png;base64," + strings.Repeat("A", 5000)
	_, err := env.db.SaveUser(ctx, pro)
	require.NoError(t, err)

	pros := env.db.GetPros(ctx)
	require.Len(t, pros, 1)
	assert.Empty(t, pros[0].Image)
	session := env.db.GetSessionUser(ctx)
	require.NotNil(t, session)
	assert.Equal(t, "t1", session.ID)
	assert.Empty(t, session.Image)

	require.NoError(t, env.sync.Flush(ctx))
	remotePros, err := env.gw.Professionals.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, remotePros, 1)
}

func TestSaveUser_SessionWriteFailureKeepsCollection(t *testing.T) {
	var fb *failingBackend
	env := newTestEnvWith(t, false, 0, func(b local.Backend) local.Backend {
		fb = &failingBackend{Backend: b}
		return fb
	})
	ctx := context.Background()

	pro := env.teacher(t, "t1")
	require.NoError(t, env.db.SetSessionUser(ctx, pro))

	fb.fail = "test:session-user"
	pro.City = "Madrid"
	_, err := env.db.SaveUser(ctx, pro)
	require.Error(t, err)

	pros := env.db.GetPros(ctx)
	require.Len(t, pros, 1)
	assert.Empty(t, pros[0].City)
	assert.Empty(t, env.db.GetSessionUser(ctx).City)
}

func TestPlanFlow_RequestApproveSuspend(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.teacher(t, "t1")

	pro, err := env.db.SavePlan(ctx, domain.Plan{Name: "Profesional", Price: 29, IsActive: true})
	require.NoError(t, err)

	u, err := env.db.RequestPlan(ctx, "t1", pro.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusPending, u.PlanStatus)
	assert.Empty(t, env.db.GetVisiblePros(ctx))

	u, err = env.db.ActivatePlanWithDuration(ctx, "t1", "", 0)
	require.NoError(t, err)
	assert.True(t, u.PlanActive())
	assert.Equal(t, "Profesional", u.PlanType)
	assert.Equal(t, 90, env.db.GetDaysRemaining(u.PlanExpiry))
	assert.False(t, env.db.IsPlanExpired(u.PlanExpiry))
	assert.Len(t, env.db.GetVisiblePros(ctx), 1)

	u, err = env.db.SuspendPlan(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusSuspended, u.PlanStatus)
	assert.Empty(t, env.db.GetVisiblePros(ctx))

	types := []domain.NotificationType{}
	for _, n := range env.db.GetNotifications(ctx, "t1") {
		types = append(types, n.Type)
	}
	assert.ElementsMatch(t, []domain.NotificationType{domain.NotifPlanActivated, domain.NotifPlanSuspended}, types)
}

func TestPlanFlow_FreePlanAndAdminOverrides(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.teacher(t, "t1")

	free, err := env.db.SavePlan(ctx, domain.Plan{Name: "Básico", Price: 0, IsActive: true})
	require.NoError(t, err)

	u, err := env.db.RequestPlan(ctx, "t1", free.ID)
	require.NoError(t, err)
	assert.True(t, u.PlanActive())
	assert.Equal(t, 30, env.db.GetDaysRemaining(u.PlanExpiry))

	_, err = env.db.RequestPlan(ctx, "t1", free.ID)
	assert.ErrorIs(t, err, plan.ErrPlanStillActive)

	u, err = env.db.AddDaysToExpiry(ctx, "t1", 5)
	require.NoError(t, err)
	assert.Equal(t, 35, env.db.GetDaysRemaining(u.PlanExpiry))

	custom := testNow.Add(-time.Hour)
	u, err = env.db.SetCustomExpiry(ctx, "t1", custom)
	require.NoError(t, err)
	assert.True(t, env.db.IsPlanExpired(u.PlanExpiry))
	assert.Empty(t, env.db.GetVisiblePros(ctx))

	u, err = env.db.AssignPlanToTrainer(ctx, "t1", "Anual", 0)
	require.NoError(t, err)
	assert.Equal(t, 365, env.db.GetDaysRemaining(u.PlanExpiry))

	u, err = env.db.UpdateTrainerPlan(ctx, "t1", "", false)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanStatusSuspended, u.PlanStatus)
	assert.Equal(t, "Anual", u.PlanType)

	_, err = env.db.SuspendPlan(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.db.RequestPlan(ctx, "t1", "no-plan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBooking_MonthlyReservationLimit(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	env.teacher(t, "t1")

	_, err := env.db.SavePlan(ctx, domain.Plan{Name: "Básico", IsActive: true, MaxReservationsPerMonth: 1})
	require.NoError(t, err)
	_, err = env.db.AssignPlanToTrainer(ctx, "t1", "Básico", 30)
	require.NoError(t, err)

	s := env.slot(t, "t1", 5)
	_, err = env.db.CreateBooking(ctx, domain.Booking{ClientID: "A", SlotID: s.ID})
	require.NoError(t, err)

	_, err = env.db.CreateBooking(ctx, domain.Booking{ClientID: "B", SlotID: s.ID})
	require.ErrorIs(t, err, ErrReservationLimit)

	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 1, limitErr.Current)
	assert.Equal(t, 1, limitErr.Limit)
	assert.Equal(t, "Básico", limitErr.PlanName)
}

func TestSaveSlot_Validation(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	s := env.slot(t, "t1", 2)

	s.CapacityTotal = 5
	_, err := env.db.SaveSlot(ctx, s)
	assert.ErrorIs(t, err, ErrCapacityImmutable)

	s.CapacityTotal = 2
	s.Location = "Sala 2"
	saved, err := env.db.SaveSlot(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Sala 2", saved.Location)

	_, err = env.db.SaveSlot(ctx, domain.TimeSlot{TeacherID: "t1", StartAt: testNow, EndAt: testNow, CapacityTotal: 1})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.db.SaveSlot(ctx, domain.TimeSlot{TeacherID: "t1", StartAt: testNow, EndAt: testNow.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteSlot_CancelsBookingsAndNotifies(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()
	s := env.slot(t, "t1", 3)

	a, err := env.db.CreateBooking(ctx, domain.Booking{ClientID: "A", SlotID: s.ID})
	require.NoError(t, err)
	r, err := env.db.CreateBooking(ctx, domain.Booking{ClientID: "B", SlotID: s.ID})
	require.NoError(t, err)
	_, err = env.db.UpdateBookingStatus(ctx, r.ID, domain.BookingRejected)
	require.NoError(t, err)

	require.NoError(t, env.db.DeleteSlot(ctx, s.ID))

	assert.Empty(t, env.db.GetSlots(ctx))
	for _, b := range env.db.GetBookings(ctx) {
		if b.ID == a.ID {
			assert.Equal(t, domain.BookingCancelled, b.Status)
		} else {
			assert.Equal(t, domain.BookingRejected, b.Status)
		}
	}
	notes := env.db.GetNotifications(ctx, "A")
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotifBookingCancelled, notes[0].Type)

	assert.ErrorIs(t, env.db.DeleteSlot(ctx, s.ID), ErrNotFound)
}

func TestDeleteSlot_FailedWriteKeepsSlotAndBookings(t *testing.T) {
	for _, c := range []domain.Collection{domain.CollectionBookings, domain.CollectionSlots} {
		t.Run(string(c), func(t *testing.T) {
			var fb *failingBackend
			env := newTestEnvWith(t, false, 0, func(b local.Backend) local.Backend {
				fb = &failingBackend{Backend: b}
				return fb
			})
			ctx := context.Background()
			s := env.slot(t, "t1", 3)
			b, err := env.db.CreateBooking(ctx, domain.Booking{ClientID: "A", SlotID: s.ID})
			require.NoError(t, err)

			fb.fail = "test:" + string(c)
			require.Error(t, env.db.DeleteSlot(ctx, s.ID))
			fb.fail = ""

			slots := env.db.GetSlots(ctx)
			require.Len(t, slots, 1)
			assert.Equal(t, 1, slots[0].CapacityBooked)
			bookings := env.db.GetBookings(ctx)
			require.Len(t, bookings, 1)
			assert.Equal(t, b.Status, bookings[0].Status)
			assert.Empty(t, env.db.GetNotifications(ctx, "A"))
		})
	}
}

func TestMessagesAndConversations(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	_, err := env.db.SendMessage(ctx, domain.ChatMessage{SenderID: "c1", ReceiverID: "t1", Text: "Hola"})
	require.NoError(t, err)
	_, err = env.db.SendMessage(ctx, domain.ChatMessage{SenderID: "c1", ReceiverID: "t1", Text: "¿Hay sitio?"})
	require.NoError(t, err)
	_, err = env.db.SendMessage(ctx, domain.ChatMessage{SenderID: "c2", ReceiverID: "t1", Attachment: &domain.Attachment{Name: "plan.pdf"}})
	require.NoError(t, err)

	_, err = env.db.SendMessage(ctx, domain.ChatMessage{SenderID: "c1", ReceiverID: "t1"})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Len(t, env.db.GetMessages(ctx, "t1", "c1"), 2)

	convs := env.db.GetConversations(ctx, "t1")
	require.Len(t, convs, 2)
	unread := map[string]int{}
	for _, c := range convs {
		unread[c.OtherUserID] = c.UnreadCount
		assert.Equal(t, domain.ConversationID("t1", c.OtherUserID), c.ID)
	}
	assert.Equal(t, map[string]int{"c1": 2, "c2": 1}, unread)

	n, err := env.db.MarkMessagesAsRead(ctx, "t1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, c := range env.db.GetConversations(ctx, "t1") {
		if c.OtherUserID == "c1" {
			assert.Zero(t, c.UnreadCount)
		}
	}
	assert.Len(t, env.db.GetNotifications(ctx, "t1"), 3)
	assert.Len(t, env.db.GetConversations(ctx, "c1"), 1)
}

func TestToggleFavorite(t *testing.T) {
	env := newTestEnv(t, false)
	ctx := context.Background()

	on, err := env.db.ToggleFavorite(ctx, "c1", "t1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Len(t, env.db.GetFavorites(ctx, "c1"), 1)

	on, err = env.db.ToggleFavorite(ctx, "c1", "t1")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, env.db.GetFavorites(ctx, "c1"))
}

func TestPruneNotifications(t *testing.T) {
	env := newTestEnv(t, true)
	ctx := context.Background()

	_, err := env.db.SendMessage(ctx, domain.ChatMessage{SenderID: "c1", ReceiverID: "t1", Text: "hola"})
	require.NoError(t, err)
	_, err = env.db.MarkNotificationsRead(ctx, "t1")
	require.NoError(t, err)
	_, err = env.db.SendMessage(ctx, domain.ChatMessage{SenderID: "c1", ReceiverID: "t1", Text: "sigues ahí?"})
	require.NoError(t, err)

	_, err = env.db.PruneNotifications(ctx, 0)
	assert.ErrorIs(t, err, ErrValidation)

	later := New(env.store, env.gw, env.sync, bus.New(), WithClock(func() time.Time { return testNow.AddDate(0, 0, 31) }))
	n, err := later.PruneNotifications(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	left := env.db.GetNotifications(ctx, "t1")
	require.Len(t, left, 1)
	assert.False(t, left[0].IsRead)

	require.NoError(t, env.sync.Flush(ctx))
	remoteNotes, err := env.gw.Notifications.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, remoteNotes, 1)
}
