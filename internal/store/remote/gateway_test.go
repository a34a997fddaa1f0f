package remote

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fitmarket/internal/database"
	"fitmarket/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:remote_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestGateway_UpsertFetchDelete(t *testing.T) {
	db := setupTestDB(t)
	gw := NewGateway(db)
	ctx := context.Background()

	require.True(t, gw.Configured())

	slot := domain.TimeSlot{
		ID:            "slot-1",
		TeacherID:     "t1",
		StartAt:       time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		EndAt:         time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		CapacityTotal: 4,
		Type:          domain.SlotGroup,
		Status:        domain.SlotActive,
	}
	require.NoError(t, gw.Slots.Upsert(ctx, slot))

	slot.Location = "Parque Central"
	require.NoError(t, gw.Slots.Upsert(ctx, slot))

	slots, err := gw.Slots.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Parque Central", slots[0].Location)
	assert.Equal(t, 4, slots[0].CapacityTotal)

	require.NoError(t, gw.Slots.Delete(ctx, "slot-1"))
	slots, err = gw.Slots.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGateway_UsersSplitByCollection(t *testing.T) {
	db := setupTestDB(t)
	gw := NewGateway(db)
	ctx := context.Background()

	require.NoError(t, gw.Professionals.Upsert(ctx, domain.User{
		ID: "t1", Role: domain.RoleTeacher, Areas: []string{"Yoga", "Pilates"},
	}))
	require.NoError(t, gw.Clients.Upsert(ctx, domain.User{ID: "c1", Role: domain.RoleClient}))

	pros, err := gw.Professionals.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, pros, 1)
	assert.Equal(t, []string{"Yoga", "Pilates"}, pros[0].Areas)

	clients, err := gw.Clients.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "c1", clients[0].ID)
}

func TestGateway_NotConfigured(t *testing.T) {
	gw := NewGateway(nil)
	ctx := context.Background()

	assert.False(t, gw.Configured())
	assert.Equal(t, "disabled", gw.BreakerState())

	_, err := gw.Bookings.FetchAll(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = gw.Plans.Upsert(ctx, domain.Plan{ID: "p1"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = gw.Favorites.Delete(ctx, "f1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, domain.CollectionFavorites, re.Collection)
	assert.Equal(t, "delete", re.Op)
}

func TestGateway_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	db := setupTestDB(t)
	gw := NewGateway(db)
	ctx := context.Background()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	for i := 0; i < 3; i++ {
		_, err := gw.Categories.FetchAll(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTransient)
	}

	_, err = gw.Plans.FetchAll(ctx)
	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, "open", gw.BreakerState())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"breaker open", gobreaker.ErrOpenState, ErrTransient},
		{"half-open limit", gobreaker.ErrTooManyRequests, ErrTransient},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrTransient},
		{"connection failure", &pgconn.PgError{Code: "08006"}, ErrTransient},
		{"too many connections", &pgconn.PgError{Code: "53300"}, ErrTransient},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, ErrTransient},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrRejected},
		{"invalid text", &pgconn.PgError{Code: "22P02"}, ErrRejected},
		{"undefined column", &pgconn.PgError{Code: "42703"}, ErrRejected},
		{"gorm invalid data", gorm.ErrInvalidData, ErrRejected},
		{"missing where", gorm.ErrMissingWhereClause, ErrRejected},
		{"not configured", ErrNotConfigured, ErrNotConfigured},
		{"unknown", errors.New("something odd"), ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestError_UnwrapsKindAndCause(t *testing.T) {
	cause := &pgconn.PgError{Code: "23505", Message: "duplicate key"}
	err := wrap("upsert", domain.CollectionBookings, cause)

	assert.ErrorIs(t, err, ErrRejected)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23505", pgErr.Code)
	assert.Contains(t, err.Error(), "bookings")

	assert.Same(t, err, wrap("upsert", domain.CollectionBookings, err))
}
