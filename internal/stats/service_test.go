package stats

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelikelen/dashboard-backend/pkg/db/models"
	"github.com/lelikelen/dashboard-backend/pkg/enums"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
)

type fakeInventoryRepo struct {
	listFn func(ctx context.Context) ([]models.InventoryItem, error)
}

func (f *fakeInventoryRepo) List(ctx context.Context) ([]models.InventoryItem, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

type fakeScheduleRepo struct {
	upcomingFn  func(ctx context.Context, from string, limit int) ([]models.ServiceEvent, error)
	completedFn func(ctx context.Context, limit int) ([]models.ServiceEvent, error)
	countFn     func(ctx context.Context, from string) (int64, error)
}

func (f *fakeScheduleRepo) Upcoming(ctx context.Context, from string, limit int) ([]models.ServiceEvent, error) {
	if f.upcomingFn != nil {
		return f.upcomingFn(ctx, from, limit)
	}
	return nil, nil
}

func (f *fakeScheduleRepo) CompletedWithAttendance(ctx context.Context, limit int) ([]models.ServiceEvent, error) {
	if f.completedFn != nil {
		return f.completedFn(ctx, limit)
	}
	return nil, nil
}

func (f *fakeScheduleRepo) CountUpcoming(ctx context.Context, from string) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx, from)
	}
	return 0, nil
}

func item(qty, threshold string) models.InventoryItem {
	return models.InventoryItem{
		ID:                uuid.New(),
		Name:              "Rice",
		Quantity:          decimal.RequireFromString(qty),
		LowStockThreshold: decimal.RequireFromString(threshold),
	}
}

func completedEvent(attendance int) models.ServiceEvent {
	return models.ServiceEvent{
		ID:         uuid.New(),
		Status:     enums.EventStatusCompleted,
		Attendance: &attendance,
	}
}

func TestOverviewAggregates(t *testing.T) {
	invRepo := &fakeInventoryRepo{
		listFn: func(ctx context.Context) ([]models.InventoryItem, error) {
			return []models.InventoryItem{
				item("40", "10"),
				item("12", "15"),
				item("10", "10"),
			}, nil
		},
	}
	schedRepo := &fakeScheduleRepo{
		countFn: func(ctx context.Context, from string) (int64, error) { return 4, nil },
		completedFn: func(ctx context.Context, limit int) ([]models.ServiceEvent, error) {
			return []models.ServiceEvent{completedEvent(110), completedEvent(105)}, nil
		},
	}

	svc, err := NewService(invRepo, schedRepo)
	require.NoError(t, err)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.TotalItems)
	assert.Equal(t, 2, overview.LowStockItems)
	assert.Equal(t, int64(4), overview.UpcomingEvents)
	assert.True(t, overview.TotalQuantity.Equal(decimal.RequireFromString("62")))
	assert.Equal(t, 108, overview.AverageAttendance)
}

func TestOverviewPropagatesReadErrors(t *testing.T) {
	invRepo := &fakeInventoryRepo{
		listFn: func(ctx context.Context) ([]models.InventoryItem, error) {
			return nil, errors.New("db down")
		},
	}

	svc, err := NewService(invRepo, &fakeScheduleRepo{})
	require.NoError(t, err)

	_, err = svc.Overview(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestTotalQuantityOrderIndependent(t *testing.T) {
	items := []models.InventoryItem{
		item("0.1", "0"),
		item("0.2", "0"),
		item("0.3", "0"),
		item("1000000000.000001", "0"),
		item("7.55", "0"),
	}

	expected := TotalQuantity(items)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.InventoryItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.True(t, expected.Equal(TotalQuantity(shuffled)), "sum must not depend on ordering")
	}

	assert.True(t, expected.Equal(decimal.RequireFromString("1000000008.150001")))
}

func TestAverageAttendanceRounding(t *testing.T) {
	assert.Equal(t, 0, AverageAttendance(nil), "no completed events yields zero")

	assert.Equal(t, 112, AverageAttendance([]models.ServiceEvent{
		completedEvent(110),
		completedEvent(113),
	}), "111.5 rounds to 112")

	withGap := []models.ServiceEvent{
		completedEvent(100),
		{ID: uuid.New(), Status: enums.EventStatusCompleted}, // attendance never recorded
		{ID: uuid.New(), Status: enums.EventStatusScheduled},
	}
	assert.Equal(t, 100, AverageAttendance(withGap), "events without attendance are excluded")
}

func TestNewServiceRequiresRepositories(t *testing.T) {
	_, err := NewService(nil, &fakeScheduleRepo{})
	assert.Error(t, err)

	_, err = NewService(&fakeInventoryRepo{}, nil)
	assert.Error(t, err)
}
