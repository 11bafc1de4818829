// Package stats derives dashboard counters from the inventory and schedule
// tables. Nothing is persisted; every overview is computed from fresh reads.
package stats

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/lelikelen/dashboard-backend/internal/inventory"
	"github.com/lelikelen/dashboard-backend/internal/schedule"
	"github.com/lelikelen/dashboard-backend/pkg/db/models"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
)

// Overview aggregates the counters rendered at the top of the dashboard.
type Overview struct {
	TotalItems        int             `json:"total_items"`
	LowStockItems     int             `json:"low_stock_items"`
	UpcomingEvents    int64           `json:"upcoming_events"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	AverageAttendance int             `json:"average_attendance"`
}

// Service defines the stats aggregation operation.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	inventory inventory.Repository
	schedule  schedule.Repository
	now       func() time.Time
}

// NewService wires stats dependencies.
func NewService(inventoryRepo inventory.Repository, scheduleRepo schedule.Repository) (Service, error) {
	if inventoryRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if scheduleRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "schedule repository required")
	}
	return &service{
		inventory: inventoryRepo,
		schedule:  scheduleRepo,
		now:       time.Now,
	}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	today := s.now().Format(schedule.DateLayout)

	var (
		items     []models.InventoryItem
		upcoming  int64
		completed []models.ServiceEvent
	)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		items, err = s.inventory.List(gctx)
		return err
	})
	group.Go(func() error {
		var err error
		upcoming, err = s.schedule.CountUpcoming(gctx, today)
		return err
	})
	group.Go(func() error {
		var err error
		completed, err = s.schedule.CompletedWithAttendance(gctx, 0)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate stats")
	}

	overview := &Overview{
		TotalItems:        len(items),
		UpcomingEvents:    upcoming,
		TotalQuantity:     TotalQuantity(items),
		AverageAttendance: AverageAttendance(completed),
	}
	for _, item := range items {
		if item.IsLowStock() {
			overview.LowStockItems++
		}
	}
	return overview, nil
}

// TotalQuantity sums item quantities exactly. Decimal addition keeps the
// result independent of row ordering.
func TotalQuantity(items []models.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Quantity)
	}
	return total
}

// AverageAttendance is the rounded mean attendance over completed events that
// recorded one. Zero when there are none.
func AverageAttendance(events []models.ServiceEvent) int {
	sum, count := 0, 0
	for _, ev := range events {
		if !ev.IsCompleted() || ev.Attendance == nil {
			continue
		}
		sum += *ev.Attendance
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}
