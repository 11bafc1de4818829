package inventory

import (
	"context"
	"time"

	"github.com/lelikelen/dashboard-backend/internal/view"
	"github.com/lelikelen/dashboard-backend/pkg/changefeed"
	"github.com/lelikelen/dashboard-backend/pkg/db/models"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

// Item is one inventory row decorated with its derived stock state.
type Item struct {
	models.InventoryItem
	LowStock bool `json:"low_stock"`
}

// ListResult is the inventory view served to the dashboard. Stale marks a
// snapshot that survived a failed refresh.
type ListResult struct {
	Items     []Item    `json:"items"`
	Stale     bool      `json:"stale"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Service defines inventory read operations.
type Service interface {
	List(ctx context.Context) (*ListResult, error)
}

type service struct {
	repo    Repository
	watcher *view.Watcher[[]models.InventoryItem]
}

// NewWatcher builds the live snapshot watcher for the inventory table.
func NewWatcher(repo Repository, hub *changefeed.Hub, logg *logger.Logger) *view.Watcher[[]models.InventoryItem] {
	return view.NewWatcher(models.InventoryItem{}.TableName(), repo.List, hub, logg)
}

// NewService wires inventory dependencies. The watcher is optional; without
// it every read goes to the database.
func NewService(repo Repository, watcher *view.Watcher[[]models.InventoryItem]) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	return &service{repo: repo, watcher: watcher}, nil
}

func (s *service) List(ctx context.Context) (*ListResult, error) {
	if s.watcher != nil {
		if snap, ok := s.watcher.Snapshot(); ok {
			return buildResult(snap.Data, snap.Stale, snap.FetchedAt), nil
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	return buildResult(items, false, time.Now().UTC()), nil
}

func buildResult(rows []models.InventoryItem, stale bool, fetchedAt time.Time) *ListResult {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{InventoryItem: row, LowStock: row.IsLowStock()})
	}
	return &ListResult{Items: items, Stale: stale, FetchedAt: fetchedAt}
}
