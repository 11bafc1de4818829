package schedule

import (
	"context"
	"time"

	"github.com/lelikelen/dashboard-backend/internal/view"
	"github.com/lelikelen/dashboard-backend/pkg/changefeed"
	"github.com/lelikelen/dashboard-backend/pkg/db/models"
	pkgerrors "github.com/lelikelen/dashboard-backend/pkg/errors"
	"github.com/lelikelen/dashboard-backend/pkg/logger"
)

// DateLayout is the ISO day format used across the schedule.
const DateLayout = "2006-01-02"

const (
	DefaultUpcomingLimit = 10
	DefaultPastLimit     = 5
)

// Limits caps the two schedule queries.
type Limits struct {
	Upcoming int
	Past     int
}

func (l Limits) withDefaults() Limits {
	if l.Upcoming == 0 {
		l.Upcoming = DefaultUpcomingLimit
	}
	if l.Past == 0 {
		l.Past = DefaultPastLimit
	}
	return l
}

// View pairs the two queries the dashboard renders. Any change on the table
// re-runs both.
type View struct {
	Upcoming        []models.ServiceEvent `json:"upcoming"`
	RecentCompleted []models.ServiceEvent `json:"recent_completed"`
}

// Overview is the schedule view served to the dashboard.
type Overview struct {
	View
	Stale     bool      `json:"stale"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Service defines schedule read operations.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	repo    Repository
	limits  Limits
	now     func() time.Time
	watcher *view.Watcher[View]
}

// NewWatcher builds the live snapshot watcher for the schedule table.
func NewWatcher(repo Repository, limits Limits, hub *changefeed.Hub, logg *logger.Logger) *view.Watcher[View] {
	fetch := fetchView(repo, limits.withDefaults(), time.Now)
	return view.NewWatcher(models.ServiceEvent{}.TableName(), fetch, hub, logg)
}

// NewService wires schedule dependencies. The watcher is optional; without it
// every read goes to the database.
func NewService(repo Repository, limits Limits, watcher *view.Watcher[View]) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "schedule repository required")
	}
	return &service{
		repo:    repo,
		limits:  limits.withDefaults(),
		now:     time.Now,
		watcher: watcher,
	}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	if s.watcher != nil {
		if snap, ok := s.watcher.Snapshot(); ok {
			return &Overview{View: snap.Data, Stale: snap.Stale, FetchedAt: snap.FetchedAt}, nil
		}
	}

	data, err := fetchView(s.repo, s.limits, s.now)(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load schedule")
	}
	return &Overview{View: data, FetchedAt: time.Now().UTC()}, nil
}

func fetchView(repo Repository, limits Limits, now func() time.Time) view.FetchFunc[View] {
	return func(ctx context.Context) (View, error) {
		today := now().Format(DateLayout)

		upcoming, err := repo.Upcoming(ctx, today, limits.Upcoming)
		if err != nil {
			return View{}, err
		}
		past, err := repo.CompletedWithAttendance(ctx, limits.Past)
		if err != nil {
			return View{}, err
		}
		if upcoming == nil {
			upcoming = []models.ServiceEvent{}
		}
		if past == nil {
			past = []models.ServiceEvent{}
		}
		return View{Upcoming: upcoming, RecentCompleted: past}, nil
	}
}
