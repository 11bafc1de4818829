package schedule

import (
	"context"

	"gorm.io/gorm"

	"github.com/lelikelen/dashboard-backend/pkg/db/models"
	"github.com/lelikelen/dashboard-backend/pkg/enums"
)

// Repository exposes read access to the service schedule. Events are managed
// externally; this service never writes them.
type Repository interface {
	// Upcoming returns events dated from (inclusive) or later, soonest first.
	Upcoming(ctx context.Context, from string, limit int) ([]models.ServiceEvent, error)
	// CompletedWithAttendance returns completed events that have attendance
	// recorded, most recent first. A limit <= 0 returns all of them.
	CompletedWithAttendance(ctx context.Context, limit int) ([]models.ServiceEvent, error)
	// CountUpcoming counts events dated from (inclusive) or later.
	CountUpcoming(ctx context.Context, from string) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a schedule repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Upcoming(ctx context.Context, from string, limit int) ([]models.ServiceEvent, error) {
	var events []models.ServiceEvent
	query := r.db.WithContext(ctx).
		Where("date >= ?", from).
		Order("date ASC, time ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repositoryImpl) CompletedWithAttendance(ctx context.Context, limit int) ([]models.ServiceEvent, error) {
	var events []models.ServiceEvent
	query := r.db.WithContext(ctx).
		Where("status = ?", enums.EventStatusCompleted).
		Where("attendance IS NOT NULL").
		Order("date DESC, time DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repositoryImpl) CountUpcoming(ctx context.Context, from string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceEvent{}).
		Where("date >= ?", from).
		Count(&count).Error
	return count, err
}
