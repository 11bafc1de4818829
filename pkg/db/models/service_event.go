package models

import (
	"github.com/google/uuid"

	"github.com/lelikelen/dashboard-backend/pkg/enums"
)

// ServiceEvent is one entry of the street-service schedule. Date and Time are
// kept as their ISO column representations (YYYY-MM-DD, HH:MM:SS) because the
// chat proxy and the SPA both consume them as strings.
type ServiceEvent struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Date       string            `gorm:"type:date;not null" json:"date"`
	Time       string            `gorm:"type:time;not null" json:"time"`
	Location   string            `gorm:"type:text;not null" json:"location"`
	Notes      *string           `gorm:"type:text" json:"notes,omitempty"`
	Status     enums.EventStatus `gorm:"type:text;not null;default:scheduled" json:"status"`
	Attendance *int              `gorm:"type:integer" json:"attendance,omitempty"`
}

// TableName keeps the table aligned with the managed schema.
func (ServiceEvent) TableName() string {
	return "service_schedule"
}

// IsCompleted reports whether attendance data is meaningful for the event.
func (e ServiceEvent) IsCompleted() bool {
	return e.Status == enums.EventStatusCompleted
}
