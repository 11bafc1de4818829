package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lelikelen/dashboard-backend/pkg/enums"
)

// ChatMessage is one entry of the append-only conversation log. Messages are
// never updated or deleted by the service.
type ChatMessage struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    *uuid.UUID        `gorm:"type:uuid" json:"user_id,omitempty"`
	Role      enums.MessageRole `gorm:"type:text;not null" json:"role"`
	Content   string            `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time         `gorm:"type:timestamptz;default:now()" json:"created_at"`
}

// TableName keeps the table aligned with the managed schema.
func (ChatMessage) TableName() string {
	return "chat_messages"
}
