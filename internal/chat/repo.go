package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lelikelen/dashboard-backend/pkg/db/models"
)

// Repository exposes the append-only chat history.
type Repository interface {
	// ListRecent returns the shared conversation context in insertion order.
	ListRecent(ctx context.Context, limit int) ([]models.ChatMessage, error)
	// ListForUser returns one caller's transcript, oldest first.
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error)
	// Append inserts one message row.
	Append(ctx context.Context, message *models.ChatMessage) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a chat repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) ListRecent(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	query := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *repositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *repositoryImpl) Append(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}
