package inventory

import (
	"context"

	"gorm.io/gorm"

	"github.com/lelikelen/dashboard-backend/pkg/db/models"
)

// Repository exposes read access to the inventory table. Writes happen
// through the managed admin tooling, never through this service.
type Repository interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Order("name ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
