package repository

import (
	"context"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormCatalogRepository implements the CatalogRepository interface
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &GormCatalogRepository{
		db: db,
	}
}

// CatalogVehicles GORM model for database mapping
type CatalogVehicles struct {
	ID           string `gorm:"primaryKey;column:id"`
	DisplayName  string `gorm:"column:display_name"`
	Manufacturer string `gorm:"column:manufacturer"`
	ModelYear    int    `gorm:"column:model_year"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the default table name
func (CatalogVehicles) TableName() string {
	return "m_catalog_vehicles"
}

// GetByID finds a catalog vehicle by id
func (r *GormCatalogRepository) GetByID(ctx context.Context, id string) (*entity.CatalogVehicle, error) {
	var row CatalogVehicles
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&row)

	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.CatalogVehicle{
		ID:           row.ID,
		DisplayName:  row.DisplayName,
		Manufacturer: row.Manufacturer,
		ModelYear:    row.ModelYear,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}
