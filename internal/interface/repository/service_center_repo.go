package repository

import (
	"context"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormServiceCenterRepository implements the ServiceCenterRepository interface
type GormServiceCenterRepository struct {
	db *gorm.DB
}

// NewGormServiceCenterRepository creates a new GORM service center repository
func NewGormServiceCenterRepository(db *gorm.DB) repository.ServiceCenterRepository {
	return &GormServiceCenterRepository{
		db: db,
	}
}

// ServiceCenters GORM model for database mapping
type ServiceCenters struct {
	ID        string `gorm:"primaryKey;column:id"`
	Name      string `gorm:"column:name"`
	Address   string `gorm:"column:address"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (ServiceCenters) TableName() string {
	return "m_service_centers"
}

// GetByID finds a service center by id
func (r *GormServiceCenterRepository) GetByID(ctx context.Context, id string) (*entity.ServiceCenter, error) {
	var row ServiceCenters
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&row)

	if result.Error != nil {
		return nil, result.Error
	}

	return toServiceCenter(&row), nil
}

// List returns all service centers
func (r *GormServiceCenterRepository) List(ctx context.Context) ([]*entity.ServiceCenter, error) {
	var rows []ServiceCenters
	result := r.db.WithContext(ctx).Order("name").Find(&rows)

	if result.Error != nil {
		return nil, result.Error
	}

	centers := make([]*entity.ServiceCenter, 0, len(rows))
	for i := range rows {
		centers = append(centers, toServiceCenter(&rows[i]))
	}
	return centers, nil
}

func toServiceCenter(row *ServiceCenters) *entity.ServiceCenter {
	return &entity.ServiceCenter{
		ID:        row.ID,
		Name:      row.Name,
		Address:   row.Address,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
