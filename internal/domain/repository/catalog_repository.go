package repository

import (
	"context"

	"autocare-service/internal/domain/entity"
)

// CatalogRepository defines the read-only interface to the vehicle catalog
type CatalogRepository interface {
	GetByID(ctx context.Context, id string) (*entity.CatalogVehicle, error)
}
