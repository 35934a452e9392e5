package repository

import (
	"context"

	"autocare-service/internal/domain/entity"
)

// ServiceCenterRepository defines the read-only interface to service centers
type ServiceCenterRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ServiceCenter, error)
	List(ctx context.Context) ([]*entity.ServiceCenter, error)
}
