package repository

import (
	"context"
	"time"

	"autocare-service/internal/domain/entity"
)

// ServiceCascade is the set of vehicle fields rewritten when a booking
// completes.
type ServiceCascade struct {
	ServiceDate        time.Time
	ServiceOdometer    int
	ServiceTypeLabel   string
	NextServiceDueKm   int
	NextServiceDueDate time.Time
}

// VehicleRepository defines the interface for vehicle record operations
type VehicleRepository interface {
	Create(ctx context.Context, v *entity.VehicleRecord) error
	FindByID(ctx context.Context, id string) (*entity.VehicleRecord, error)
	FindByVINAndPlate(ctx context.Context, vin, plate string) (*entity.VehicleRecord, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*entity.VehicleRecord, error)
	Update(ctx context.Context, v *entity.VehicleRecord) error

	// ApplyServiceCascade writes the post-service fields guarded by the
	// vehicle's version; it reports false when another writer got there
	// first, without modifying anything.
	ApplyServiceCascade(ctx context.Context, id string, version int64, c ServiceCascade) (bool, error)

	// FindWarrantyExpiringBy returns vehicles with a warranty ending on or
	// before the cutoff that has not already ended before now.
	FindWarrantyExpiringBy(ctx context.Context, now, cutoff time.Time) ([]*entity.VehicleRecord, error)
}
