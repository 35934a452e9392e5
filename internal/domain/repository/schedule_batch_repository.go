package repository

import (
	"context"
	"time"

	"autocare-service/internal/domain/entity"
)

// ScheduleBatchRepository defines the interface for schedule batch operations
type ScheduleBatchRepository interface {
	Create(ctx context.Context, batch *entity.ScheduleBatch) error
	FindByID(ctx context.Context, id string) (*entity.ScheduleBatch, error)
	Update(ctx context.Context, batch *entity.ScheduleBatch) error
	FindByScheduledDate(ctx context.Context, day time.Time) ([]*entity.ScheduleBatch, error)

	// MemberBookingIDs returns every booking id referenced by any batch,
	// used to separate batched from individually-scheduled bookings.
	MemberBookingIDs(ctx context.Context) (map[string]struct{}, error)
}
