package repository

import (
	"context"
	"time"

	"autocare-service/internal/domain/entity"
)

// ReminderRepository defines the interface for stored reminder operations
type ReminderRepository interface {
	Create(ctx context.Context, r *entity.Reminder) error

	// FindDue returns unsent reminders whose scheduled send date is on or
	// before the given day.
	FindDue(ctx context.Context, day time.Time) ([]*entity.Reminder, error)

	// ClaimSent atomically marks a reminder sent and reports whether this
	// call won the claim.
	ClaimSent(ctx context.Context, id string, sentAt time.Time) (bool, error)

	// HasPending reports whether an unsent reminder of the given type
	// already exists for the vehicle.
	HasPending(ctx context.Context, vehicleID string, t entity.ReminderType) (bool, error)
}
