package repository

import (
	"context"
	"errors"
	"time"

	"autocare-service/internal/domain/entity"
)

// ErrDuplicate is returned by Create when a unique key (booking number,
// VIN+plate pair) already exists.
var ErrDuplicate = errors.New("duplicate key")

// Notification guard flags claimable on a booking.
const (
	FlagConfirmationSent = "confirmationSent"
	FlagReminderSent     = "reminderSent"
	FlagFollowUpSent     = "followUpSent"
)

// BookingRepository defines the interface for booking operations
type BookingRepository interface {
	Create(ctx context.Context, b *entity.Booking) error
	FindByID(ctx context.Context, id string) (*entity.Booking, error)
	FindByNumber(ctx context.Context, bookingNumber string) (*entity.Booking, error)
	FindByIDs(ctx context.Context, ids []string) ([]*entity.Booking, error)
	FindByVehicle(ctx context.Context, vehicleID string) ([]*entity.Booking, error)

	// Update persists the booking's fields. The notification guard flags
	// are excluded from the write; only ClaimFlag and ResetReminderFlags
	// touch them, so a stale in-memory copy cannot undo a claim.
	Update(ctx context.Context, b *entity.Booking) error

	// ResetReminderFlags clears reminderSent and followUpSent so a newly
	// assigned slot gets fresh reminders.
	ResetReminderFlags(ctx context.Context, id string) error

	// FindActiveOnDate returns bookings holding a slot on the given day:
	// status in {confirmed, scheduled, in_progress} with the scheduled
	// date (or, when unscheduled, the preferred date) on that day.
	FindActiveOnDate(ctx context.Context, day time.Time) ([]*entity.Booking, error)

	// FindScheduledOnDay returns scheduled bookings whose reminder
	// comparison date (scheduled date, else preferred date) is that day.
	FindScheduledOnDay(ctx context.Context, day time.Time) ([]*entity.Booking, error)

	// ClaimFlag atomically flips one of the notification guard flags from
	// false to true and reports whether this call won the claim. Used to
	// keep sends idempotent under overlapping sweeps.
	ClaimFlag(ctx context.Context, id, flag string) (bool, error)
}
