package usecase

import (
	"context"
	"testing"
	"time"

	"autocare-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeSlots(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	bookings := newFakeBookingRepo()
	svc := NewAvailabilityService(bookings, 9, 17)

	t.Run("all business slots open on an empty day", func(t *testing.T) {
		slots, err := svc.FreeSlots(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00"}, slots)
	})

	t.Run("scheduled and preferred slots are taken", func(t *testing.T) {
		d := day
		require.NoError(t, bookings.Create(ctx, &entity.Booking{
			BookingNumber: "SRV20250616C00001",
			VehicleID:     "veh-1",
			Status:        entity.StatusScheduled,
			ScheduledDate: &d,
			ScheduledTime: "10:00",
			PreferredDate: day,
		}))
		require.NoError(t, bookings.Create(ctx, &entity.Booking{
			BookingNumber:     "SRV20250616C00002",
			VehicleID:         "veh-2",
			Status:            entity.StatusConfirmed,
			PreferredDate:     day,
			PreferredTimeSlot: "14:00",
		}))
		// Terminal bookings do not block a slot
		require.NoError(t, bookings.Create(ctx, &entity.Booking{
			BookingNumber:     "SRV20250616C00003",
			VehicleID:         "veh-3",
			Status:            entity.StatusCancelled,
			PreferredDate:     day,
			PreferredTimeSlot: "09:00",
		}))

		slots, err := svc.FreeSlots(ctx, day)
		require.NoError(t, err)
		assert.NotContains(t, slots, "10:00")
		assert.NotContains(t, slots, "14:00")
		assert.Contains(t, slots, "09:00")
	})

	t.Run("other days are unaffected", func(t *testing.T) {
		slots, err := svc.FreeSlots(ctx, day.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Len(t, slots, 8)
	})
}
