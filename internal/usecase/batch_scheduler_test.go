package usecase

import (
	"context"
	"testing"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchFixture struct {
	scheduler *BatchScheduler
	batches   *fakeBatchRepo
	bookings  *fakeBookingRepo
	vehicles  *fakeVehicleRepo
	notifier  *fakeNotifier
}

func newBatchFixture(t *testing.T) *batchFixture {
	t.Helper()
	batches := newFakeBatchRepo()
	bookings := newFakeBookingRepo()
	vehicles := newFakeVehicleRepo()
	notifier := &fakeNotifier{}
	scheduler := NewBatchScheduler(batches, bookings, notifier, vehicles, testMetrics, nopLogger{})
	return &batchFixture{scheduler: scheduler, batches: batches, bookings: bookings, vehicles: vehicles, notifier: notifier}
}

func (f *batchFixture) addBooking(t *testing.T, status entity.BookingStatus, now time.Time) *entity.Booking {
	t.Helper()
	b := &entity.Booking{
		BookingNumber: "SRV20250615" + randomHexSuffix(t),
		VehicleID:     "veh-1",
		CustomerName:  "Sara Tesfaye",
		CustomerEmail: "sara@example.com",
		ServiceType:   entity.ServiceRoutineMaintenance,
		Priority:      entity.PriorityNormal,
		PreferredDate: now.AddDate(0, 0, 7),
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, f.bookings.Create(context.Background(), b))
	return b
}

var hexSeq int

func randomHexSuffix(t *testing.T) string {
	t.Helper()
	hexSeq++
	return []string{"A00001", "A00002", "A00003", "A00004", "A00005", "A00006", "A00007", "A00008", "A00009", "A00010"}[hexSeq%10]
}

func TestCreateBatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	t.Run("applies slot to all members", func(t *testing.T) {
		f := newBatchFixture(t)
		b1 := f.addBooking(t, entity.StatusPending, now)
		b2 := f.addBooking(t, entity.StatusConfirmed, now)

		batch, result, err := f.scheduler.CreateBatch(ctx, CreateBatchInput{
			Name:          "saturday morning",
			BookingIDs:    []string{b1.ID, b2.ID},
			ScheduledDate: now.AddDate(0, 0, 6),
			ScheduledTime: "09:00",
			CreatedBy:     "staff-1",
		}, now)
		require.NoError(t, err)
		require.NotNil(t, batch)
		assert.NotEmpty(t, batch.ID)
		assert.ElementsMatch(t, []string{b1.ID, b2.ID}, result.Applied)
		assert.Empty(t, result.Skipped)

		for _, id := range []string{b1.ID, b2.ID} {
			stored, err := f.bookings.FindByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, entity.StatusScheduled, stored.Status)
			assert.True(t, stored.IsScheduled)
			assert.Equal(t, "09:00", stored.ScheduledTime)
		}
		assert.Len(t, f.notifier.sentOfKind(entity.KindScheduleConfirmed), 2)
	})

	t.Run("terminal members are skipped", func(t *testing.T) {
		f := newBatchFixture(t)
		live := f.addBooking(t, entity.StatusPending, now)
		done := f.addBooking(t, entity.StatusCompleted, now)

		_, result, err := f.scheduler.CreateBatch(ctx, CreateBatchInput{
			Name:          "mixed",
			BookingIDs:    []string{live.ID, done.ID},
			ScheduledDate: now.AddDate(0, 0, 6),
			ScheduledTime: "10:00",
			CreatedBy:     "staff-1",
		}, now)
		require.NoError(t, err)
		assert.Equal(t, []string{live.ID}, result.Applied)
		assert.Equal(t, []string{done.ID}, result.Skipped)

		stored, err := f.bookings.FindByID(ctx, done.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, stored.Status)
	})

	t.Run("unknown member rejected before persisting", func(t *testing.T) {
		f := newBatchFixture(t)
		b := f.addBooking(t, entity.StatusPending, now)

		_, _, err := f.scheduler.CreateBatch(ctx, CreateBatchInput{
			Name:          "bad",
			BookingIDs:    []string{b.ID, "missing"},
			ScheduledDate: now.AddDate(0, 0, 6),
			ScheduledTime: "10:00",
			CreatedBy:     "staff-1",
		}, now)
		assert.True(t, errs.IsNotFound(err))
		assert.Empty(t, f.batches.batches)
	})

	t.Run("past date rejected", func(t *testing.T) {
		f := newBatchFixture(t)
		b := f.addBooking(t, entity.StatusPending, now)

		_, _, err := f.scheduler.CreateBatch(ctx, CreateBatchInput{
			Name:          "late",
			BookingIDs:    []string{b.ID},
			ScheduledDate: now.AddDate(0, 0, -1),
			ScheduledTime: "10:00",
			CreatedBy:     "staff-1",
		}, now)
		assert.True(t, errs.IsValidation(err))
	})
}

func TestBatchMembership(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	f := newBatchFixture(t)
	b1 := f.addBooking(t, entity.StatusPending, now)
	batch, _, err := f.scheduler.CreateBatch(ctx, CreateBatchInput{
		Name:          "wave one",
		BookingIDs:    []string{b1.ID},
		ScheduledDate: now.AddDate(0, 0, 6),
		ScheduledTime: "09:00",
		CreatedBy:     "staff-1",
	}, now)
	require.NoError(t, err)

	t.Run("add applies the batch slot to the newcomer", func(t *testing.T) {
		b2 := f.addBooking(t, entity.StatusPending, now)
		result, err := f.scheduler.AddBooking(ctx, batch.ID, b2.ID, now)
		require.NoError(t, err)
		assert.Contains(t, result.Applied, b2.ID)

		stored, err := f.bookings.FindByID(ctx, b2.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusScheduled, stored.Status)
		assert.Equal(t, "09:00", stored.ScheduledTime)
	})

	t.Run("duplicate add rejected", func(t *testing.T) {
		_, err := f.scheduler.AddBooking(ctx, batch.ID, b1.ID, now)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("remove keeps the member's schedule", func(t *testing.T) {
		updated, _, err := f.scheduler.RemoveBooking(ctx, batch.ID, b1.ID, now)
		require.NoError(t, err)
		assert.False(t, updated.Contains(b1.ID))

		stored, err := f.bookings.FindByID(ctx, b1.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusScheduled, stored.Status, "removal does not revert the schedule")
	})

	t.Run("remove unknown member", func(t *testing.T) {
		_, _, err := f.scheduler.RemoveBooking(ctx, batch.ID, "missing", now)
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestRemoveBookingReappliesToRemainder(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	f := newBatchFixture(t)
	b1 := f.addBooking(t, entity.StatusPending, now)
	b2 := f.addBooking(t, entity.StatusPending, now)
	batch, _, err := f.scheduler.CreateBatch(ctx, CreateBatchInput{
		Name:          "wave one",
		BookingIDs:    []string{b1.ID, b2.ID},
		ScheduledDate: now.AddDate(0, 0, 6),
		ScheduledTime: "09:00",
		CreatedBy:     "staff-1",
	}, now)
	require.NoError(t, err)

	// b1 drifts out of the batch slot before the membership change.
	stored, err := f.bookings.FindByID(ctx, b1.ID)
	require.NoError(t, err)
	stored.ReleaseSlot(now)
	require.NoError(t, f.bookings.Update(ctx, stored))

	sentBefore := len(f.notifier.sentOfKind(entity.KindScheduleConfirmed))

	updated, result, err := f.scheduler.RemoveBooking(ctx, batch.ID, b2.ID, now)
	require.NoError(t, err)
	assert.False(t, updated.Contains(b2.ID))
	assert.Contains(t, result.Applied, b1.ID)
	assert.NotContains(t, result.Applied, b2.ID)

	stored, err = f.bookings.FindByID(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusScheduled, stored.Status, "remaining member pulled back into the batch slot")
	assert.Equal(t, "09:00", stored.ScheduledTime)
	assert.Greater(t, len(f.notifier.sentOfKind(entity.KindScheduleConfirmed)), sentBefore)

	removed, err := f.bookings.FindByID(ctx, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusScheduled, removed.Status, "removed member keeps its schedule")
}

func TestReapplyBatch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	f := newBatchFixture(t)
	b := f.addBooking(t, entity.StatusPending, now)
	batch, _, err := f.scheduler.CreateBatch(ctx, CreateBatchInput{
		Name:          "wave one",
		BookingIDs:    []string{b.ID},
		ScheduledDate: now.AddDate(0, 0, 6),
		ScheduledTime: "10:00",
		CreatedBy:     "staff-1",
	}, now)
	require.NoError(t, err)

	// Member drifts out of the batch slot, then re-apply pulls it back.
	stored, err := f.bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)
	stored.ReleaseSlot(now)
	require.NoError(t, f.bookings.Update(ctx, stored))

	result, err := f.scheduler.Reapply(ctx, batch.ID, now)
	require.NoError(t, err)
	assert.Contains(t, result.Applied, b.ID)

	stored, err = f.bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusScheduled, stored.Status)
	assert.Equal(t, "10:00", stored.ScheduledTime)

	_, err = f.scheduler.Reapply(ctx, "missing", now)
	assert.True(t, errs.IsNotFound(err))
}
