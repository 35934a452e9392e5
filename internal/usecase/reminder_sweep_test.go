package usecase

import (
	"context"
	"testing"
	"time"

	"autocare-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepFixture struct {
	sweep     *ReminderSweep
	bookings  *fakeBookingRepo
	batches   *fakeBatchRepo
	reminders *fakeReminderRepo
	vehicles  *fakeVehicleRepo
	notifier  *fakeNotifier
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	bookings := newFakeBookingRepo()
	batches := newFakeBatchRepo()
	reminders := newFakeReminderRepo()
	vehicles := newFakeVehicleRepo()
	notifier := &fakeNotifier{}
	sweep := NewReminderSweep(bookings, batches, reminders, vehicles, notifier, testMetrics, nopLogger{})
	return &sweepFixture{sweep: sweep, bookings: bookings, batches: batches, reminders: reminders, vehicles: vehicles, notifier: notifier}
}

func (f *sweepFixture) addScheduled(t *testing.T, number string, date time.Time) *entity.Booking {
	t.Helper()
	d := date
	b := &entity.Booking{
		BookingNumber: number,
		VehicleID:     "veh-1",
		CustomerName:  "Sara Tesfaye",
		CustomerEmail: "sara@example.com",
		ServiceType:   entity.ServiceRoutineMaintenance,
		Status:        entity.StatusScheduled,
		IsScheduled:   true,
		ScheduledDate: &d,
		ScheduledTime: "09:00",
		PreferredDate: date,
	}
	require.NoError(t, f.bookings.Create(context.Background(), b))
	return b
}

func TestSweepSendsDayReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	f := newSweepFixture(t)
	f.addScheduled(t, "SRV20250615B00001", today)
	f.addScheduled(t, "SRV20250615B00002", tomorrow)
	f.addScheduled(t, "SRV20250615B00003", today.AddDate(0, 0, 5))

	report := f.sweep.Run(ctx, now)

	assert.Equal(t, 1, report.TodayReminders)
	assert.Equal(t, 1, report.TomorrowReminders)

	todayMails := f.notifier.sentOfKind(entity.KindReminderToday)
	require.Len(t, todayMails, 1)
	assert.Equal(t, "SRV20250615B00001", todayMails[0].Ctx["BookingNumber"])

	tomorrowMails := f.notifier.sentOfKind(entity.KindReminderTomorrow)
	require.Len(t, tomorrowMails, 1)
	assert.Equal(t, "SRV20250615B00002", tomorrowMails[0].Ctx["BookingNumber"])
}

func TestSweepIsIdempotent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	f := newSweepFixture(t)
	f.addScheduled(t, "SRV20250615B00001", today)

	first := f.sweep.Run(ctx, now)
	second := f.sweep.Run(ctx, now.Add(time.Hour))

	assert.Equal(t, 1, first.TodayReminders)
	assert.Equal(t, 0, second.TodayReminders)
	assert.Len(t, f.notifier.sentOfKind(entity.KindReminderToday), 1)
}

func TestSweepSurvivesStaleBookingWrite(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	f := newSweepFixture(t)
	b := f.addScheduled(t, "SRV20250615B00001", today)
	stale, err := f.bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)

	first := f.sweep.Run(ctx, now)
	require.Equal(t, 1, first.TodayReminders)

	// A writer holding a pre-sweep copy saves it back, as a batch apply
	// racing the sweep would. The spent reminder flag must survive.
	require.False(t, stale.ReminderSent)
	require.NoError(t, f.bookings.Update(ctx, stale))

	second := f.sweep.Run(ctx, now.Add(time.Hour))
	assert.Equal(t, 0, second.TodayReminders)
	assert.Len(t, f.notifier.sentOfKind(entity.KindReminderToday), 1)
}

func TestSweepVisitsBatchedBookingsOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	f := newSweepFixture(t)
	batched := f.addScheduled(t, "SRV20250615B00001", today)
	require.NoError(t, f.batches.Create(ctx, &entity.ScheduleBatch{
		ID:            "batch-1",
		Name:          "wave",
		BookingIDs:    []string{batched.ID},
		ScheduledDate: today,
		ScheduledTime: "09:00",
		CreatedBy:     "staff-1",
	}))
	f.addScheduled(t, "SRV20250615B00002", today)

	report := f.sweep.Run(ctx, now)

	assert.Equal(t, 2, report.TodayReminders)
	assert.Len(t, f.notifier.sentOfKind(entity.KindReminderToday), 2)
}

func TestSweepSkipsUnscheduledStatuses(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	f := newSweepFixture(t)
	b := f.addScheduled(t, "SRV20250615B00001", today)
	b.Status = entity.StatusCancelled
	require.NoError(t, f.bookings.Update(ctx, b))

	report := f.sweep.Run(ctx, now)
	assert.Equal(t, 0, report.TodayReminders)
	assert.Empty(t, f.notifier.sent)
}

func TestSweepDeliversStoredReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	f := newSweepFixture(t)
	// Outside the 30-day lookahead so the generation phase stays quiet
	end := today.AddDate(0, 0, 40)
	v := &entity.VehicleRecord{
		CustomerID:      "cust-1",
		CustomerName:    "Sara Tesfaye",
		CustomerEmail:   "sara@example.com",
		VIN:             "LNBSCU3H1JR884337",
		PlateNumber:     "B1234XYZ",
		HasWarranty:     true,
		WarrantyEndDate: &end,
	}
	require.NoError(t, f.vehicles.Create(ctx, v))
	require.NoError(t, f.reminders.Create(ctx, &entity.Reminder{
		VehicleID:         v.ID,
		Type:              entity.ReminderWarrantyExpiry,
		ScheduledSendDate: today,
		Message:           "warranty ending soon",
	}))

	report := f.sweep.Run(ctx, now)

	assert.Equal(t, 1, report.StoredReminders)
	mails := f.notifier.sentOfKind(entity.KindWarrantyExpiry)
	require.Len(t, mails, 1)
	assert.Equal(t, "sara@example.com", mails[0].Recipient)

	// A second run finds nothing left to send
	second := f.sweep.Run(ctx, now.Add(time.Hour))
	assert.Equal(t, 0, second.StoredReminders)
	assert.Len(t, f.notifier.sentOfKind(entity.KindWarrantyExpiry), 1)
}

func TestSweepGeneratesWarrantyReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	f := newSweepFixture(t)
	end := now.AddDate(0, 0, 14)
	v := &entity.VehicleRecord{
		CustomerID:      "cust-1",
		CustomerName:    "Sara Tesfaye",
		CustomerEmail:   "sara@example.com",
		VIN:             "LNBSCU3H1JR884337",
		PlateNumber:     "B1234XYZ",
		HasWarranty:     true,
		WarrantyEndDate: &end,
	}
	require.NoError(t, f.vehicles.Create(ctx, v))

	farEnd := now.AddDate(1, 0, 0)
	far := &entity.VehicleRecord{
		CustomerID:      "cust-2",
		VIN:             "LNBSCU3H1JR884338",
		PlateNumber:     "B9999ZZZ",
		HasWarranty:     true,
		WarrantyEndDate: &farEnd,
	}
	require.NoError(t, f.vehicles.Create(ctx, far))

	report := f.sweep.Run(ctx, now)
	assert.Equal(t, 1, report.WarrantyGenerated)

	pending, err := f.reminders.HasPending(ctx, v.ID, entity.ReminderWarrantyExpiry)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestSweepDoesNotDuplicatePendingWarrantyReminders(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

	f := newSweepFixture(t)
	end := now.AddDate(0, 0, 14)
	v := &entity.VehicleRecord{
		CustomerID:      "cust-1",
		VIN:             "LNBSCU3H1JR884337",
		PlateNumber:     "B1234XYZ",
		HasWarranty:     true,
		WarrantyEndDate: &end,
	}
	require.NoError(t, f.vehicles.Create(ctx, v))

	// A reminder queued for later is still pending
	require.NoError(t, f.reminders.Create(ctx, &entity.Reminder{
		VehicleID:         v.ID,
		Type:              entity.ReminderWarrantyExpiry,
		ScheduledSendDate: now.AddDate(0, 0, 7),
	}))

	report := f.sweep.Run(ctx, now)
	assert.Equal(t, 0, report.WarrantyGenerated)
}
