package usecase

import (
	"context"
	"fmt"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/repository"
	"autocare-service/pkg/logger"
	"autocare-service/pkg/metrics"
	"autocare-service/pkg/utils"
)

// warrantyReminderWindowDays is how far ahead the sweep looks when
// generating warranty expiry reminders.
const warrantyReminderWindowDays = 30

// ReminderSweep is the periodic job behind booking reminders. Each run
// works in four phases: same-day reminders, next-day reminders, stored
// reminders that came due, and generation of upcoming warranty expiry
// reminders. Every send is guarded by an atomic claim, so overlapping
// runs never double-send.
type ReminderSweep struct {
	bookings  repository.BookingRepository
	batches   repository.ScheduleBatchRepository
	reminders repository.ReminderRepository
	vehicles  repository.VehicleRepository
	notifier  repository.NotifierRepository
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewReminderSweep creates a new reminder sweep
func NewReminderSweep(
	bookings repository.BookingRepository,
	batches repository.ScheduleBatchRepository,
	reminders repository.ReminderRepository,
	vehicles repository.VehicleRepository,
	notifier repository.NotifierRepository,
	m *metrics.Metrics,
	logger logger.Logger,
) *ReminderSweep {
	return &ReminderSweep{
		bookings:  bookings,
		batches:   batches,
		reminders: reminders,
		vehicles:  vehicles,
		notifier:  notifier,
		metrics:   m,
		logger:    logger,
	}
}

// SweepReport summarizes one run.
type SweepReport struct {
	TodayReminders    int `json:"today_reminders"`
	TomorrowReminders int `json:"tomorrow_reminders"`
	StoredReminders   int `json:"stored_reminders"`
	WarrantyGenerated int `json:"warranty_generated"`
	Errors            int `json:"errors"`
}

// Run executes one full sweep relative to now.
func (s *ReminderSweep) Run(ctx context.Context, now time.Time) *SweepReport {
	start := time.Now()
	report := &SweepReport{}

	today := utils.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	report.TodayReminders = s.sweepDay(ctx, today, repository.FlagReminderSent, entity.KindReminderToday, report)
	report.TomorrowReminders = s.sweepDay(ctx, tomorrow, repository.FlagFollowUpSent, entity.KindReminderTomorrow, report)
	report.StoredReminders = s.processDueReminders(ctx, today, now, report)
	report.WarrantyGenerated = s.generateWarrantyReminders(ctx, now, report)

	s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	s.logger.Info("Reminder sweep finished",
		"today", report.TodayReminders,
		"tomorrow", report.TomorrowReminders,
		"stored", report.StoredReminders,
		"warrantyGenerated", report.WarrantyGenerated,
		"errors", report.Errors)
	return report
}

// sweepDay sends one reminder kind for every scheduled booking whose
// reminder date falls on day. Batched bookings come through their batch;
// the rest come from the day query minus batch membership, so no booking
// is visited twice.
func (s *ReminderSweep) sweepDay(ctx context.Context, day time.Time, flag string, kind entity.TemplateKind, report *SweepReport) int {
	sent := 0
	visited := make(map[string]bool)

	dayBatches, err := s.batches.FindByScheduledDate(ctx, day)
	if err != nil {
		s.fail(report, "sweep_batches", err)
	} else {
		for _, batch := range dayBatches {
			members, err := s.bookings.FindByIDs(ctx, batch.BookingIDs)
			if err != nil {
				s.fail(report, "sweep_batch_members", err)
				continue
			}
			for _, b := range members {
				visited[b.ID] = true
				if s.remind(ctx, b, day, flag, kind, report) {
					sent++
				}
			}
		}
	}

	batched, err := s.batches.MemberBookingIDs(ctx)
	if err != nil {
		s.fail(report, "sweep_membership", err)
		batched = map[string]struct{}{}
	}

	individual, err := s.bookings.FindScheduledOnDay(ctx, day)
	if err != nil {
		s.fail(report, "sweep_day", err)
		return sent
	}
	for _, b := range individual {
		if visited[b.ID] {
			continue
		}
		if _, inBatch := batched[b.ID]; inBatch {
			continue
		}
		if s.remind(ctx, b, day, flag, kind, report) {
			sent++
		}
	}
	return sent
}

// remind claims the guard flag and sends one reminder. Only bookings
// that hold a slot and whose reminder date matches the target day
// qualify.
func (s *ReminderSweep) remind(ctx context.Context, b *entity.Booking, day time.Time, flag string, kind entity.TemplateKind, report *SweepReport) bool {
	if b.Status != entity.StatusScheduled {
		return false
	}
	if !utils.SameDay(b.ReminderDate(), day) {
		return false
	}
	switch flag {
	case repository.FlagReminderSent:
		if b.ReminderSent {
			return false
		}
	case repository.FlagFollowUpSent:
		if b.FollowUpSent {
			return false
		}
	}

	won, err := s.bookings.ClaimFlag(ctx, b.ID, flag)
	if err != nil {
		s.fail(report, "claim_flag", err)
		return false
	}
	if !won {
		return false
	}

	tmplCtx := entity.TemplateContext{
		"CustomerName":  b.CustomerName,
		"BookingNumber": b.BookingNumber,
		"ServiceType":   b.ServiceTypeLabel(),
		"ScheduledDate": b.ReminderDate().Format(utils.DateLayout),
		"ScheduledTime": b.ScheduledTime,
	}
	if v, err := s.vehicles.FindByID(ctx, b.VehicleID); err == nil {
		tmplCtx["Vehicle"] = v.DisplayName()
	}
	if err := s.notifier.Send(ctx, b.CustomerEmail, kind, tmplCtx); err != nil {
		s.fail(report, "notification", err)
		s.logger.Error("Booking reminder failed", "bookingNumber", b.BookingNumber, "kind", kind, "error", err)
		return false
	}

	when := "today"
	if kind == entity.KindReminderTomorrow {
		when = "tomorrow"
	}
	s.metrics.RemindersSent.WithLabelValues(when).Inc()
	s.metrics.NotificationsSent.WithLabelValues(string(kind)).Inc()
	return true
}

// processDueReminders delivers stored reminders whose send date has
// arrived.
func (s *ReminderSweep) processDueReminders(ctx context.Context, today, now time.Time, report *SweepReport) int {
	due, err := s.reminders.FindDue(ctx, today)
	if err != nil {
		s.fail(report, "reminders_due", err)
		return 0
	}

	sent := 0
	for _, r := range due {
		vehicle, err := s.vehicles.FindByID(ctx, r.VehicleID)
		if err != nil || vehicle.CustomerEmail == "" {
			continue
		}

		won, err := s.reminders.ClaimSent(ctx, r.ID, now)
		if err != nil {
			s.fail(report, "claim_reminder", err)
			continue
		}
		if !won {
			continue
		}

		kind := reminderTemplateKind(r.Type)
		tmplCtx := entity.TemplateContext{
			"CustomerName": vehicle.CustomerName,
			"Vehicle":      vehicle.DisplayName(),
			"PlateNumber":  vehicle.PlateNumber,
			"Message":      r.Message,
		}
		if vehicle.WarrantyEndDate != nil {
			tmplCtx["WarrantyEndDate"] = vehicle.WarrantyEndDate.Format(utils.DateLayout)
		}
		if err := s.notifier.Send(ctx, vehicle.CustomerEmail, kind, tmplCtx); err != nil {
			s.fail(report, "notification", err)
			s.logger.Error("Stored reminder failed", "reminderId", r.ID, "type", r.Type, "error", err)
			continue
		}
		s.metrics.NotificationsSent.WithLabelValues(string(kind)).Inc()
		sent++
	}
	return sent
}

// generateWarrantyReminders creates a stored warranty expiry reminder for
// every vehicle whose warranty ends within the lookahead window, unless
// one is already pending.
func (s *ReminderSweep) generateWarrantyReminders(ctx context.Context, now time.Time, report *SweepReport) int {
	cutoff := now.AddDate(0, 0, warrantyReminderWindowDays)
	expiring, err := s.vehicles.FindWarrantyExpiringBy(ctx, now, cutoff)
	if err != nil {
		s.fail(report, "warranty_scan", err)
		return 0
	}

	created := 0
	for _, v := range expiring {
		pending, err := s.reminders.HasPending(ctx, v.ID, entity.ReminderWarrantyExpiry)
		if err != nil {
			s.fail(report, "warranty_pending", err)
			continue
		}
		if pending {
			continue
		}

		r := &entity.Reminder{
			VehicleID:         v.ID,
			Type:              entity.ReminderWarrantyExpiry,
			ScheduledSendDate: utils.StartOfDay(now),
			Message:           fmt.Sprintf("The warranty for %s expires on %s.", v.DisplayName(), v.WarrantyEndDate.Format(utils.DateLayout)),
			CreatedAt:         now,
		}
		if err := s.reminders.Create(ctx, r); err != nil {
			s.fail(report, "reminder_create", err)
			continue
		}
		created++
	}
	return created
}

func (s *ReminderSweep) fail(report *SweepReport, operation string, err error) {
	report.Errors++
	s.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	s.logger.Error("Sweep step failed", "operation", operation, "error", err)
}

func reminderTemplateKind(t entity.ReminderType) entity.TemplateKind {
	switch t {
	case entity.ReminderWarrantyExpiry:
		return entity.KindWarrantyExpiry
	case entity.ReminderBooking:
		return entity.KindReminderToday
	default:
		return entity.KindVehicleReminder
	}
}
