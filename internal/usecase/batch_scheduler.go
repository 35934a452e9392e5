package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/errs"
	"autocare-service/internal/domain/repository"
	"autocare-service/pkg/logger"
	"autocare-service/pkg/metrics"
	"autocare-service/pkg/utils"
)

// BatchScheduler assigns one slot to many bookings at once. Applying a
// batch is an administrative override: it schedules members regardless of
// their pre-scheduling state, skipping only terminal ones.
type BatchScheduler struct {
	batches  repository.ScheduleBatchRepository
	bookings repository.BookingRepository
	notifier repository.NotifierRepository
	vehicles repository.VehicleRepository
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewBatchScheduler creates a new batch scheduler
func NewBatchScheduler(
	batches repository.ScheduleBatchRepository,
	bookings repository.BookingRepository,
	notifier repository.NotifierRepository,
	vehicles repository.VehicleRepository,
	m *metrics.Metrics,
	logger logger.Logger,
) *BatchScheduler {
	return &BatchScheduler{
		batches:  batches,
		bookings: bookings,
		notifier: notifier,
		vehicles: vehicles,
		metrics:  m,
		logger:   logger,
	}
}

// CreateBatchInput describes a new schedule batch.
type CreateBatchInput struct {
	Name            string
	BookingIDs      []string
	ScheduledDate   time.Time
	ScheduledTime   string
	ServiceCenterID string
	CreatedBy       string
}

// BatchApplyResult reports the per-member outcome of applying a batch.
type BatchApplyResult struct {
	Applied  []string          `json:"applied"`
	Skipped  []string          `json:"skipped"`
	Failures map[string]string `json:"failures,omitempty"`
}

// CreateBatch validates the membership, persists the batch, and applies
// its schedule to every member.
func (s *BatchScheduler) CreateBatch(ctx context.Context, in CreateBatchInput, now time.Time) (*entity.ScheduleBatch, *BatchApplyResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, nil, errs.Validation("name", "required")
	}
	if len(in.BookingIDs) == 0 {
		return nil, nil, errs.Validation("booking_ids", "at least one booking is required")
	}
	if in.ScheduledTime == "" {
		return nil, nil, errs.Validation("scheduled_time", "required")
	}
	if in.ScheduledDate.Before(utils.StartOfDay(now)) {
		return nil, nil, errs.Validation("scheduled_date", "must not be in the past")
	}
	if err := s.checkMembersExist(ctx, in.BookingIDs); err != nil {
		return nil, nil, err
	}

	batch := &entity.ScheduleBatch{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		BookingIDs:      in.BookingIDs,
		ScheduledDate:   utils.StartOfDay(in.ScheduledDate),
		ScheduledTime:   in.ScheduledTime,
		ServiceCenterID: in.ServiceCenterID,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, nil, err
	}

	result := s.ApplySchedule(ctx, batch, now)
	s.logger.Info("Schedule batch created",
		"batchId", batch.ID,
		"name", batch.Name,
		"members", len(batch.BookingIDs),
		"applied", len(result.Applied))
	return batch, result, nil
}

// AddBooking appends a booking to the batch and re-applies the schedule
// across the full membership. Already-scheduled members are re-notified;
// the date and time did not change for them, so the repeated mail is a
// harmless restatement.
func (s *BatchScheduler) AddBooking(ctx context.Context, batchID, bookingID string, now time.Time) (*BatchApplyResult, error) {
	batch, err := s.findBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Contains(bookingID) {
		return nil, errs.Validation("booking_id", "already a member of the batch")
	}
	if _, err := s.bookings.FindByID(ctx, bookingID); err != nil {
		return nil, errs.NotFound("booking", bookingID)
	}

	batch.BookingIDs = append(batch.BookingIDs, bookingID)
	batch.UpdatedAt = now
	if err := s.batches.Update(ctx, batch); err != nil {
		return nil, err
	}
	return s.ApplySchedule(ctx, batch, now), nil
}

// RemoveBooking drops a booking from the batch membership and re-applies
// the schedule across the remaining members. The removed booking keeps
// whatever schedule it already received; removal only stops future batch
// operations from touching it.
func (s *BatchScheduler) RemoveBooking(ctx context.Context, batchID, bookingID string, now time.Time) (*entity.ScheduleBatch, *BatchApplyResult, error) {
	batch, err := s.findBatch(ctx, batchID)
	if err != nil {
		return nil, nil, err
	}
	if !batch.Contains(bookingID) {
		return nil, nil, errs.NotFound("batch member", bookingID)
	}

	kept := batch.BookingIDs[:0]
	for _, id := range batch.BookingIDs {
		if id != bookingID {
			kept = append(kept, id)
		}
	}
	batch.BookingIDs = kept
	batch.UpdatedAt = now
	if err := s.batches.Update(ctx, batch); err != nil {
		return nil, nil, err
	}
	return batch, s.ApplySchedule(ctx, batch, now), nil
}

// GetBatch returns a batch by id.
func (s *BatchScheduler) GetBatch(ctx context.Context, batchID string) (*entity.ScheduleBatch, error) {
	return s.findBatch(ctx, batchID)
}

// Reapply re-runs the batch schedule over the current membership, for
// example after individual members were rescheduled out of it.
func (s *BatchScheduler) Reapply(ctx context.Context, batchID string, now time.Time) (*BatchApplyResult, error) {
	batch, err := s.findBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return s.ApplySchedule(ctx, batch, now), nil
}

// ApplySchedule walks the membership in order and assigns the batch slot
// to every non-terminal member. Failures on one member do not stop the
// rest; the result records each outcome.
func (s *BatchScheduler) ApplySchedule(ctx context.Context, batch *entity.ScheduleBatch, now time.Time) *BatchApplyResult {
	result := &BatchApplyResult{Failures: map[string]string{}}

	for _, id := range batch.BookingIDs {
		b, err := s.bookings.FindByID(ctx, id)
		if err != nil {
			result.Failures[id] = "not found"
			s.metrics.ErrorsCount.WithLabelValues("batch_apply").Inc()
			continue
		}
		if b.IsTerminal() {
			result.Skipped = append(result.Skipped, id)
			continue
		}

		b.AssignSlot(batch.ScheduledDate, batch.ScheduledTime, batch.CreatedBy, batch.ServiceCenterID, now)
		if err := s.bookings.Update(ctx, b); err != nil {
			result.Failures[id] = err.Error()
			s.metrics.ErrorsCount.WithLabelValues("batch_apply").Inc()
			s.logger.Error("Failed to apply batch schedule", "batchId", batch.ID, "bookingId", id, "error", err)
			continue
		}
		result.Applied = append(result.Applied, id)
		s.metrics.BookingsScheduled.Inc()
		s.notifyScheduled(ctx, b)
	}

	if len(result.Failures) == 0 {
		result.Failures = nil
	}
	return result
}

func (s *BatchScheduler) checkMembersExist(ctx context.Context, ids []string) error {
	found, err := s.bookings.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}
	seen := make(map[string]bool, len(found))
	for _, b := range found {
		seen[b.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			return errs.NotFound("booking", id)
		}
	}
	return nil
}

func (s *BatchScheduler) findBatch(ctx context.Context, batchID string) (*entity.ScheduleBatch, error) {
	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		return nil, errs.NotFound("schedule batch", batchID)
	}
	return batch, nil
}

func (s *BatchScheduler) notifyScheduled(ctx context.Context, b *entity.Booking) {
	tmplCtx := entity.TemplateContext{
		"CustomerName":  b.CustomerName,
		"BookingNumber": b.BookingNumber,
		"ServiceType":   b.ServiceTypeLabel(),
		"ScheduledDate": b.ScheduledDate.Format(utils.DateLayout),
		"ScheduledTime": b.ScheduledTime,
	}
	if v, err := s.vehicles.FindByID(ctx, b.VehicleID); err == nil {
		tmplCtx["Vehicle"] = v.DisplayName()
	}
	if err := s.notifier.Send(ctx, b.CustomerEmail, entity.KindScheduleConfirmed, tmplCtx); err != nil {
		s.logger.Error("Batch schedule notification failed", "bookingNumber", b.BookingNumber, "error", err)
		s.metrics.ErrorsCount.WithLabelValues("notification").Inc()
		return
	}
	s.metrics.NotificationsSent.WithLabelValues(string(entity.KindScheduleConfirmed)).Inc()
}
