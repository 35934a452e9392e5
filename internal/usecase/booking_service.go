package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/errs"
	"autocare-service/internal/domain/repository"
	"autocare-service/pkg/logger"
	"autocare-service/pkg/metrics"
	"autocare-service/pkg/utils"
)

// bookingNumberRetries bounds regeneration attempts on a booking number
// collision before giving up.
const bookingNumberRetries = 3

// BookingService owns the booking lifecycle: creation, the state machine
// transitions, and the notification side effects that follow them. All
// operations validate fully, then mutate, then notify best-effort.
type BookingService struct {
	bookings repository.BookingRepository
	vehicles repository.VehicleRepository
	centers  repository.ServiceCenterRepository
	catalog  repository.CatalogRepository
	notifier repository.NotifierRepository
	tx       repository.TxRunner
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings repository.BookingRepository,
	vehicles repository.VehicleRepository,
	centers repository.ServiceCenterRepository,
	catalog repository.CatalogRepository,
	notifier repository.NotifierRepository,
	tx repository.TxRunner,
	m *metrics.Metrics,
	logger logger.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		vehicles: vehicles,
		centers:  centers,
		catalog:  catalog,
		notifier: notifier,
		tx:       tx,
		metrics:  m,
		logger:   logger,
	}
}

// CreateBookingInput is the request to open a new service booking.
type CreateBookingInput struct {
	VehicleID     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ServiceType      entity.ServiceType
	ServiceTypeOther string
	Priority         entity.BookingPriority

	PreferredDate      time.Time
	PreferredTimeSlot  string
	AlternativeDates   []time.Time
	OdometerReading    *int
	ServiceDescription string
	SymptomsProblems   string
	CustomerNotes      string
}

// ScheduleInput assigns a concrete slot to a booking.
type ScheduleInput struct {
	Date            time.Time
	TimeSlot        string
	ScheduledBy     string
	ServiceCenterID string
}

// CompleteInput records the workshop outcome of a booking.
type CompleteInput struct {
	Technician          string
	FinalOdometer       int
	ServiceReport       string
	PartsUsed           string
	TotalCost           float64
	WarrantyClaimNumber string
}

// Create validates the request, computes warranty coverage, persists the
// booking as pending and sends the "booking received" notification
// exactly once.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput, now time.Time) (*entity.Booking, error) {
	if err := s.validateCreate(in, now); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.FindByID(ctx, in.VehicleID)
	if err != nil {
		return nil, errs.NotFound("vehicle", in.VehicleID)
	}

	b := &entity.Booking{
		VehicleID:          vehicle.ID,
		CustomerName:       strings.TrimSpace(in.CustomerName),
		CustomerEmail:      strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:      strings.TrimSpace(in.CustomerPhone),
		ServiceType:        in.ServiceType,
		ServiceTypeOther:   strings.TrimSpace(in.ServiceTypeOther),
		Priority:           in.Priority,
		PreferredDate:      utils.StartOfDay(in.PreferredDate),
		PreferredTimeSlot:  in.PreferredTimeSlot,
		AlternativeDates:   in.AlternativeDates,
		OdometerReading:    in.OdometerReading,
		ServiceDescription: strings.TrimSpace(in.ServiceDescription),
		SymptomsProblems:   strings.TrimSpace(in.SymptomsProblems),
		CustomerNotes:      strings.TrimSpace(in.CustomerNotes),
		Status:             entity.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if b.Priority == "" {
		b.Priority = entity.PriorityNormal
	}

	s.applyWarrantyCoverage(b, vehicle, now)

	if err := s.persistWithFreshNumber(ctx, b, now); err != nil {
		return nil, err
	}
	s.metrics.BookingsCreated.Inc()
	s.logger.Info("Booking created",
		"bookingNumber", b.BookingNumber,
		"vehicleId", b.VehicleID,
		"serviceType", b.ServiceType)

	s.sendGuarded(ctx, b, repository.FlagConfirmationSent, entity.KindBookingReceived, vehicle)

	return b, nil
}

func (s *BookingService) validateCreate(in CreateBookingInput, now time.Time) error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return errs.Validation("customer_name", "required")
	}
	email := strings.TrimSpace(in.CustomerEmail)
	if email == "" || !strings.Contains(email, "@") {
		return errs.Validation("customer_email", "a valid email address is required")
	}
	if !in.ServiceType.Valid() {
		return errs.Validation("service_type", fmt.Sprintf("unknown service type %q", in.ServiceType))
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return errs.Validation("priority", fmt.Sprintf("unknown priority %q", in.Priority))
	}
	today := utils.StartOfDay(now)
	if in.PreferredDate.Before(today) {
		return errs.Validation("preferred_date", "must not be in the past")
	}
	for _, d := range in.AlternativeDates {
		if d.Before(today) {
			return errs.Validation("alternative_dates", "dates must not be in the past")
		}
	}
	if in.OdometerReading != nil && *in.OdometerReading < 0 {
		return errs.Validation("odometer_reading", "must not be negative")
	}
	if in.ServiceType == entity.Service10000Km && in.OdometerReading == nil {
		return errs.Validation("odometer_reading", "required for a 10,000 km service")
	}
	return nil
}

// applyWarrantyCoverage computes coverage for warranty-relevant service
// types. A covered NETA warranty booking is forced to warranty priority.
func (s *BookingService) applyWarrantyCoverage(b *entity.Booking, v *entity.VehicleRecord, now time.Time) {
	switch b.ServiceType {
	case entity.ServiceNetaWarranty:
		b.WarrantyCovered = v.IsNetaCar && WarrantyValid(v, now) && DaysUntilWarrantyExpires(v, now) > 0
		if b.WarrantyCovered {
			b.Priority = entity.PriorityWarranty
		}
	case entity.ServiceBattery:
		b.WarrantyCovered = NetaBatteryCovered(v, now)
	}
}

// persistWithFreshNumber creates the booking, regenerating the booking
// number on a unique-key collision.
func (s *BookingService) persistWithFreshNumber(ctx context.Context, b *entity.Booking, now time.Time) error {
	for attempt := 0; attempt < bookingNumberRetries; attempt++ {
		b.BookingNumber = utils.NewBookingNumber(now)
		err := s.bookings.Create(ctx, b)
		if err == nil {
			return nil
		}
		if err != repository.ErrDuplicate {
			return err
		}
		s.logger.Warn("Booking number collision, regenerating", "bookingNumber", b.BookingNumber)
	}
	return fmt.Errorf("could not allocate a unique booking number after %d attempts", bookingNumberRetries)
}

// Confirm acknowledges a pending booking.
func (s *BookingService) Confirm(ctx context.Context, bookingNumber string, now time.Time) (*entity.Booking, error) {
	b, err := s.findByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(b.Status, entity.StatusConfirmed) {
		return nil, errs.State("confirm", string(b.Status))
	}
	b.Status = entity.StatusConfirmed
	b.UpdatedAt = now
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Schedule assigns a slot to a booking that is pending, confirmed or
// rescheduled, and sends the "schedule confirmed" notification.
func (s *BookingService) Schedule(ctx context.Context, bookingNumber string, in ScheduleInput, now time.Time) (*entity.Booking, error) {
	if in.TimeSlot == "" {
		return nil, errs.Validation("scheduled_time", "required")
	}
	if strings.TrimSpace(in.ScheduledBy) == "" {
		return nil, errs.Validation("scheduled_by", "required")
	}
	if in.Date.Before(utils.StartOfDay(now)) {
		return nil, errs.Validation("scheduled_date", "must not be in the past")
	}

	b, err := s.findByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if !b.CanBeScheduled() {
		return nil, errs.State("schedule", string(b.Status))
	}
	if in.ServiceCenterID != "" {
		if _, err := s.centers.GetByID(ctx, in.ServiceCenterID); err != nil {
			return nil, errs.NotFound("service center", in.ServiceCenterID)
		}
	}

	b.AssignSlot(in.Date, in.TimeSlot, in.ScheduledBy, in.ServiceCenterID, now)
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	s.metrics.BookingsScheduled.Inc()
	s.logger.Info("Booking scheduled",
		"bookingNumber", b.BookingNumber,
		"date", b.ScheduledDate.Format(utils.DateLayout),
		"time", b.ScheduledTime)

	s.notify(ctx, b, entity.KindScheduleConfirmed, nil)
	return b, nil
}

// Start moves a scheduled booking into the workshop.
func (s *BookingService) Start(ctx context.Context, bookingNumber, technician string, now time.Time) (*entity.Booking, error) {
	b, err := s.findByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(b.Status, entity.StatusInProgress) {
		return nil, errs.State("start", string(b.Status))
	}
	b.Status = entity.StatusInProgress
	b.IsScheduled = false
	if technician != "" {
		b.AssignedTechnician = technician
	}
	b.UpdatedAt = now
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Complete finishes a booking and cascades the service outcome into the
// vehicle record. The booking write and the vehicle cascade commit in a
// single transaction; a concurrent completion on the same vehicle aborts
// instead of silently overwriting.
func (s *BookingService) Complete(ctx context.Context, bookingNumber string, in CompleteInput, now time.Time) (*entity.Booking, error) {
	if strings.TrimSpace(in.Technician) == "" {
		return nil, errs.Validation("technician", "required")
	}
	if in.FinalOdometer < 0 {
		return nil, errs.Validation("final_odometer", "must not be negative")
	}

	b, err := s.findByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if b.Status != entity.StatusScheduled && b.Status != entity.StatusInProgress {
		return nil, errs.State("complete", string(b.Status))
	}

	vehicle, err := s.vehicles.FindByID(ctx, b.VehicleID)
	if err != nil {
		return nil, errs.NotFound("vehicle", b.VehicleID)
	}

	b.MarkCompleted(in.Technician, in.FinalOdometer, in.ServiceReport, in.PartsUsed, in.TotalCost, now)
	if in.WarrantyClaimNumber != "" {
		b.WarrantyClaimNumber = in.WarrantyClaimNumber
	}

	cascade := repository.ServiceCascade{
		ServiceDate:        now,
		ServiceOdometer:    in.FinalOdometer,
		ServiceTypeLabel:   b.ServiceTypeLabel(),
		NextServiceDueKm:   in.FinalOdometer + ServiceIntervalKm,
		NextServiceDueDate: now.AddDate(0, 0, ServiceIntervalDays),
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.bookings.Update(txCtx, b); err != nil {
			return err
		}
		ok, err := s.vehicles.ApplyServiceCascade(txCtx, vehicle.ID, vehicle.Version, cascade)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("vehicle %s was modified concurrently, completion aborted", vehicle.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BookingsCompleted.Inc()
	s.logger.Info("Booking completed",
		"bookingNumber", b.BookingNumber,
		"technician", in.Technician,
		"finalOdometer", in.FinalOdometer)

	s.notify(ctx, b, entity.KindServiceCompleted, vehicle)
	return b, nil
}

// Cancel aborts a booking that has not entered the workshop yet. No
// notification is sent by default.
func (s *BookingService) Cancel(ctx context.Context, bookingNumber string, now time.Time) (*entity.Booking, error) {
	b, err := s.findByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case entity.StatusPending, entity.StatusConfirmed, entity.StatusScheduled, entity.StatusRescheduled:
	default:
		return nil, errs.State("cancel", string(b.Status))
	}
	b.MarkCancelled(now)
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Booking cancelled", "bookingNumber", b.BookingNumber)
	return b, nil
}

// MarkNoShow records that the customer did not turn up for the slot.
func (s *BookingService) MarkNoShow(ctx context.Context, bookingNumber string, now time.Time) (*entity.Booking, error) {
	b, err := s.findByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(b.Status, entity.StatusNoShow) || b.IsTerminal() {
		return nil, errs.State("mark no-show", string(b.Status))
	}
	b.MarkNoShow(now)
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Reschedule releases the assigned slot; the booking then behaves like a
// confirmed one and can be scheduled again.
func (s *BookingService) Reschedule(ctx context.Context, bookingNumber string, now time.Time) (*entity.Booking, error) {
	b, err := s.findByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, err
	}
	if !entity.CanTransition(b.Status, entity.StatusRescheduled) {
		return nil, errs.State("reschedule", string(b.Status))
	}
	b.ReleaseSlot(now)
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, err
	}
	if err := s.bookings.ResetReminderFlags(ctx, b.ID); err != nil {
		return nil, err
	}
	s.logger.Info("Booking slot released for rescheduling", "bookingNumber", b.BookingNumber)
	return b, nil
}

// Get returns a booking by its booking number.
func (s *BookingService) Get(ctx context.Context, bookingNumber string) (*entity.Booking, error) {
	return s.findByNumber(ctx, bookingNumber)
}

// History returns a vehicle's bookings, newest first.
func (s *BookingService) History(ctx context.Context, vehicleID string) ([]*entity.Booking, error) {
	if _, err := s.vehicles.FindByID(ctx, vehicleID); err != nil {
		return nil, errs.NotFound("vehicle", vehicleID)
	}
	return s.bookings.FindByVehicle(ctx, vehicleID)
}

func (s *BookingService) findByNumber(ctx context.Context, bookingNumber string) (*entity.Booking, error) {
	bookingNumber = strings.TrimSpace(bookingNumber)
	if !utils.IsBookingNumber(bookingNumber) {
		return nil, errs.Validation("booking_number", "malformed booking number")
	}
	b, err := s.bookings.FindByNumber(ctx, bookingNumber)
	if err != nil {
		return nil, errs.NotFound("booking", bookingNumber)
	}
	return b, nil
}

// sendGuarded claims a notification guard flag before sending, so the
// message goes out at most once for the booking's lifetime.
func (s *BookingService) sendGuarded(ctx context.Context, b *entity.Booking, flag string, kind entity.TemplateKind, vehicle *entity.VehicleRecord) {
	won, err := s.bookings.ClaimFlag(ctx, b.ID, flag)
	if err != nil {
		s.logger.Error("Failed to claim notification flag", "bookingNumber", b.BookingNumber, "flag", flag, "error", err)
		s.metrics.ErrorsCount.WithLabelValues("claim_flag").Inc()
		return
	}
	if !won {
		return
	}
	s.notify(ctx, b, kind, vehicle)
}

// notify renders and dispatches a booking notification. Failures are
// logged and counted, never propagated.
func (s *BookingService) notify(ctx context.Context, b *entity.Booking, kind entity.TemplateKind, vehicle *entity.VehicleRecord) {
	tmplCtx := s.templateContext(ctx, b, vehicle)
	if err := s.notifier.Send(ctx, b.CustomerEmail, kind, tmplCtx); err != nil {
		s.logger.Error("Notification dispatch failed",
			"bookingNumber", b.BookingNumber,
			"kind", kind,
			"error", err)
		s.metrics.ErrorsCount.WithLabelValues("notification").Inc()
		return
	}
	s.metrics.NotificationsSent.WithLabelValues(string(kind)).Inc()
}

// templateContext assembles the values the notification templates
// interpolate. The catalog lookup is display-only and best-effort.
func (s *BookingService) templateContext(ctx context.Context, b *entity.Booking, vehicle *entity.VehicleRecord) entity.TemplateContext {
	tmplCtx := entity.TemplateContext{
		"CustomerName":  b.CustomerName,
		"BookingNumber": b.BookingNumber,
		"ServiceType":   b.ServiceTypeLabel(),
		"PreferredDate": b.PreferredDate.Format(utils.DateLayout),
	}
	if b.ScheduledDate != nil {
		tmplCtx["ScheduledDate"] = b.ScheduledDate.Format(utils.DateLayout)
		tmplCtx["ScheduledTime"] = b.ScheduledTime
	}
	if b.FinalOdometer != nil {
		tmplCtx["FinalOdometer"] = fmt.Sprintf("%d", *b.FinalOdometer)
	}

	if vehicle == nil {
		var err error
		vehicle, err = s.vehicles.FindByID(ctx, b.VehicleID)
		if err != nil {
			return tmplCtx
		}
	}
	tmplCtx["Vehicle"] = vehicle.DisplayName()
	if vehicle.HasCatalogRef() && s.catalog != nil {
		if cv, err := s.catalog.GetByID(ctx, vehicle.CatalogID); err == nil {
			tmplCtx["Vehicle"] = cv.DisplayName
		}
	}
	return tmplCtx
}
