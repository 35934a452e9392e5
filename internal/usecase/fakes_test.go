package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/repository"
	"autocare-service/pkg/logger"
	"autocare-service/pkg/metrics"
)

// The default prometheus registry rejects duplicate registration, so
// every test shares one Metrics instance.
var testMetrics = metrics.NewMetrics("test")

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
func (l nopLogger) With(...interface{}) logger.Logger {
	return l
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[string]*entity.VehicleRecord
	seq      int

	// failCascade simulates a concurrent writer beating the cascade.
	failCascade bool
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: map[string]*entity.VehicleRecord{}}
}

func (r *fakeVehicleRepo) Create(ctx context.Context, v *entity.VehicleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vehicles {
		if existing.VIN == v.VIN && existing.PlateNumber == v.PlateNumber {
			return repository.ErrDuplicate
		}
	}
	if v.ID == "" {
		r.seq++
		v.ID = fmt.Sprintf("veh-%d", r.seq)
	}
	clone := *v
	r.vehicles[v.ID] = &clone
	return nil
}

func (r *fakeVehicleRepo) FindByID(ctx context.Context, id string) (*entity.VehicleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("vehicle %s not found", id)
	}
	clone := *v
	return &clone, nil
}

func (r *fakeVehicleRepo) FindByVINAndPlate(ctx context.Context, vin, plate string) (*entity.VehicleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		if v.VIN == vin && v.PlateNumber == plate {
			clone := *v
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("vehicle not found")
}

func (r *fakeVehicleRepo) FindByCustomer(ctx context.Context, customerID string) ([]*entity.VehicleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VehicleRecord
	for _, v := range r.vehicles {
		if v.CustomerID == customerID {
			clone := *v
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeVehicleRepo) Update(ctx context.Context, v *entity.VehicleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v.Version++
	clone := *v
	r.vehicles[v.ID] = &clone
	return nil
}

func (r *fakeVehicleRepo) ApplyServiceCascade(ctx context.Context, id string, version int64, c repository.ServiceCascade) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCascade {
		return false, nil
	}
	v, ok := r.vehicles[id]
	if !ok || v.Version != version {
		return false, nil
	}
	date := c.ServiceDate
	odo := c.ServiceOdometer
	dueKm := c.NextServiceDueKm
	dueDate := c.NextServiceDueDate
	v.CurrentOdometerKm = c.ServiceOdometer
	v.LastServiceDate = &date
	v.LastServiceOdometer = &odo
	v.LastServiceType = c.ServiceTypeLabel
	v.NextServiceDueKm = &dueKm
	v.NextServiceDueDate = &dueDate
	v.Version++
	return true, nil
}

func (r *fakeVehicleRepo) FindWarrantyExpiringBy(ctx context.Context, now, cutoff time.Time) ([]*entity.VehicleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.VehicleRecord
	for _, v := range r.vehicles {
		if v.HasWarranty && v.WarrantyEndDate != nil &&
			!v.WarrantyEndDate.Before(now) && !v.WarrantyEndDate.After(cutoff) {
			clone := *v
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*entity.Booking
	seq      int

	failCreate error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*entity.Booking{}}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	for _, existing := range r.bookings {
		if existing.BookingNumber == b.BookingNumber {
			return repository.ErrDuplicate
		}
	}
	if b.ID == "" {
		r.seq++
		b.ID = fmt.Sprintf("bkg-%d", r.seq)
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s not found", id)
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) FindByNumber(ctx context.Context, bookingNumber string) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.BookingNumber == bookingNumber {
			clone := *b
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("booking %s not found", bookingNumber)
}

func (r *fakeBookingRepo) FindByIDs(ctx context.Context, ids []string) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, id := range ids {
		if b, ok := r.bookings[id]; ok {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindByVehicle(ctx context.Context, vehicleID string) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.VehicleID == vehicleID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return fmt.Errorf("booking %s not found", b.ID)
	}
	// Guard flags are not part of the write; they only move through
	// ClaimFlag and ResetReminderFlags.
	clone := *b
	clone.ConfirmationSent = stored.ConfirmationSent
	clone.ReminderSent = stored.ReminderSent
	clone.FollowUpSent = stored.FollowUpSent
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) ResetReminderFlags(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s not found", id)
	}
	b.ReminderSent = false
	b.FollowUpSent = false
	return nil
}

func (r *fakeBookingRepo) FindActiveOnDate(ctx context.Context, day time.Time) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		switch b.Status {
		case entity.StatusConfirmed, entity.StatusScheduled, entity.StatusInProgress:
		default:
			continue
		}
		if sameDay(b.ReminderDate(), day) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) FindScheduledOnDay(ctx context.Context, day time.Time) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.bookings {
		if b.Status == entity.StatusScheduled && sameDay(b.ReminderDate(), day) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ClaimFlag(ctx context.Context, id, flag string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, fmt.Errorf("booking %s not found", id)
	}
	switch flag {
	case repository.FlagConfirmationSent:
		if b.ConfirmationSent {
			return false, nil
		}
		b.ConfirmationSent = true
	case repository.FlagReminderSent:
		if b.ReminderSent {
			return false, nil
		}
		b.ReminderSent = true
	case repository.FlagFollowUpSent:
		if b.FollowUpSent {
			return false, nil
		}
		b.FollowUpSent = true
	default:
		return false, fmt.Errorf("unknown flag %s", flag)
	}
	return true, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type fakeBatchRepo struct {
	mu      sync.Mutex
	batches map[string]*entity.ScheduleBatch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: map[string]*entity.ScheduleBatch{}}
}

func (r *fakeBatchRepo) Create(ctx context.Context, batch *entity.ScheduleBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *batch
	clone.BookingIDs = append([]string(nil), batch.BookingIDs...)
	r.batches[batch.ID] = &clone
	return nil
}

func (r *fakeBatchRepo) FindByID(ctx context.Context, id string) (*entity.ScheduleBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	if !ok {
		return nil, fmt.Errorf("batch %s not found", id)
	}
	clone := *batch
	clone.BookingIDs = append([]string(nil), batch.BookingIDs...)
	return &clone, nil
}

func (r *fakeBatchRepo) Update(ctx context.Context, batch *entity.ScheduleBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *batch
	clone.BookingIDs = append([]string(nil), batch.BookingIDs...)
	r.batches[batch.ID] = &clone
	return nil
}

func (r *fakeBatchRepo) FindByScheduledDate(ctx context.Context, day time.Time) ([]*entity.ScheduleBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ScheduleBatch
	for _, batch := range r.batches {
		if sameDay(batch.ScheduledDate, day) {
			clone := *batch
			clone.BookingIDs = append([]string(nil), batch.BookingIDs...)
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) MemberBookingIDs(ctx context.Context) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := map[string]struct{}{}
	for _, batch := range r.batches {
		for _, id := range batch.BookingIDs {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

type fakeReminderRepo struct {
	mu        sync.Mutex
	reminders map[string]*entity.Reminder
	seq       int
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{reminders: map[string]*entity.Reminder{}}
}

func (r *fakeReminderRepo) Create(ctx context.Context, reminder *entity.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reminder.ID == "" {
		r.seq++
		reminder.ID = fmt.Sprintf("rem-%d", r.seq)
	}
	clone := *reminder
	r.reminders[reminder.ID] = &clone
	return nil
}

func (r *fakeReminderRepo) FindDue(ctx context.Context, day time.Time) ([]*entity.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Reminder
	for _, reminder := range r.reminders {
		if !reminder.IsSent && reminder.ScheduledSendDate.Before(day.AddDate(0, 0, 1)) {
			clone := *reminder
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeReminderRepo) ClaimSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reminder, ok := r.reminders[id]
	if !ok || reminder.IsSent {
		return false, nil
	}
	reminder.IsSent = true
	t := sentAt
	reminder.SentAt = &t
	return true, nil
}

func (r *fakeReminderRepo) HasPending(ctx context.Context, vehicleID string, t entity.ReminderType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reminder := range r.reminders {
		if reminder.VehicleID == vehicleID && reminder.Type == t && !reminder.IsSent {
			return true, nil
		}
	}
	return false, nil
}

type fakeCatalogRepo struct {
	items map[string]*entity.CatalogVehicle
}

func (r *fakeCatalogRepo) GetByID(ctx context.Context, id string) (*entity.CatalogVehicle, error) {
	if r == nil || r.items == nil {
		return nil, fmt.Errorf("catalog vehicle %s not found", id)
	}
	cv, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("catalog vehicle %s not found", id)
	}
	return cv, nil
}

type fakeCenterRepo struct {
	centers map[string]*entity.ServiceCenter
}

func (r *fakeCenterRepo) GetByID(ctx context.Context, id string) (*entity.ServiceCenter, error) {
	c, ok := r.centers[id]
	if !ok {
		return nil, fmt.Errorf("service center %s not found", id)
	}
	return c, nil
}

func (r *fakeCenterRepo) List(ctx context.Context) ([]*entity.ServiceCenter, error) {
	var out []*entity.ServiceCenter
	for _, c := range r.centers {
		out = append(out, c)
	}
	return out, nil
}

type sentMail struct {
	Recipient string
	Kind      entity.TemplateKind
	Ctx       entity.TemplateContext
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (n *fakeNotifier) Send(ctx context.Context, recipientEmail string, kind entity.TemplateKind, tmplCtx entity.TemplateContext) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, sentMail{Recipient: recipientEmail, Kind: kind, Ctx: tmplCtx})
	return nil
}

func (n *fakeNotifier) sentOfKind(kind entity.TemplateKind) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, m := range n.sent {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// fakeTxRunner runs the callback directly; the fakes have no sessions.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
