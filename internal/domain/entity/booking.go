package entity

import "time"

// BookingStatus is the lifecycle state of a service booking
// (persisted as a string).
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"     // created, awaiting confirmation
	StatusConfirmed   BookingStatus = "confirmed"   // acknowledged by staff, no slot yet
	StatusScheduled   BookingStatus = "scheduled"   // date and time assigned
	StatusInProgress  BookingStatus = "in_progress" // vehicle in the workshop
	StatusCompleted   BookingStatus = "completed"   // terminal
	StatusCancelled   BookingStatus = "cancelled"   // terminal
	StatusNoShow      BookingStatus = "no_show"     // terminal
	StatusRescheduled BookingStatus = "rescheduled" // slot released, behaves like confirmed
)

// ServiceType classifies what work a booking requests.
type ServiceType string

const (
	ServiceNetaWarranty         ServiceType = "neta_warranty"
	Service10000Km              ServiceType = "10000km_service"
	ServiceRoutineMaintenance   ServiceType = "routine_maintenance"
	ServiceBattery              ServiceType = "battery_service"
	ServiceDiagnostic           ServiceType = "diagnostic"
	ServiceRepair               ServiceType = "repair"
	ServiceRecall               ServiceType = "recall_service"
	ServicePrePurchaseInspection ServiceType = "pre_purchase_inspection"
	ServiceOther                ServiceType = "other"
)

// serviceTypeLabels resolves the label recorded on the vehicle after
// completion and shown in notifications.
var serviceTypeLabels = map[ServiceType]string{
	ServiceNetaWarranty:          "NETA Warranty Service",
	Service10000Km:               "10,000 km Service",
	ServiceRoutineMaintenance:    "Routine Maintenance",
	ServiceBattery:               "Battery Service",
	ServiceDiagnostic:            "Diagnostic",
	ServiceRepair:                "Repair",
	ServiceRecall:                "Recall Service",
	ServicePrePurchaseInspection: "Pre-purchase Inspection",
	ServiceOther:                 "Other",
}

// Valid reports whether t is a known service type.
func (t ServiceType) Valid() bool {
	_, ok := serviceTypeLabels[t]
	return ok
}

// Label returns the display label for the service type.
func (t ServiceType) Label() string {
	if l, ok := serviceTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// BookingPriority orders the workshop queue.
type BookingPriority string

const (
	PriorityNormal    BookingPriority = "normal"
	PriorityUrgent    BookingPriority = "urgent"
	PriorityEmergency BookingPriority = "emergency"
	PriorityWarranty  BookingPriority = "warranty"
)

// Valid reports whether p is a known priority.
func (p BookingPriority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityUrgent, PriorityEmergency, PriorityWarranty:
		return true
	}
	return false
}

// Booking is a customer's service appointment request and its lifecycle
// state. Customer contact details are denormalized so a booking does not
// require an account.
type Booking struct {
	ID            string `bson:"_id,omitempty"`
	BookingNumber string `bson:"bookingNumber"` // SRV + YYYYMMDD + 6 hex, unique index

	VehicleID     string `bson:"vehicleId"`
	CustomerName  string `bson:"customerName"`
	CustomerEmail string `bson:"customerEmail"`
	CustomerPhone string `bson:"customerPhone"`

	ServiceType      ServiceType     `bson:"serviceType"`
	ServiceTypeOther string          `bson:"serviceTypeOther,omitempty"` // free text when ServiceType is "other"
	Priority         BookingPriority `bson:"priority"`

	// Request fields
	PreferredDate     time.Time   `bson:"preferredDate"`
	PreferredTimeSlot string      `bson:"preferredTimeSlot,omitempty"`
	AlternativeDates  []time.Time `bson:"alternativeDates,omitempty"`
	OdometerReading   *int        `bson:"odometerReading,omitempty"`
	ServiceDescription string     `bson:"serviceDescription,omitempty"`
	SymptomsProblems   string     `bson:"symptomsProblems,omitempty"`
	CustomerNotes      string     `bson:"customerNotes,omitempty"`

	// Lifecycle fields
	Status             BookingStatus `bson:"status"`
	IsScheduled        bool          `bson:"isScheduled"`
	ScheduledDate      *time.Time    `bson:"scheduledDate,omitempty"`
	ScheduledTime      string        `bson:"scheduledTime,omitempty"`
	ScheduledBy        string        `bson:"scheduledBy,omitempty"`
	ScheduledAt        *time.Time    `bson:"scheduledAt,omitempty"`
	ServiceCenterID    string        `bson:"serviceCenterId,omitempty"`
	AssignedTechnician string        `bson:"assignedTechnician,omitempty"`

	// Completion fields
	CompletedAt         *time.Time `bson:"completedAt,omitempty"`
	CompletedBy         string     `bson:"completedBy,omitempty"`
	FinalOdometer       *int       `bson:"finalOdometer,omitempty"`
	ServiceReport       string     `bson:"serviceReport,omitempty"`
	PartsUsed           string     `bson:"partsUsed,omitempty"`
	TotalCost           float64    `bson:"totalCost,omitempty"`
	WarrantyCovered     bool       `bson:"warrantyCovered"`
	WarrantyClaimNumber string     `bson:"warrantyClaimNumber,omitempty"`

	// Notification guards; set once, keep side effects idempotent.
	ConfirmationSent bool `bson:"confirmationSent"`
	ReminderSent     bool `bson:"reminderSent"`
	FollowUpSent     bool `bson:"followUpSent"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// ServiceTypeLabel resolves the label, honoring the free-text override.
func (b *Booking) ServiceTypeLabel() string {
	if b.ServiceType == ServiceOther && b.ServiceTypeOther != "" {
		return b.ServiceTypeOther
	}
	return b.ServiceType.Label()
}

// CanBeScheduled reports whether Schedule is a legal operation right now.
func (b *Booking) CanBeScheduled() bool {
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusRescheduled:
		return true
	}
	return false
}

// IsTerminal reports whether the booking can no longer change state.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// ReminderDate is the calendar date the sweep compares against for a
// booking outside any schedule batch: the assigned slot date when present,
// otherwise the customer's preferred date.
func (b *Booking) ReminderDate() time.Time {
	if b.ScheduledDate != nil {
		return *b.ScheduledDate
	}
	return b.PreferredDate
}
