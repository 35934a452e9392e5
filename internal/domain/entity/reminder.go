package entity

import "time"

// ReminderType classifies a stored reminder.
type ReminderType string

const (
	ReminderWarrantyExpiry ReminderType = "warranty_expiry"
	ReminderServiceDue     ReminderType = "service_due"
	ReminderBooking        ReminderType = "booking_reminder"
	ReminderCustom         ReminderType = "custom"
)

// Reminder is a notification created ahead of time (for example when a
// warranty expiry is computed) and consumed by the daily sweep.
type Reminder struct {
	ID        string       `bson:"_id,omitempty"`
	VehicleID string       `bson:"vehicleId"`
	Type      ReminderType `bson:"type"`

	ScheduledSendDate time.Time `bson:"scheduledSendDate"`
	Message           string    `bson:"message,omitempty"`

	IsSent bool       `bson:"isSent"`
	SentAt *time.Time `bson:"sentAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
}
