package entity

// TemplateKind selects the notification template to render and send.
type TemplateKind string

const (
	KindBookingReceived   TemplateKind = "booking_received"
	KindScheduleConfirmed TemplateKind = "schedule_confirmed"
	KindServiceCompleted  TemplateKind = "service_completed"
	KindReminderToday     TemplateKind = "reminder_today"
	KindReminderTomorrow  TemplateKind = "reminder_tomorrow"
	KindWarrantyExpiry    TemplateKind = "warranty_expiry"
	KindVehicleReminder   TemplateKind = "vehicle_reminder"
)

// TemplateContext carries the values a template interpolates.
type TemplateContext map[string]string
