package templates

import (
	"fmt"
	"strings"
	"text/template"

	"autocare-service/internal/domain/entity"
)

// emailTemplate pairs a subject line with a plain-text body template.
type emailTemplate struct {
	subject string
	body    *template.Template
}

var registry = map[entity.TemplateKind]emailTemplate{
	entity.KindBookingReceived: {
		subject: "Service booking {{.BookingNumber}} received",
		body: mustParse("booking_received", `Dear {{.CustomerName}},

Thank you for booking a service with us.

Booking number: {{.BookingNumber}}
Service:        {{.ServiceType}}
{{- if .Vehicle}}
Vehicle:        {{.Vehicle}}
{{- end}}
Preferred date: {{.PreferredDate}}

We will confirm your appointment shortly. Please keep the booking number
for any inquiries.

Best regards,
The Service Team`),
	},
	entity.KindScheduleConfirmed: {
		subject: "Your service appointment is scheduled ({{.BookingNumber}})",
		body: mustParse("schedule_confirmed", `Dear {{.CustomerName}},

Your service appointment has been scheduled.

Booking number: {{.BookingNumber}}
Service:        {{.ServiceType}}
{{- if .Vehicle}}
Vehicle:        {{.Vehicle}}
{{- end}}
Date:           {{.ScheduledDate}}
Time:           {{.ScheduledTime}}

Please arrive 10 minutes early and bring your vehicle documents.

Best regards,
The Service Team`),
	},
	entity.KindServiceCompleted: {
		subject: "Your service is complete ({{.BookingNumber}})",
		body: mustParse("service_completed", `Dear {{.CustomerName}},

The service on your vehicle has been completed.

Booking number: {{.BookingNumber}}
Service:        {{.ServiceType}}
{{- if .Vehicle}}
Vehicle:        {{.Vehicle}}
{{- end}}
{{- if .FinalOdometer}}
Odometer:       {{.FinalOdometer}} km
{{- end}}

Your vehicle is ready for pickup. Thank you for choosing us.

Best regards,
The Service Team`),
	},
	entity.KindReminderToday: {
		subject: "Reminder: your service appointment is today ({{.BookingNumber}})",
		body: mustParse("reminder_today", `Dear {{.CustomerName}},

This is a reminder that your service appointment is today.

Booking number: {{.BookingNumber}}
Service:        {{.ServiceType}}
{{- if .Vehicle}}
Vehicle:        {{.Vehicle}}
{{- end}}
Date:           {{.ScheduledDate}}
Time:           {{.ScheduledTime}}

We look forward to seeing you.

Best regards,
The Service Team`),
	},
	entity.KindReminderTomorrow: {
		subject: "Reminder: your service appointment is tomorrow ({{.BookingNumber}})",
		body: mustParse("reminder_tomorrow", `Dear {{.CustomerName}},

This is a reminder that your service appointment is tomorrow.

Booking number: {{.BookingNumber}}
Service:        {{.ServiceType}}
{{- if .Vehicle}}
Vehicle:        {{.Vehicle}}
{{- end}}
Date:           {{.ScheduledDate}}
Time:           {{.ScheduledTime}}

If you need to reschedule, please contact us as soon as possible.

Best regards,
The Service Team`),
	},
	entity.KindWarrantyExpiry: {
		subject: "Your vehicle warranty is expiring soon",
		body: mustParse("warranty_expiry", `Dear {{.CustomerName}},

The warranty on your vehicle is expiring soon.

{{- if .Vehicle}}
Vehicle:       {{.Vehicle}}
{{- end}}
{{- if .PlateNumber}}
Plate number:  {{.PlateNumber}}
{{- end}}
{{- if .WarrantyEndDate}}
Warranty ends: {{.WarrantyEndDate}}
{{- end}}

Book a service before the expiry date to make use of your remaining
warranty coverage.

Best regards,
The Service Team`),
	},
	entity.KindVehicleReminder: {
		subject: "A reminder about your vehicle",
		body: mustParse("vehicle_reminder", `Dear {{.CustomerName}},

{{.Message}}

{{- if .Vehicle}}

Vehicle: {{.Vehicle}}
{{- end}}

Best regards,
The Service Team`),
	},
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=zero").Parse(text))
}

// Render produces the subject and body for a notification kind.
func Render(kind entity.TemplateKind, ctx entity.TemplateContext) (subject, body string, err error) {
	t, ok := registry[kind]
	if !ok {
		return "", "", fmt.Errorf("unknown template kind %q", kind)
	}

	subjectTmpl, err := template.New("subject").Option("missingkey=zero").Parse(t.subject)
	if err != nil {
		return "", "", err
	}
	var sb strings.Builder
	if err := subjectTmpl.Execute(&sb, ctx); err != nil {
		return "", "", err
	}

	var bb strings.Builder
	if err := t.body.Execute(&bb, ctx); err != nil {
		return "", "", err
	}
	return sb.String(), bb.String(), nil
}
