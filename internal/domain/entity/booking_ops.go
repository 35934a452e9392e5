package entity

import "time"

// The mutators below are the only write paths for the scheduling fields,
// so IsScheduled can never drift from Status and the slot fields.

// AssignSlot places the booking on a concrete date and time and moves it
// to scheduled. Callers check transition legality first; the batch
// scheduler calls this directly as an administrative override.
func (b *Booking) AssignSlot(date time.Time, timeSlot, scheduledBy, serviceCenterID string, now time.Time) {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	b.ScheduledDate = &d
	b.ScheduledTime = timeSlot
	b.ScheduledBy = scheduledBy
	t := now
	b.ScheduledAt = &t
	if serviceCenterID != "" {
		b.ServiceCenterID = serviceCenterID
	}
	b.Status = StatusScheduled
	b.IsScheduled = true
	b.UpdatedAt = now
}

// ReleaseSlot gives up the assigned slot and parks the booking in
// rescheduled, from which AssignSlot applies again. Reminder guards reset
// so the next slot gets fresh reminders.
func (b *Booking) ReleaseSlot(now time.Time) {
	b.ScheduledDate = nil
	b.ScheduledTime = ""
	b.ScheduledBy = ""
	b.ScheduledAt = nil
	b.Status = StatusRescheduled
	b.IsScheduled = false
	b.ReminderSent = false
	b.FollowUpSent = false
	b.UpdatedAt = now
}

// MarkCompleted records the workshop outcome. The slot fields are kept
// for history; IsScheduled drops because the booking is no longer holding
// a future slot.
func (b *Booking) MarkCompleted(technician string, finalOdometer int, report, partsUsed string, totalCost float64, now time.Time) {
	b.Status = StatusCompleted
	b.IsScheduled = false
	t := now
	b.CompletedAt = &t
	b.CompletedBy = technician
	b.AssignedTechnician = technician
	odo := finalOdometer
	b.FinalOdometer = &odo
	b.ServiceReport = report
	b.PartsUsed = partsUsed
	b.TotalCost = totalCost
	b.UpdatedAt = now
}

// MarkCancelled moves the booking to the terminal cancelled state.
func (b *Booking) MarkCancelled(now time.Time) {
	b.Status = StatusCancelled
	b.IsScheduled = false
	b.UpdatedAt = now
}

// MarkNoShow moves the booking to the terminal no-show state.
func (b *Booking) MarkNoShow(now time.Time) {
	b.Status = StatusNoShow
	b.IsScheduled = false
	b.UpdatedAt = now
}
