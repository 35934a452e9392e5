package usecase

import (
	"context"
	"time"

	"autocare-service/internal/domain/repository"
	"autocare-service/pkg/utils"
)

// AvailabilityService answers which time slots are still open on a day.
type AvailabilityService struct {
	bookings  repository.BookingRepository
	openHour  int
	closeHour int
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(bookings repository.BookingRepository, openHour, closeHour int) *AvailabilityService {
	return &AvailabilityService{bookings: bookings, openHour: openHour, closeHour: closeHour}
}

// FreeSlots returns the business-hours slots on the given day that no
// active booking currently occupies. A booking occupies its scheduled
// time, or its preferred time while still unscheduled.
func (s *AvailabilityService) FreeSlots(ctx context.Context, day time.Time) ([]string, error) {
	active, err := s.bookings.FindActiveOnDate(ctx, utils.StartOfDay(day))
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(active))
	for _, b := range active {
		slot := b.ScheduledTime
		if slot == "" {
			slot = b.PreferredTimeSlot
		}
		if slot != "" {
			taken[slot] = true
		}
	}

	var free []string
	for _, slot := range utils.BusinessSlots(s.openHour, s.closeHour) {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}
