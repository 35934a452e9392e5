package entity

import "time"

// ScheduleBatch assigns one date, time, and service center to a set of
// bookings in a single administrative operation. Membership order is the
// application order, so a partial failure identifies which members were
// already processed.
type ScheduleBatch struct {
	ID   string `bson:"_id,omitempty"`
	Name string `bson:"name"`

	BookingIDs []string `bson:"bookingIds"`

	ScheduledDate   time.Time `bson:"scheduledDate"`
	ScheduledTime   string    `bson:"scheduledTime"`
	ServiceCenterID string    `bson:"serviceCenterId,omitempty"`
	CreatedBy       string    `bson:"createdBy"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Contains reports whether the batch currently references bookingID.
func (s *ScheduleBatch) Contains(bookingID string) bool {
	for _, id := range s.BookingIDs {
		if id == bookingID {
			return true
		}
	}
	return false
}
