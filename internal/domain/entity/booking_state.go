package entity

// AllowedTransitions is the booking state machine as a directed graph.
// Terminal states have no outgoing edges. The batch scheduler bypasses
// this table deliberately; everything else goes through CanTransition.
var AllowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:     {StatusConfirmed, StatusScheduled, StatusCancelled, StatusNoShow},
	StatusConfirmed:   {StatusScheduled, StatusCancelled, StatusNoShow},
	StatusScheduled:   {StatusInProgress, StatusCompleted, StatusRescheduled, StatusCancelled, StatusNoShow},
	StatusInProgress:  {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusRescheduled: {StatusScheduled, StatusCancelled, StatusNoShow},
	StatusCompleted:   {},
	StatusCancelled:   {},
	StatusNoShow:      {},
}

// CanTransition reports whether from -> to is a legal state change.
func CanTransition(from, to BookingStatus) bool {
	allowed, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
