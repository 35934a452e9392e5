package utils

import "fmt"

// BusinessSlots returns the hourly time slots of the service workshop's
// business window, formatted as HH:MM. openHour is inclusive, closeHour
// exclusive: BusinessSlots(9, 17) yields 09:00 through 16:00.
func BusinessSlots(openHour, closeHour int) []string {
	if closeHour <= openHour {
		return nil
	}
	slots := make([]string, 0, closeHour-openHour)
	for h := openHour; h < closeHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}
