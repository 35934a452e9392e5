package usecase

import (
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/pkg/utils"
)

// Service-due interval: every 10,000 km or 365 days, whichever comes
// first after the last recorded service.
const (
	ServiceIntervalKm   = 10000
	ServiceIntervalDays = 365
)

// Eligibility functions are pure: they read a vehicle snapshot and the
// current time and never mutate anything.

// WarrantyValid reports whether the vehicle's warranty covers now.
func WarrantyValid(v *entity.VehicleRecord, now time.Time) bool {
	return v.HasWarranty && v.WarrantyEndDate != nil && !now.After(*v.WarrantyEndDate)
}

// DaysUntilWarrantyExpires returns the number of days of warranty left,
// or 0 when the warranty is missing or already expired.
func DaysUntilWarrantyExpires(v *entity.VehicleRecord, now time.Time) int {
	if !WarrantyValid(v, now) {
		return 0
	}
	return utils.DaysUntil(now, *v.WarrantyEndDate)
}

// Needs10000KmService reports whether the vehicle is due for its 10,000 km
// interval service: distance since the last service, a reached due-km
// mark, or a reached due date, whichever triggers first.
func Needs10000KmService(v *entity.VehicleRecord, now time.Time) bool {
	if !v.EligibleFor10000KmService {
		return false
	}
	if v.LastServiceOdometer != nil && v.CurrentOdometerKm-*v.LastServiceOdometer >= ServiceIntervalKm {
		return true
	}
	if v.NextServiceDueKm != nil && v.CurrentOdometerKm >= *v.NextServiceDueKm {
		return true
	}
	if v.NextServiceDueDate != nil && !now.Before(*v.NextServiceDueDate) {
		return true
	}
	return false
}

// NetaBatteryCovered reports whether the NETA battery warranty program
// still covers the vehicle: within the program's years from warranty
// start and within its odometer limit. Program defaults apply when the
// record carries no explicit limits.
func NetaBatteryCovered(v *entity.VehicleRecord, now time.Time) bool {
	if !v.IsNetaCar || v.WarrantyStartDate == nil {
		return false
	}
	years := v.NetaBatteryWarrantyYears
	if years <= 0 {
		years = entity.NetaBatteryWarrantyYearsDefault
	}
	kmLimit := v.NetaBatteryWarrantyKm
	if kmLimit <= 0 {
		kmLimit = entity.NetaBatteryWarrantyKmDefault
	}
	end := v.WarrantyStartDate.AddDate(years, 0, 0)
	return !now.After(end) && v.CurrentOdometerKm <= kmLimit
}
