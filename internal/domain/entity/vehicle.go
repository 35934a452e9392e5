package entity

import (
	"time"
)

// VehicleRecord is a customer-owned vehicle tracked by the dealership.
// The (VIN, plate number) pair is unique. Either CatalogID or the custom
// make/model fields must be populated.
type VehicleRecord struct {
	ID         string `bson:"_id,omitempty"`
	CustomerID string `bson:"customerId"`

	// Owner contact, denormalized for vehicle-level reminders.
	CustomerName  string `bson:"customerName,omitempty"`
	CustomerEmail string `bson:"customerEmail,omitempty"`

	VIN         string `bson:"vin"`
	PlateNumber string `bson:"plateNumber"`

	// Catalog reference, or free-text description for vehicles not sold
	// by the dealership.
	CatalogID   string `bson:"catalogId,omitempty"`
	CustomMake  string `bson:"customMake,omitempty"`
	CustomModel string `bson:"customModel,omitempty"`
	CustomYear  int    `bson:"customYear,omitempty"`

	// Usage
	CurrentOdometerKm   int        `bson:"currentOdometerKm"`
	LastServiceDate     *time.Time `bson:"lastServiceDate,omitempty"`
	LastServiceOdometer *int       `bson:"lastServiceOdometer,omitempty"`
	LastServiceType     string     `bson:"lastServiceType,omitempty"`

	// Warranty
	HasWarranty       bool       `bson:"hasWarranty"`
	WarrantyStartDate *time.Time `bson:"warrantyStartDate,omitempty"`
	WarrantyEndDate   *time.Time `bson:"warrantyEndDate,omitempty"`
	WarrantyType      string     `bson:"warrantyType,omitempty"`

	// NETA battery warranty program
	IsNetaCar               bool `bson:"isNetaCar"`
	NetaBatteryWarrantyYears int  `bson:"netaBatteryWarrantyYears,omitempty"`
	NetaBatteryWarrantyKm    int  `bson:"netaBatteryWarrantyKm,omitempty"`

	// Service-due tracking, written only by booking completion.
	EligibleFor10000KmService bool       `bson:"eligibleFor10000KmService"`
	NextServiceDueKm          *int       `bson:"nextServiceDueKm,omitempty"`
	NextServiceDueDate        *time.Time `bson:"nextServiceDueDate,omitempty"`

	// Version guards the service cascade against concurrent completions.
	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NETA program defaults: 2-year / 50,000 km battery warranty.
const (
	NetaBatteryWarrantyYearsDefault = 2
	NetaBatteryWarrantyKmDefault    = 50000
)

// DisplayName returns a human-readable name for notifications and listings
// when no catalog record is attached.
func (v *VehicleRecord) DisplayName() string {
	if v.CustomMake == "" && v.CustomModel == "" {
		return v.PlateNumber
	}
	name := v.CustomMake
	if v.CustomModel != "" {
		if name != "" {
			name += " "
		}
		name += v.CustomModel
	}
	return name
}

// HasCatalogRef reports whether the vehicle references the external catalog.
func (v *VehicleRecord) HasCatalogRef() bool {
	return v.CatalogID != ""
}
