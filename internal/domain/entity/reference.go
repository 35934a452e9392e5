package entity

import "time"

// CatalogVehicle is a read-only row from the dealership's vehicle catalog.
// This subsystem never mutates the catalog; it is used for display in
// notifications and listings.
type CatalogVehicle struct {
	ID           string
	DisplayName  string
	Manufacturer string
	ModelYear    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ServiceCenter is a read-only workshop location attached to bookings and
// schedule batches but owned elsewhere.
type ServiceCenter struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
