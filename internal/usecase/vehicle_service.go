package usecase

import (
	"context"
	"strings"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/errs"
	"autocare-service/internal/domain/repository"
	"autocare-service/pkg/logger"
)

// VehicleService fronts the vehicle record store and the eligibility
// evaluation over it.
type VehicleService struct {
	vehicles repository.VehicleRepository
	catalog  repository.CatalogRepository
	logger   logger.Logger
}

// NewVehicleService creates a new vehicle service
func NewVehicleService(vehicles repository.VehicleRepository, catalog repository.CatalogRepository, logger logger.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, catalog: catalog, logger: logger}
}

// RegisterVehicleInput describes a vehicle to register.
type RegisterVehicleInput struct {
	CustomerID    string
	CustomerName  string
	CustomerEmail string

	VIN         string
	PlateNumber string

	CatalogID   string
	CustomMake  string
	CustomModel string
	CustomYear  int

	CurrentOdometerKm int

	HasWarranty       bool
	WarrantyStartDate *time.Time
	WarrantyEndDate   *time.Time
	WarrantyType      string

	IsNetaCar                bool
	NetaBatteryWarrantyYears int
	NetaBatteryWarrantyKm    int

	EligibleFor10000KmService bool
}

// Register validates and stores a new vehicle record. The (VIN, plate)
// pair must be unique; a NETA car without explicit warranty dates gets
// the program defaults from its warranty start.
func (s *VehicleService) Register(ctx context.Context, in RegisterVehicleInput, now time.Time) (*entity.VehicleRecord, error) {
	vin := strings.ToUpper(strings.TrimSpace(in.VIN))
	plate := strings.ToUpper(strings.TrimSpace(in.PlateNumber))
	if vin == "" {
		return nil, errs.Validation("vin", "required")
	}
	if plate == "" {
		return nil, errs.Validation("plate_number", "required")
	}
	if in.CatalogID == "" && in.CustomMake == "" && in.CustomModel == "" {
		return nil, errs.Validation("catalog_id", "either a catalog reference or a custom make/model is required")
	}
	if in.CurrentOdometerKm < 0 {
		return nil, errs.Validation("current_odometer_km", "must not be negative")
	}
	if in.HasWarranty && (in.WarrantyStartDate == nil || in.WarrantyEndDate == nil) {
		return nil, errs.Validation("warranty", "start and end dates are required when a warranty is declared")
	}
	if in.CatalogID != "" && s.catalog != nil {
		if _, err := s.catalog.GetByID(ctx, in.CatalogID); err != nil {
			return nil, errs.NotFound("catalog vehicle", in.CatalogID)
		}
	}

	v := &entity.VehicleRecord{
		CustomerID:                in.CustomerID,
		CustomerName:              strings.TrimSpace(in.CustomerName),
		CustomerEmail:             strings.TrimSpace(in.CustomerEmail),
		VIN:                       vin,
		PlateNumber:               plate,
		CatalogID:                 in.CatalogID,
		CustomMake:                strings.TrimSpace(in.CustomMake),
		CustomModel:               strings.TrimSpace(in.CustomModel),
		CustomYear:                in.CustomYear,
		CurrentOdometerKm:         in.CurrentOdometerKm,
		HasWarranty:               in.HasWarranty,
		WarrantyStartDate:         in.WarrantyStartDate,
		WarrantyEndDate:           in.WarrantyEndDate,
		WarrantyType:              in.WarrantyType,
		IsNetaCar:                 in.IsNetaCar,
		NetaBatteryWarrantyYears:  in.NetaBatteryWarrantyYears,
		NetaBatteryWarrantyKm:     in.NetaBatteryWarrantyKm,
		EligibleFor10000KmService: in.EligibleFor10000KmService,
		Version:                   1,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	if v.IsNetaCar && !v.HasWarranty && in.WarrantyStartDate != nil {
		end := in.WarrantyStartDate.AddDate(entity.NetaBatteryWarrantyYearsDefault, 0, 0)
		v.HasWarranty = true
		v.WarrantyEndDate = &end
		v.WarrantyType = "NETA battery warranty"
	}

	if err := s.vehicles.Create(ctx, v); err != nil {
		if err == repository.ErrDuplicate {
			return nil, errs.Validation("vin", "a vehicle with this VIN and plate number already exists")
		}
		return nil, err
	}
	s.logger.Info("Vehicle registered", "vehicleId", v.ID, "vin", v.VIN, "plate", v.PlateNumber)
	return v, nil
}

// UpdateOdometer records a new odometer reading. Readings never go
// backwards.
func (s *VehicleService) UpdateOdometer(ctx context.Context, id string, odometerKm int, now time.Time) (*entity.VehicleRecord, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NotFound("vehicle", id)
	}
	if odometerKm < v.CurrentOdometerKm {
		return nil, errs.Validation("current_odometer_km", "reading is lower than the recorded odometer")
	}
	v.CurrentOdometerKm = odometerKm
	v.UpdatedAt = now
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Lookup finds a vehicle by its unique VIN and plate number pair.
func (s *VehicleService) Lookup(ctx context.Context, vin, plate string) (*entity.VehicleRecord, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if vin == "" || plate == "" {
		return nil, errs.Validation("vin", "both vin and plate_number are required")
	}
	v, err := s.vehicles.FindByVINAndPlate(ctx, vin, plate)
	if err != nil {
		return nil, errs.NotFound("vehicle", vin+"/"+plate)
	}
	return v, nil
}

// Get returns a vehicle record by id.
func (s *VehicleService) Get(ctx context.Context, id string) (*entity.VehicleRecord, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NotFound("vehicle", id)
	}
	return v, nil
}

// ListByCustomer returns a customer's vehicles.
func (s *VehicleService) ListByCustomer(ctx context.Context, customerID string) ([]*entity.VehicleRecord, error) {
	return s.vehicles.FindByCustomer(ctx, customerID)
}

// EligibilityReport is the evaluated service and warranty standing of a
// vehicle at a point in time.
type EligibilityReport struct {
	VehicleID                string `json:"vehicle_id"`
	WarrantyValid            bool   `json:"warranty_valid"`
	DaysUntilWarrantyExpires int    `json:"days_until_warranty_expires"`
	Needs10000KmService      bool   `json:"needs_10000km_service"`
	NetaBatteryCovered       bool   `json:"neta_battery_covered"`
}

// Eligibility evaluates the vehicle's current standing.
func (s *VehicleService) Eligibility(ctx context.Context, id string, now time.Time) (*EligibilityReport, error) {
	v, err := s.vehicles.FindByID(ctx, id)
	if err != nil {
		return nil, errs.NotFound("vehicle", id)
	}
	return &EligibilityReport{
		VehicleID:                v.ID,
		WarrantyValid:            WarrantyValid(v, now),
		DaysUntilWarrantyExpires: DaysUntilWarrantyExpires(v, now),
		Needs10000KmService:      Needs10000KmService(v, now),
		NetaBatteryCovered:       NetaBatteryCovered(v, now),
	}, nil
}
