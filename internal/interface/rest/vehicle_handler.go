package rest

import (
	"net/http"
	"time"

	"autocare-service/internal/domain/errs"
	"autocare-service/internal/usecase"
	"autocare-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

// VehicleHandler exposes the vehicle record store over HTTP.
type VehicleHandler struct {
	Vehicles *usecase.VehicleService
}

type registerVehicleRequest struct {
	CustomerID    string `json:"customer_id" binding:"required"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`

	VIN         string `json:"vin" binding:"required"`
	PlateNumber string `json:"plate_number" binding:"required"`

	CatalogID   string `json:"catalog_id"`
	CustomMake  string `json:"custom_make"`
	CustomModel string `json:"custom_model"`
	CustomYear  int    `json:"custom_year"`

	CurrentOdometerKm int `json:"current_odometer_km"`

	HasWarranty       bool   `json:"has_warranty"`
	WarrantyStartDate string `json:"warranty_start_date"`
	WarrantyEndDate   string `json:"warranty_end_date"`
	WarrantyType      string `json:"warranty_type"`

	IsNetaCar                bool `json:"is_neta_car"`
	NetaBatteryWarrantyYears int  `json:"neta_battery_warranty_years"`
	NetaBatteryWarrantyKm    int  `json:"neta_battery_warranty_km"`

	EligibleFor10000KmService bool `json:"eligible_for_10000km_service"`
}

// Register creates a new vehicle record
func (h *VehicleHandler) Register(c *gin.Context) {
	var req registerVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := usecase.RegisterVehicleInput{
		CustomerID:                req.CustomerID,
		CustomerName:              req.CustomerName,
		CustomerEmail:             req.CustomerEmail,
		VIN:                       req.VIN,
		PlateNumber:               req.PlateNumber,
		CatalogID:                 req.CatalogID,
		CustomMake:                req.CustomMake,
		CustomModel:               req.CustomModel,
		CustomYear:                req.CustomYear,
		CurrentOdometerKm:         req.CurrentOdometerKm,
		HasWarranty:               req.HasWarranty,
		WarrantyType:              req.WarrantyType,
		IsNetaCar:                 req.IsNetaCar,
		NetaBatteryWarrantyYears:  req.NetaBatteryWarrantyYears,
		NetaBatteryWarrantyKm:     req.NetaBatteryWarrantyKm,
		EligibleFor10000KmService: req.EligibleFor10000KmService,
	}
	if req.WarrantyStartDate != "" {
		d, err := utils.ParseDate(req.WarrantyStartDate)
		if err != nil {
			respondError(c, errs.Validation("warranty_start_date", "expected YYYY-MM-DD"))
			return
		}
		in.WarrantyStartDate = &d
	}
	if req.WarrantyEndDate != "" {
		d, err := utils.ParseDate(req.WarrantyEndDate)
		if err != nil {
			respondError(c, errs.Validation("warranty_end_date", "expected YYYY-MM-DD"))
			return
		}
		in.WarrantyEndDate = &d
	}

	v, err := h.Vehicles.Register(c.Request.Context(), in, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// Lookup finds a vehicle by VIN and plate number
func (h *VehicleHandler) Lookup(c *gin.Context) {
	v, err := h.Vehicles.Lookup(c.Request.Context(), c.Query("vin"), c.Query("plate_number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Get returns a vehicle record
func (h *VehicleHandler) Get(c *gin.Context) {
	v, err := h.Vehicles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// ListByCustomer returns a customer's vehicles
func (h *VehicleHandler) ListByCustomer(c *gin.Context) {
	vehicles, err := h.Vehicles.ListByCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

type updateOdometerRequest struct {
	CurrentOdometerKm int `json:"current_odometer_km" binding:"required"`
}

// UpdateOdometer records a new odometer reading
func (h *VehicleHandler) UpdateOdometer(c *gin.Context) {
	var req updateOdometerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.Vehicles.UpdateOdometer(c.Request.Context(), c.Param("id"), req.CurrentOdometerKm, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// Eligibility returns the evaluated service and warranty standing
func (h *VehicleHandler) Eligibility(c *gin.Context) {
	report, err := h.Vehicles.Eligibility(c.Request.Context(), c.Param("id"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
