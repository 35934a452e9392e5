package rest

import (
	"net/http"
	"time"

	"autocare-service/internal/domain/entity"
	"autocare-service/internal/domain/errs"
	"autocare-service/internal/usecase"
	"autocare-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Bookings *usecase.BookingService
}

type createBookingRequest struct {
	VehicleID     string `json:"vehicle_id" binding:"required"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required"`
	CustomerPhone string `json:"customer_phone"`

	ServiceType      string `json:"service_type" binding:"required"`
	ServiceTypeOther string `json:"service_type_other"`
	Priority         string `json:"priority"`

	PreferredDate      string   `json:"preferred_date" binding:"required"`
	PreferredTimeSlot  string   `json:"preferred_time_slot"`
	AlternativeDates   []string `json:"alternative_dates"`
	OdometerReading    *int     `json:"odometer_reading"`
	ServiceDescription string   `json:"service_description"`
	SymptomsProblems   string   `json:"symptoms_problems"`
	CustomerNotes      string   `json:"customer_notes"`
}

// Create opens a new booking
func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preferred, err := utils.ParseDate(req.PreferredDate)
	if err != nil {
		respondError(c, errs.Validation("preferred_date", "expected YYYY-MM-DD"))
		return
	}
	alternatives := make([]time.Time, 0, len(req.AlternativeDates))
	for _, s := range req.AlternativeDates {
		d, err := utils.ParseDate(s)
		if err != nil {
			respondError(c, errs.Validation("alternative_dates", "expected YYYY-MM-DD"))
			return
		}
		alternatives = append(alternatives, d)
	}

	in := usecase.CreateBookingInput{
		VehicleID:          req.VehicleID,
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerPhone:      req.CustomerPhone,
		ServiceType:        entity.ServiceType(req.ServiceType),
		ServiceTypeOther:   req.ServiceTypeOther,
		Priority:           entity.BookingPriority(req.Priority),
		PreferredDate:      preferred,
		PreferredTimeSlot:  req.PreferredTimeSlot,
		AlternativeDates:   alternatives,
		OdometerReading:    req.OdometerReading,
		ServiceDescription: req.ServiceDescription,
		SymptomsProblems:   req.SymptomsProblems,
		CustomerNotes:      req.CustomerNotes,
	}

	b, err := h.Bookings.Create(c.Request.Context(), in, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Get returns a booking by its booking number
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.Bookings.Get(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// History returns all bookings for a vehicle
func (h *BookingHandler) History(c *gin.Context) {
	bookings, err := h.Bookings.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// Confirm acknowledges a pending booking
func (h *BookingHandler) Confirm(c *gin.Context) {
	b, err := h.Bookings.Confirm(c.Request.Context(), c.Param("number"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type scheduleRequest struct {
	ScheduledDate   string `json:"scheduled_date" binding:"required"`
	ScheduledTime   string `json:"scheduled_time" binding:"required"`
	ScheduledBy     string `json:"scheduled_by" binding:"required"`
	ServiceCenterID string `json:"service_center_id"`
}

// Schedule assigns a slot to a booking
func (h *BookingHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := utils.ParseDate(req.ScheduledDate)
	if err != nil {
		respondError(c, errs.Validation("scheduled_date", "expected YYYY-MM-DD"))
		return
	}

	b, err := h.Bookings.Schedule(c.Request.Context(), c.Param("number"), usecase.ScheduleInput{
		Date:            date,
		TimeSlot:        req.ScheduledTime,
		ScheduledBy:     req.ScheduledBy,
		ServiceCenterID: req.ServiceCenterID,
	}, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type startRequest struct {
	Technician string `json:"technician"`
}

// Start moves a scheduled booking into the workshop
func (h *BookingHandler) Start(c *gin.Context) {
	var req startRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	b, err := h.Bookings.Start(c.Request.Context(), c.Param("number"), req.Technician, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type completeRequest struct {
	Technician          string  `json:"technician" binding:"required"`
	FinalOdometer       int     `json:"final_odometer" binding:"required"`
	ServiceReport       string  `json:"service_report"`
	PartsUsed           string  `json:"parts_used"`
	TotalCost           float64 `json:"total_cost"`
	WarrantyClaimNumber string  `json:"warranty_claim_number"`
}

// Complete finishes a booking and updates the vehicle record
func (h *BookingHandler) Complete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.Bookings.Complete(c.Request.Context(), c.Param("number"), usecase.CompleteInput{
		Technician:          req.Technician,
		FinalOdometer:       req.FinalOdometer,
		ServiceReport:       req.ServiceReport,
		PartsUsed:           req.PartsUsed,
		TotalCost:           req.TotalCost,
		WarrantyClaimNumber: req.WarrantyClaimNumber,
	}, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Cancel aborts a booking
func (h *BookingHandler) Cancel(c *gin.Context) {
	b, err := h.Bookings.Cancel(c.Request.Context(), c.Param("number"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// MarkNoShow records that the customer did not turn up
func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	b, err := h.Bookings.MarkNoShow(c.Request.Context(), c.Param("number"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Reschedule releases the assigned slot
func (h *BookingHandler) Reschedule(c *gin.Context) {
	b, err := h.Bookings.Reschedule(c.Request.Context(), c.Param("number"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
