package rest

import (
	"net/http"
	"time"

	"autocare-service/internal/domain/errs"
	"autocare-service/internal/usecase"
	"autocare-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BatchHandler exposes schedule batches over HTTP.
type BatchHandler struct {
	Batches *usecase.BatchScheduler
}

type createBatchRequest struct {
	Name            string   `json:"name" binding:"required"`
	BookingIDs      []string `json:"booking_ids" binding:"required"`
	ScheduledDate   string   `json:"scheduled_date" binding:"required"`
	ScheduledTime   string   `json:"scheduled_time" binding:"required"`
	ServiceCenterID string   `json:"service_center_id"`
	CreatedBy       string   `json:"created_by" binding:"required"`
}

// Create builds a new schedule batch and applies it
func (h *BatchHandler) Create(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := utils.ParseDate(req.ScheduledDate)
	if err != nil {
		respondError(c, errs.Validation("scheduled_date", "expected YYYY-MM-DD"))
		return
	}

	batch, result, err := h.Batches.CreateBatch(c.Request.Context(), usecase.CreateBatchInput{
		Name:            req.Name,
		BookingIDs:      req.BookingIDs,
		ScheduledDate:   date,
		ScheduledTime:   req.ScheduledTime,
		ServiceCenterID: req.ServiceCenterID,
		CreatedBy:       req.CreatedBy,
	}, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"batch": batch, "result": result})
}

// Get returns a schedule batch
func (h *BatchHandler) Get(c *gin.Context) {
	batch, err := h.Batches.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Reapply re-runs the batch schedule over the current membership
func (h *BatchHandler) Reapply(c *gin.Context) {
	result, err := h.Batches.Reapply(c.Request.Context(), c.Param("id"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddBooking adds a booking to the batch and re-applies the schedule
func (h *BatchHandler) AddBooking(c *gin.Context) {
	result, err := h.Batches.AddBooking(c.Request.Context(), c.Param("id"), c.Param("bookingId"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RemoveBooking drops a booking from the batch and re-applies the
// schedule to the remaining members
func (h *BatchHandler) RemoveBooking(c *gin.Context) {
	batch, result, err := h.Batches.RemoveBooking(c.Request.Context(), c.Param("id"), c.Param("bookingId"), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"batch": batch, "result": result})
}
