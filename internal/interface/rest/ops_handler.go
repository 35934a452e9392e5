package rest

import (
	"net/http"
	"time"

	"autocare-service/internal/domain/errs"
	"autocare-service/internal/domain/repository"
	"autocare-service/internal/usecase"
	"autocare-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OpsHandler exposes availability, service centers and the manual sweep
// trigger.
type OpsHandler struct {
	Availability *usecase.AvailabilityService
	Sweep        *usecase.ReminderSweep
	Centers      repository.ServiceCenterRepository
}

// FreeSlots returns the open time slots for a day
func (h *OpsHandler) FreeSlots(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		respondError(c, errs.Validation("date", "required query parameter"))
		return
	}
	date, err := utils.ParseDate(dateStr)
	if err != nil {
		respondError(c, errs.Validation("date", "expected YYYY-MM-DD"))
		return
	}

	slots, err := h.Availability.FreeSlots(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": dateStr, "free_slots": slots})
}

// ListCenters returns all service centers
func (h *OpsHandler) ListCenters(c *gin.Context) {
	centers, err := h.Centers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, centers)
}

// RunSweep triggers one reminder sweep immediately
func (h *OpsHandler) RunSweep(c *gin.Context) {
	report := h.Sweep.Run(c.Request.Context(), time.Now())
	c.JSON(http.StatusOK, report)
}
