package api

import (
	"fmt"
	"net/http"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type TrackerHandler struct {
	trackerService service.TrackerService
}

func NewTrackerHandler(trackerService service.TrackerService) *TrackerHandler {
	return &TrackerHandler{trackerService: trackerService}
}

// --- DTOs ---

type TrackerRequest struct {
	Weight         float64 `json:"weight" binding:"min=0"`
	WaterIntake    int     `json:"waterIntake" binding:"min=0"`
	CaloriesIntake float64 `json:"caloriesIntake" binding:"min=0"`
}

type AddCaloriesRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// GetRecords godoc
// @Summary List tracker records
// @Description Without from/to every record is returned. Both bounds are inclusive; results are in ascending date order.
// @Tags Tracker
// @Produce json
// @Security BearerAuth
// @Param from query string false "yyyy-MM-dd"
// @Param to query string false "yyyy-MM-dd"
// @Success 200 {array} domain.TrackerRecord
// @Failure 400 {object} gin.H "Invalid date"
// @Failure 502 {object} gin.H "Backend unavailable"
// @Router /tracker [get]
func (h *TrackerHandler) GetRecords(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		records, err := h.trackerService.GetAll(c.Request.Context(), userID)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
		return
	}
	if from == "" || to == "" {
		abortWithError(c, http.StatusBadRequest, "from and to must be given together")
		return
	}

	start, ok := parseDateParam(c, "from", from)
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "to", to)
	if !ok {
		return
	}
	records, err := h.trackerService.GetRange(c.Request.Context(), userID, start, end)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetMonth godoc
// @Summary Tracker records of a month
// @Description Defaults to the server's current month when year and month are omitted.
// @Tags Tracker
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year"
// @Param month query int false "Month (1-12)"
// @Success 200 {array} domain.TrackerRecord
// @Router /tracker/month [get]
func (h *TrackerHandler) GetMonth(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var (
		records []domain.TrackerRecord
		err     error
	)
	if c.Query("year") == "" && c.Query("month") == "" {
		records, err = h.trackerService.GetEntriesForCurrentMonth(c.Request.Context(), userID)
	} else {
		year, yErr := strconv.Atoi(c.Query("year"))
		month, mErr := strconv.Atoi(c.Query("month"))
		if yErr != nil || mErr != nil {
			abortWithError(c, http.StatusBadRequest, "year and month must be integers")
			return
		}
		records, err = h.trackerService.GetEntriesForMonth(c.Request.Context(), userID, year, time.Month(month))
	}
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetRecord godoc
// @Summary Tracker record of one day
// @Tags Tracker
// @Produce json
// @Security BearerAuth
// @Param date path string true "yyyy-MM-dd"
// @Success 200 {object} domain.TrackerRecord
// @Failure 404 {object} gin.H "No record for this day"
// @Router /tracker/{date} [get]
func (h *TrackerHandler) GetRecord(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}

	record, err := h.trackerService.GetByDate(c.Request.Context(), userID, date)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if record == nil {
		abortWithError(c, http.StatusNotFound, fmt.Sprintf("No tracker record for %s", date))
		return
	}
	c.JSON(http.StatusOK, record)
}

// PutRecord godoc
// @Summary Replace the tracker record of one day
// @Description Every field is overwritten; omitted fields become 0.
// @Tags Tracker
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "yyyy-MM-dd"
// @Param record body TrackerRequest true "Metrics"
// @Success 200 {object} domain.TrackerRecord
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 502 {object} gin.H "Backend unavailable"
// @Router /tracker/{date} [put]
func (h *TrackerHandler) PutRecord(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}
	var req TrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	record := &domain.TrackerRecord{
		UserID:         userID,
		Date:           date,
		Weight:         req.Weight,
		WaterIntake:    req.WaterIntake,
		CaloriesIntake: req.CaloriesIntake,
	}
	if err := h.trackerService.Upsert(c.Request.Context(), record); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// IncrementWater godoc
// @Summary Add one glass of water
// @Description Creates the day's record when missing.
// @Tags Tracker
// @Produce json
// @Security BearerAuth
// @Param date path string true "yyyy-MM-dd"
// @Success 200 {object} domain.TrackerRecord
// @Router /tracker/{date}/water [post]
func (h *TrackerHandler) IncrementWater(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}

	record, err := h.trackerService.IncrementWaterIntake(c.Request.Context(), userID, date)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// AddCalories godoc
// @Summary Add to the day's calorie intake
// @Tags Tracker
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "yyyy-MM-dd"
// @Param request body AddCaloriesRequest true "Calories to add"
// @Success 200 {object} domain.TrackerRecord
// @Router /tracker/{date}/calories [post]
func (h *TrackerHandler) AddCalories(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, "date", c.Param("date"))
	if !ok {
		return
	}
	var req AddCaloriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	record, err := h.trackerService.AddCalories(c.Request.Context(), userID, date, req.Amount)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
