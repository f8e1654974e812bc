package api

import (
	"fmt"
	"net/http"
	"recipehub/meal-planner/internal/calendar"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	scheduleService service.ScheduleService
}

func NewScheduleHandler(scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// --- DTOs ---

type AddMealRequest struct {
	Date     string `json:"date" binding:"required"`
	MealType string `json:"mealType" binding:"required"`
	RecipeID string `json:"recipeId" binding:"required"`
}

type MealSlotResponse struct {
	Date      domain.Date     `json:"date"`
	MealType  domain.MealType `json:"mealType"`
	RecipeIDs []string        `json:"recipeIds"`
}

type DayResponse struct {
	Date  domain.Date                  `json:"date"`
	Meals map[domain.MealType][]string `json:"meals"`
}

type CalendarResponse struct {
	Month       calendar.Month  `json:"month"`
	Offset      int             `json:"offset"`
	DaysInMonth int             `json:"daysInMonth"`
	Cells       []calendar.Cell `json:"cells"`
	Prev        calendar.Month  `json:"prev"`
	Next        calendar.Month  `json:"next"`
}

// GetCalendar godoc
// @Summary Month grid for the meal planner
// @Description Sunday-first layout: offset empty cells, then one cell per day. No meal data is loaded.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} CalendarResponse
// @Failure 400 {object} gin.H "Invalid year or month"
// @Router /calendar/{year}/{month} [get]
func (h *ScheduleHandler) GetCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		abortWithError(c, http.StatusBadRequest, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		abortWithError(c, http.StatusBadRequest, "Invalid month")
		return
	}

	m := calendar.Month{Year: year, Month: time.Month(month)}
	c.JSON(http.StatusOK, CalendarResponse{
		Month:       m,
		Offset:      m.Offset(),
		DaysInMonth: m.DaysIn(),
		Cells:       m.Grid(),
		Prev:        m.Prev(),
		Next:        m.Next(),
	})
}

// GetMeals godoc
// @Summary Recipes scheduled in one meal slot
// @Description Recipe IDs for (date, mealType) in the order they were added. Duplicates are kept.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param date query string true "yyyy-MM-dd"
// @Param mealType query string true "Breakfast, Lunch, Dinner or Snacks"
// @Success 200 {object} MealSlotResponse
// @Failure 400 {object} gin.H "Invalid date or meal type"
// @Failure 502 {object} gin.H "Backend unavailable"
// @Router /schedule [get]
func (h *ScheduleHandler) GetMeals(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, "date", c.Query("date"))
	if !ok {
		return
	}
	mealType, err := domain.ParseMealType(c.Query("mealType"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	ids, err := h.scheduleService.FetchMeals(c.Request.Context(), userID, date, mealType)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MealSlotResponse{Date: date, MealType: mealType, RecipeIDs: ids})
}

// GetDay godoc
// @Summary Every meal slot of a day
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param date query string true "yyyy-MM-dd"
// @Success 200 {object} DayResponse
// @Failure 400 {object} gin.H "Invalid date"
// @Router /schedule/day [get]
func (h *ScheduleHandler) GetDay(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	date, ok := parseDateParam(c, "date", c.Query("date"))
	if !ok {
		return
	}

	meals, err := h.scheduleService.FetchDay(c.Request.Context(), userID, date)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, DayResponse{Date: date, Meals: meals})
}

// AddMeal godoc
// @Summary Schedule a recipe into a meal slot
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param entry body AddMealRequest true "Slot and recipe"
// @Success 201 {object} domain.ScheduleEntry
// @Failure 400 {object} gin.H "Invalid input"
// @Router /schedule [post]
func (h *ScheduleHandler) AddMeal(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req AddMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, ok := parseDateParam(c, "date", req.Date)
	if !ok {
		return
	}

	entry, err := h.scheduleService.AddMeal(c.Request.Context(), userID, date, domain.MealType(req.MealType), req.RecipeID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RemoveMeal godoc
// @Summary Remove a scheduled meal
// @Tags Schedule
// @Security BearerAuth
// @Param id path string true "Schedule entry ID"
// @Success 204 "Removed"
// @Failure 404 {object} gin.H "No such entry for this user"
// @Router /schedule/{id} [delete]
func (h *ScheduleHandler) RemoveMeal(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.scheduleService.RemoveMeal(c.Request.Context(), userID, c.Param("id")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
